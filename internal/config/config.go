package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"clubsite/pkg/logger"
	"clubsite/pkg/utils"
)

// DefaultAdminPassword is the development fallback credential. Production refuses it.
const DefaultAdminPassword = "password123"

var AppConfig *Config

func (c *Config) GetBaseUrl() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", c.Server.Port)
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// SessionTTL returns the parsed idle lifetime. Zero disables expiry.
func (c *Config) SessionTTL() time.Duration {
	d, _ := time.ParseDuration(c.Session.TTL)
	return d
}

// CleanupInterval returns the upload sweep period. Zero disables the cleaner.
func (c *Config) CleanupInterval() time.Duration {
	d, _ := time.ParseDuration(c.Upload.CleanupInterval)
	return d
}

// CleanupGrace returns the minimum age of a sweepable upload, 10 minutes when unset.
func (c *Config) CleanupGrace() time.Duration {
	d, err := time.ParseDuration(c.Upload.CleanupGrace)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// MaxUploadBytes returns the multipart limit for add forms.
func (c *Config) MaxUploadBytes() int64 {
	return utils.SizeToBytes(c.Upload.MaxUploadSize, 16<<20)
}

// Load reads .env, config.yaml (searched in paths, then ".") and the environment,
// validates the result and stores it in AppConfig.
func Load(paths ...string) (*Config, error) {
	// .env is optional; variables already set win.
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("CLUBSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.path", "DATABASE_PATH")
	v.BindEnv("upload.dir", "UPLOAD_DIR")
	v.BindEnv("admin.username", "ADMIN_USERNAME")
	v.BindEnv("admin.password", "ADMIN_PASSWORD")
	v.BindEnv("admin.password_hash", "ADMIN_PASSWORD_HASH")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logger.LogInfo("Config file not found. Using Environment Variables and Defaults.")
		} else {
			return nil, fmt.Errorf("config file found but unreadable: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg.BaseURL = cfg.GetBaseUrl()
	for i, ext := range cfg.Upload.AllowedExtensions {
		cfg.Upload.AllowedExtensions[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = &cfg

	logger.LogInfo("%s v%s Initialized | Env: %s | Port: %d",
		cfg.App.Name,
		cfg.App.Version,
		cfg.Server.Env,
		cfg.Server.Port,
	)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "Club Hub")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.start_message", true)

	// Server
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.env", "development")

	// Database
	v.SetDefault("database.path", "./data/clubsite.db")

	// Uploads
	v.SetDefault("upload.dir", "./static/image")
	v.SetDefault("upload.allowed_extensions", []string{"png", "jpg", "jpeg", "gif", "webp"})
	v.SetDefault("upload.max_upload_size", "16MB")
	v.SetDefault("upload.thumbnails", true)
	v.SetDefault("upload.thumbnail_size", 480)
	v.SetDefault("upload.cleanup_interval", "1h")
	v.SetDefault("upload.cleanup_grace", "10m")

	// Admin
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", DefaultAdminPassword)

	// Session
	v.SetDefault("session.cookie_name", "session_token")
	v.SetDefault("session.ttl", "0")

	// Security & Limits
	v.SetDefault("security.trust_proxy_headers", false)
	v.SetDefault("security.rate_limit.enabled", true)
	v.SetDefault("security.rate_limit.requests", 20)
	v.SetDefault("security.rate_limit.window", "1s")
	v.SetDefault("security.rate_limit.burst", 50)
	v.SetDefault("security.login_rate_limit.enabled", true)
	v.SetDefault("security.login_rate_limit.requests", 1)
	v.SetDefault("security.login_rate_limit.window", "1s")
	v.SetDefault("security.login_rate_limit.burst", 10)

	// Metrics
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.path", "/metrics")
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	if c.Admin.Username == "" || (c.Admin.Password == "" && c.Admin.PasswordHash == "") {
		return fmt.Errorf(
			"admin credentials are missing. Set 'admin.username' and 'admin.password_hash' " +
				"(or ADMIN_USERNAME / ADMIN_PASSWORD_HASH env vars)",
		)
	}

	if c.Admin.PasswordHash == "" && c.Admin.Password == DefaultAdminPassword {
		if c.IsProduction() {
			return fmt.Errorf("admin.password cannot be the default in production environment")
		}
		logger.LogWarn("Security Alert: Using the default admin password. Do not use this in production!")
	}

	if c.Upload.Dir == "" {
		return fmt.Errorf("upload.dir cannot be empty")
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("upload.allowed_extensions cannot be empty")
	}
	if c.Upload.ThumbnailSize <= 0 {
		return fmt.Errorf("invalid upload.thumbnail_size %d", c.Upload.ThumbnailSize)
	}

	for name, val := range map[string]string{
		"upload.cleanup_interval": c.Upload.CleanupInterval,
		"upload.cleanup_grace":    c.Upload.CleanupGrace,
	} {
		if val == "" {
			continue
		}
		if d, err := time.ParseDuration(val); err != nil || d < 0 {
			return fmt.Errorf("invalid %s format '%s'", name, val)
		}
	}

	if d, err := time.ParseDuration(c.Session.TTL); err != nil || d < 0 {
		return fmt.Errorf("invalid session.ttl format '%s'", c.Session.TTL)
	}

	for name, rl := range map[string]RateLimitConfig{
		"rate_limit":       c.Security.RateLimit,
		"login_rate_limit": c.Security.LoginRateLimit,
	} {
		if _, err := time.ParseDuration(rl.Window); err != nil {
			return fmt.Errorf("invalid %s.window format '%s': %v", name, rl.Window, err)
		}
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name cannot be empty")
	}
	return nil
}
