package config

type Config struct {
	// App: Site identity shown in page titles and the startup banner
	App InConfigAppConfig `mapstructure:"app"`

	// Server: Network configuration and execution environment
	Server ServerConfig `mapstructure:"server"`

	// Database: SQLite file location
	Database DatabaseConfig `mapstructure:"database"`

	// Upload: Where accepted images land and what is accepted
	Upload UploadConfig `mapstructure:"upload"`

	// Admin: The single shared admin credential
	Admin AdminConfig `mapstructure:"admin"`

	// Session: Cookie and lifetime settings for the session gate
	Session SessionConfig `mapstructure:"session"`

	// Security: Request throttling
	Security SecurityConfig `mapstructure:"security"`

	// Metrics: Prometheus exposition
	Metrics MetricsConfig `mapstructure:"metrics"`

	// BaseURL: The public-facing root URL used for absolute link generation
	BaseURL string `mapstructure:"base_url"`
}

type InConfigAppConfig struct {
	// Name: Site title (e.g., "Club Hub")
	Name string `mapstructure:"name"`

	// Version: Application semantic version (e.g., "0.1.0")
	Version string `mapstructure:"version"`

	StartMessage bool `mapstructure:"start_message"`
}

type ServerConfig struct {
	// Port: The TCP port the HTTP server will bind to (default: 5000, env PORT)
	Port int `mapstructure:"port"`

	// Env: Execution context (development, staging, production)
	Env string `mapstructure:"env"`
}

type DatabaseConfig struct {
	// Path: Physical location of the SQLite database file (e.g., ./data/clubsite.db).
	// ":memory:" keeps everything in RAM.
	Path string `mapstructure:"path"`
}

type UploadConfig struct {
	// Dir: Upload directory (e.g., ./static/image)
	Dir string `mapstructure:"dir"`

	// AllowedExtensions: Lowercase extensions without the dot
	AllowedExtensions []string `mapstructure:"allowed_extensions"`

	// MaxUploadSize: Maximum multipart payload for add forms (e.g., "16MB")
	MaxUploadSize string `mapstructure:"max_upload_size"`

	// Thumbnails: Render a JPEG preview next to each upload
	Thumbnails bool `mapstructure:"thumbnails"`

	// ThumbnailSize: Bounding box edge for previews in pixels
	ThumbnailSize int `mapstructure:"thumbnail_size"`

	// CleanupInterval: How often unreferenced uploads are swept (e.g., "1h"). "0" disables the cleaner.
	CleanupInterval string `mapstructure:"cleanup_interval"`

	// CleanupGrace: Minimum age before an unreferenced file may be removed
	CleanupGrace string `mapstructure:"cleanup_grace"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`

	// Password: Plaintext fallback, hashed with bcrypt at startup
	Password string `mapstructure:"password"`

	// PasswordHash: bcrypt hash, preferred over Password when set
	PasswordHash string `mapstructure:"password_hash"`
}

type SessionConfig struct {
	// CookieName: Name of the opaque session token cookie
	CookieName string `mapstructure:"cookie_name"`

	// TTL: Idle lifetime (e.g., "24h"). "0" keeps sessions until logout.
	TTL string `mapstructure:"ttl"`
}

type SecurityConfig struct {
	// TrustProxyHeaders: Key rate limits on X-Forwarded-For / X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// LoginRateLimit: Stricter bucket for POST /login
	LoginRateLimit RateLimitConfig `mapstructure:"login_rate_limit"`
}

type RateLimitConfig struct {
	// Enabled: Toggle for the limiter
	Enabled bool `mapstructure:"enabled"`

	// Requests: Number of allowed requests per time window
	Requests int `mapstructure:"requests"`

	// Window: The timeframe for the request limit (e.g., "1s", "1m")
	Window string `mapstructure:"window"`

	// Burst: Temporary allowed spike capacity above the steady-rate limit
	Burst int `mapstructure:"burst"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Path: Exposition route (e.g., "/metrics")
	Path string `mapstructure:"path"`
}
