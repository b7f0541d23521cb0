package session

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"clubsite/internal/config"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// hashCost is lowered by tests.
var hashCost = bcrypt.DefaultCost

// Credentials is the single configured admin account.
type Credentials struct {
	username []byte
	hash     []byte
}

// NewCredentials prefers admin.password_hash. A plaintext admin.password is
// hashed once here and never kept.
func NewCredentials(cfg config.AdminConfig) (*Credentials, error) {
	if cfg.Username == "" {
		return nil, errors.New("admin username is empty")
	}

	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		if cfg.Password == "" {
			return nil, errors.New("admin password is empty")
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), hashCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("admin.password_hash is not a bcrypt hash: %w", err)
	}

	return &Credentials{username: []byte(cfg.Username), hash: hash}, nil
}

// Verify checks both fields even when the username is wrong so timing stays flat.
func (c *Credentials) Verify(username, password string) error {
	userMatch := subtle.ConstantTimeCompare([]byte(username), c.username) == 1
	passErr := bcrypt.CompareHashAndPassword(c.hash, []byte(password))

	if !userMatch || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
