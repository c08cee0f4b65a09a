package api

import (
	"os"
	"strconv"
	"time"
)

// Auth strategy names accepted in AUTH_TYPE.
const (
	AuthTypeBasic             = "basic"
	AuthTypeSession           = "session"
	AuthTypeSessionExpiring   = "session_exp"
	AuthTypeSessionPersistent = "session_db"
	AuthTypeService           = "service"
)

// Config carries the environment-driven settings of the HTTP surface.
type Config struct {
	// AuthType selects the authentication strategy.
	AuthType string
	// SessionName is the session cookie name. When empty, session cookies
	// are neither set nor read, so cookie authentication always fails.
	SessionName string
	// SessionDuration bounds session lifetime. Zero or negative means
	// sessions never expire.
	SessionDuration time.Duration
}

// ConfigFromEnv builds a Config from AUTH_TYPE, SESSION_NAME, and
// SESSION_DURATION. SESSION_DURATION is a number of seconds; a missing or
// malformed value yields zero, disabling expiry.
func ConfigFromEnv() Config {
	cfg := Config{
		AuthType:    os.Getenv("AUTH_TYPE"),
		SessionName: os.Getenv("SESSION_NAME"),
	}
	if cfg.AuthType == "" {
		cfg.AuthType = AuthTypeService
	}
	if raw := os.Getenv("SESSION_DURATION"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil {
			cfg.SessionDuration = time.Duration(secs) * time.Second
		}
	}
	return cfg
}
