package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config values from environment variables, seeding the
// environment from a .env file in the working directory when one exists.
// Duration variables accept time.ParseDuration syntax ("15m", "720h").
//
// Recognized variables:
//
//	DATABASE_DSN       PostgreSQL DSN
//	JWT_SECRET_KEY     HMAC secret for access tokens
//	ACCESS_TOKEN_TTL   access token lifetime
//	REFRESH_TOKEN_TTL  refresh token lifetime
//	RESET_TOKEN_TTL    password-reset token lifetime
//	SWEEP_INTERVAL     expired-token sweep period
func parseEnv(config *Config) {
	// Absence of a .env file is the normal case.
	_ = godotenv.Load()

	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}

	overlayDuration(&config.AccessTokenTTL, "ACCESS_TOKEN_TTL")
	overlayDuration(&config.RefreshTokenTTL, "REFRESH_TOKEN_TTL")
	overlayDuration(&config.ResetTokenTTL, "RESET_TOKEN_TTL")
	overlayDuration(&config.SweepInterval, "SWEEP_INTERVAL")
}

func overlayDuration(dst *time.Duration, name string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic("config: invalid duration in " + name + ": " + err.Error())
	}
	*dst = d
}
