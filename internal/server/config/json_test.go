package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestParseJson_OverlaysValues(t *testing.T) {
	path := writeTempConfig(t, `{
		"database_dsn": "postgres://json/db",
		"jwt_secret_key": "json-secret",
		"access_token_ttl": "5m",
		"refresh_token_ttl": "240h",
		"reset_token_ttl": 900000000000
	}`)

	oldArgs := os.Args
	os.Args = []string{"authd", "-c", path}
	defer func() { os.Args = oldArgs }()

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "postgres://json/db", c.DatabaseDSN)
	assert.Equal(t, "json-secret", c.SecretKey)
	assert.Equal(t, 5*time.Minute, c.AccessTokenTTL)
	assert.Equal(t, 240*time.Hour, c.RefreshTokenTTL)
	assert.Equal(t, 15*time.Minute, c.ResetTokenTTL)
	// absent fields keep defaults
	assert.Equal(t, 1*time.Hour, c.SweepInterval)
}

func TestParseJson_NoConfigFlagIsNoop(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"authd"}
	defer func() { os.Args = oldArgs }()

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "secretKey", c.SecretKey)
}
