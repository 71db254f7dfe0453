package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	p := writeConfig(t, `
jwt:
  secret: 0123456789abcdef-test
db:
  driver: memory
products:
  enforceOwner: true
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, 60, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, 10, c.Password.BcryptCost)
	assert.Equal(t, "memory", c.DB.Driver)
	assert.True(t, c.Products.EnforceOwner)
	assert.Equal(t, "", c.Redis.Addr)
}

func TestLoad_EnvOverride(t *testing.T) {
	p := writeConfig(t, `
jwt:
  secret: 0123456789abcdef-file
db:
  driver: memory
`)
	t.Setenv("APP_JWT_SECRET", "0123456789abcdef-env")
	t.Setenv("APP_REDIS_ADDR", "127.0.0.1:6379")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef-env", c.JWT.Secret)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	p := writeConfig(t, "jwt:\n  secret: short\ndb:\n  driver: memory\n")
	_, err = Load(p)
	require.ErrorContains(t, err, "jwt.secret")

	p = writeConfig(t, "jwt:\n  secret: 0123456789abcdef-x\ndb:\n  driver: oracle\n")
	_, err = Load(p)
	require.ErrorContains(t, err, "db.driver")
}
