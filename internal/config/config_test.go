package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  env: production
  port: 9000
database:
  driver: mysql
  host: db.internal
jwt:
  secret: file-secret
discord:
  admin_ids: ["111"]
  editor_ids: ["222", "333"]
`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, []string{"111"}, cfg.Discord.AdminIDs)
	assert.Equal(t, 7, cfg.JWT.ExpiresDays) // default kept
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "app:\n  env: local\n")

	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("ADMIN_DISCORD_IDS", "1, 2,,3")

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, []string{"1", "2", "3"}, cfg.Discord.AdminIDs)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}
