package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3003, cfg.Server.Port)
	assert.Equal(t, "data/warenwirtschaft.db", cfg.Database.Path)
	assert.Equal(t, "Factor Warenwirtschaftssystem", cfg.Company.Name)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
company:
  name: "Test GmbH"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "Test GmbH", cfg.Company.Name)
	// Unset keys keep their defaults
	assert.Equal(t, "data/warenwirtschaft.db", cfg.Database.Path)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 3003},
		Database: DatabaseConfig{Path: "data/test.db"},
		Company:  CompanyConfig{Name: "Test GmbH"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 3003
	cfg.Database.Path = ""
	assert.Error(t, cfg.Validate())
}
