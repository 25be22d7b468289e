package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (c *testConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("FLASHCITE_TEST_NAME", "library")
	path := writeConfig(t, "name: ${FLASHCITE_TEST_NAME}\n")

	cfg := &testConfig{Port: 8080}
	require.NoError(t, Load(path, cfg))
	assert.Equal(t, "library", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_Errors(t *testing.T) {
	cfg := &testConfig{Port: 1}
	assert.Error(t, Load(filepath.Join(t.TempDir(), "missing.yaml"), cfg))

	assert.Error(t, Load(writeConfig(t, "port: [1, 2\n"), cfg))

	err := Load(writeConfig(t, "port: 0\n"), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadOptional(t *testing.T) {
	cfg := &testConfig{Port: 9000}
	require.NoError(t, LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"), cfg))
	assert.Equal(t, 9000, cfg.Port)

	invalid := &testConfig{}
	assert.Error(t, LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"), invalid))

	require.NoError(t, LoadOptional(writeConfig(t, "port: 7000\n"), cfg))
	assert.Equal(t, 7000, cfg.Port)
}
