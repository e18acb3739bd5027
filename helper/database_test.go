package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setFullConfigEnvs(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_DATABASE", "atlas")
	t.Setenv("DB_USERNAME", "user")
	t.Setenv("DB_PASSWORD", "password")
	t.Setenv("DB_SCHEMA", "")
	t.Setenv("DB_SSLMODE", "")
}

func TestNewDatabaseConfiguration(t *testing.T) {
	t.Run("Reads configuration from environment", func(t *testing.T) {
		setFullConfigEnvs(t)

		config, err := NewDatabaseConfiguration()

		require.NoError(t, err)
		assert.Equal(t, "localhost", config.Host)
		assert.Equal(t, "5432", config.Port)
		assert.Equal(t, "atlas", config.Database)
		assert.Equal(t, "user", config.Username)
	})

	t.Run("Defaults schema and sslmode", func(t *testing.T) {
		setFullConfigEnvs(t)

		config, err := NewDatabaseConfiguration()

		require.NoError(t, err)
		assert.Equal(t, "public", config.Schema, "Expected schema to default to public")
		assert.Equal(t, "disable", config.SSLMode, "Expected sslmode to default to disable")
	})

	t.Run("Incomplete configuration fails", func(t *testing.T) {
		setFullConfigEnvs(t)
		t.Setenv("DB_HOST", "")

		_, err := NewDatabaseConfiguration()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "incomplete database configuration")
	})
}
