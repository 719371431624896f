package config_test

import (
	"testing"

	"usermanagement/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendOrigin)
	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "activity_queue", cfg.RabbitMQ.Queue)
}

func TestFromViper_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("RABBITMQ_ENABLED", "true")

	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, config.DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.RabbitMQ.Enabled)
}

func TestFromViper_Rejects(t *testing.T) {
	t.Run("UnknownDriver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := config.FromViper(viper.New())
		assert.ErrorContains(t, err, "unsupported DB_DRIVER")
	})

	t.Run("SeveralOrigins", func(t *testing.T) {
		t.Setenv("FRONTEND_ORIGIN", "http://a.test,http://b.test")
		_, err := config.FromViper(viper.New())
		assert.ErrorContains(t, err, "exactly one origin")
	})
}
