package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "local", cfg.Storage.Mode)
	assert.Equal(t, "lead_changes", cfg.Realtime.ListenChannel)
	assert.Equal(t, 10, cfg.RateLimit.QuoteSubmissionsPerHour)
	assert.Equal(t, 48, cfg.Jobs.StaleLeadAfterHours)
	assert.Equal(t, "authenticated", cfg.Auth.Audience)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DATABASE_NAME", "leads_test")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "leads_test", cfg.Database.Name)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestDatabaseConfig_DSNAndURL(t *testing.T) {
	d := config.DatabaseConfig{Host: "db", Port: 5432, Name: "leads", User: "u", Password: "p", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=leads sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/leads?sslmode=disable", d.URL())
}

type mapSource map[string]string

func (m mapSource) GetSecretOrEnv(_ context.Context, name, _ string) (string, error) {
	if v, ok := m[name]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestApplySecrets(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Host = "localhost"

	err := config.ApplySecrets(context.Background(), cfg, mapSource{
		"POSTGRES-MAIN-PASSWORD": "from-vault",
		"auth-jwt-secret":        "jwt-secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "from-vault", cfg.Database.Password)
	assert.Equal(t, "jwt-secret", cfg.Auth.JWTSecret)
}

func TestApplySecrets_RequiresSomeCredential(t *testing.T) {
	err := config.ApplySecrets(context.Background(), &config.Config{}, mapSource{})
	assert.Error(t, err)
}
