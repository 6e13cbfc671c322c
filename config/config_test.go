package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CHECKIN_SECRET", "")
	t.Setenv("CONTEXT_TIMEOUT", "")
	t.Setenv("NOTIFICATION_STORE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Contains(t, cfg.DBUrl, "campusevents")
	assert.Equal(t, "dev-secret-change-me", cfg.JWTSecret)
	assert.Equal(t, cfg.JWTSecret, cfg.CheckinSecret)
	assert.Equal(t, 10*time.Second, cfg.ContextTimeout)
	assert.Equal(t, "postgres", cfg.NotificationStore)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "noop", cfg.Email.Provider)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CHECKIN_SECRET", "other")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("CONTEXT_TIMEOUT", "not-a-duration")
	t.Setenv("NOTIFICATION_STORE", "Mongo")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("SES_INSECURE_SKIP_VERIFY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "other", cfg.CheckinSecret)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10*time.Second, cfg.ContextTimeout, "invalid duration falls back to default")
	assert.Equal(t, "mongo", cfg.NotificationStore)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Email.SESInsecureSkipVerify)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
