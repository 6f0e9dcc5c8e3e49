package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/truco?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ADMIN_USER", "admin")
	t.Setenv("ADMIN_PASS_HASH", "$2a$10$abcdefghijklmnopqrstuv")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.UploadsEnabled())
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{"database url", "DATABASE_URL"},
		{"jwt secret", "JWT_SECRET_KEY"},
		{"admin user", "ADMIN_USER"},
		{"admin pass hash", "ADMIN_PASS_HASH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.missing, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestLoadServerPort(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("SERVER_PORT", "9000")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.ServerPort)

	t.Setenv("SERVER_PORT", "not-a-number")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("SERVER_PORT", "70000")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadCORSOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ORIGINS", "https://truco.example.com, https://admin.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://truco.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
}

func TestOptionalSubsystems(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("ADMIN_EMAIL", "organizador@example.com")
	t.Setenv("R2_ACCOUNT_ID", "abc123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MailEnabled())
	assert.True(t, cfg.UploadsEnabled())
	assert.Equal(t, 465, cfg.SMTPPort)
}
