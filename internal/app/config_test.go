package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("APP_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("JWT_SECRET", "fedcba9876543210fedcba9876543210")
	t.Setenv("SESSION_SECRET", "00112233445566778899aabbccddeeff")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsShortSecrets(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"app key", "APP_KEY"},
		{"jwt secret", "JWT_SECRET"},
		{"session secret", "SESSION_SECRET"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.key, "too-short")

			_, err := LoadConfig()
			require.Error(t, err)
			require.Contains(t, err.Error(), "at least 32 bytes")
		})
	}
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
}
