package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_DOMAIN", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("BASE_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "github.com", cfg.GitHub.Domain)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Empty(t, cfg.GitHub.Token)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_DOMAIN", "github.example.com")
	t.Setenv("GH_CLIENT_ID", "abc123")
	t.Setenv("GH_CLIENT_SECRET", "sekrit")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("BASE_URL", "https://badges.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.GitHub.Token)
	assert.Equal(t, "github.example.com", cfg.GitHub.Domain)
	assert.Equal(t, "abc123", cfg.OAuth.ClientID)
	assert.Equal(t, "sekrit", cfg.OAuth.ClientSecret)
	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.Equal(t, "https://badges.example.com", cfg.Server.BaseURL)
}

func TestValidateOAuthConfig(t *testing.T) {
	testCases := []struct {
		name         string
		clientID     string
		clientSecret string
		wantErr      bool
		wantMissing  string
	}{
		{
			name:         "Complete credentials",
			clientID:     "abc123",
			clientSecret: "sekrit",
			wantErr:      false,
		},
		{
			name:        "Missing secret",
			clientID:    "abc123",
			wantErr:     true,
			wantMissing: "GH_CLIENT_SECRET",
		},
		{
			name:         "Missing id",
			clientSecret: "sekrit",
			wantErr:      true,
			wantMissing:  "GH_CLIENT_ID",
		},
		{
			name:        "Missing both",
			wantErr:     true,
			wantMissing: "GH_CLIENT_ID",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.OAuth.ClientID = tc.clientID
			cfg.OAuth.ClientSecret = tc.clientSecret

			err := ValidateOAuthConfig(cfg)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantMissing)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
