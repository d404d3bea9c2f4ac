// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	GitHub GitHubConfig
	OAuth  OAuthConfig
	Server ServerConfig
}

// GitHubConfig holds GitHub API specific configuration.
type GitHubConfig struct {
	// Token authenticates badge fetches. Optional: without it requests run
	// unauthenticated against the public API rate limit.
	Token string

	// Domain supports GitHub Enterprise installs, defaults to github.com.
	Domain string

	// APIURL overrides the API base URL entirely, taking precedence over
	// Domain. Used by tests to point the client at a local server.
	APIURL string
}

// OAuthConfig holds the acceptor's OAuth app credentials.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string

	// BaseURL is the public base URL of this service, used to build the
	// OAuth redirect URI.
	BaseURL string
}

// LoadConfig initializes and loads configuration from environment variables.
// A .env file in the working directory is honoured when present.
func LoadConfig() (*Config, error) {
	// Best effort: absence of a .env file is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Map specific environment variables
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.domain", "GITHUB_DOMAIN")
	v.BindEnv("github.api_url", "GITHUB_API_URL")
	v.BindEnv("oauth.client_id", "GH_CLIENT_ID")
	v.BindEnv("oauth.client_secret", "GH_CLIENT_SECRET")
	v.BindEnv("server.listen_addr", "LISTEN_ADDR")
	v.BindEnv("server.base_url", "BASE_URL")

	v.SetDefault("github.domain", "github.com")
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.base_url", "http://localhost:8080")

	config := &Config{
		GitHub: GitHubConfig{
			Token:  v.GetString("github.token"),
			Domain: v.GetString("github.domain"),
			APIURL: v.GetString("github.api_url"),
		},
		OAuth: OAuthConfig{
			ClientID:     v.GetString("oauth.client_id"),
			ClientSecret: v.GetString("oauth.client_secret"),
		},
		Server: ServerConfig{
			ListenAddr: v.GetString("server.listen_addr"),
			BaseURL:    v.GetString("server.base_url"),
		},
	}

	return config, nil
}

// ValidateOAuthConfig ensures the acceptor's credentials are complete. It is
// only called when the OAuth routes are being mounted; the badge routes run
// without any of these variables.
func ValidateOAuthConfig(config *Config) error {
	var missingVars []string

	if config.OAuth.ClientID == "" {
		missingVars = append(missingVars, "GH_CLIENT_ID")
	}
	if config.OAuth.ClientSecret == "" {
		missingVars = append(missingVars, "GH_CLIENT_SECRET")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}
