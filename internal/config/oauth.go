package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const EnvOAuthClientSecret = "STAFF_ROTA_OAUTH_CLIENT_SECRET"

// OAuthClientConfig is a Google OAuth client file as downloaded from the Cloud console.
// Either a desktop ("installed") or a web client can publish schedules.
type OAuthClientConfig struct {
	Installed *OAuthClient `json:"installed,omitempty" validate:"required_without=Web"`
	Web       *OAuthClient `json:"web,omitempty" validate:"required_without=Installed"`
}

// OAuthClient holds the fields the token exchange reads
type OAuthClient struct {
	ClientID     string   `json:"client_id" validate:"required"`
	ClientSecret string   `json:"client_secret" validate:"required"`
	AuthURI      string   `json:"auth_uri" validate:"required,url"`
	TokenURI     string   `json:"token_uri" validate:"required,url"`
	RedirectURIs []string `json:"redirect_uris" validate:"min=1,dive,uri"`
}

// Client returns whichever client section is present, preferring installed
func (c *OAuthClientConfig) Client() *OAuthClient {
	if c.Installed != nil {
		return c.Installed
	}
	return c.Web
}

// LoadOAuthClient loads the OAuth client for publishing. cfg.OAuthClientFile is used
// when set, otherwise "staff_rota_oauth.<env>.json" is looked up like the config file.
// STAFF_ROTA_OAUTH_CLIENT_SECRET replaces the secret from the file.
func LoadOAuthClient(cfg *Config, env string) (*OAuthClientConfig, error) {
	path := cfg.OAuthClientFile
	if path == "" {
		fileName := "staff_rota_oauth.json"
		if env != "" {
			fileName = "staff_rota_oauth." + env + ".json"
		}

		found, err := findFile(fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to find oauth client file: %w", err)
		}
		path = found
	}

	return LoadOAuthClientFromPath(path)
}

// LoadOAuthClientFromPath reads, overrides and validates an OAuth client file
func LoadOAuthClientFromPath(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var oauthCfg OAuthClientConfig
	if err := json.Unmarshal(data, &oauthCfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file: %w", err)
	}

	if secret := os.Getenv(EnvOAuthClientSecret); secret != "" {
		if client := oauthCfg.Client(); client != nil {
			client.ClientSecret = secret
		}
	}

	if err := validate.Struct(&oauthCfg); err != nil {
		return nil, fmt.Errorf("oauth client validation failed: %w", err)
	}

	return &oauthCfg, nil
}

// findFile looks for fileName in the current directory, then the home directory
func findFile(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", fileName)
}
