package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// TokenFile represents the stored API credentials
type TokenFile struct {
	AccessToken string `json:"access_token" validate:"required"`
	TokenType   string `json:"token_type,omitempty"`
}

// LoadTokenWithEnv loads the API bearer token for the given environment.
// PROFILE_API_TOKEN takes precedence; otherwise "token.json" (or "token.<env>.json")
// is read from the current directory or the home directory.
func LoadTokenWithEnv(env string) (*oauth2.Token, error) {
	if v := os.Getenv(EnvAPIToken); v != "" {
		return &oauth2.Token{AccessToken: v, TokenType: "Bearer"}, nil
	}

	tokenPath, err := findTokenFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find token file: %w", err)
	}

	return LoadTokenFromPath(tokenPath)
}

// LoadTokenFromPath loads and validates the API token from a specific path
func LoadTokenFromPath(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tf TokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	if err := validate.Struct(&tf); err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	tokenType := tf.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	return &oauth2.Token{AccessToken: tf.AccessToken, TokenType: tokenType}, nil
}

// SaveTokenToPath writes the token with owner-only permissions
func SaveTokenToPath(path string, token *oauth2.Token) error {
	data, err := json.Marshal(TokenFile{AccessToken: token.AccessToken, TokenType: token.TokenType})
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// findTokenFile searches for token.json in current directory and home directory
func findTokenFile(env string) (string, error) {
	tokenFileName := "token.json"
	if env != "" {
		tokenFileName = "token." + env + ".json"
	}

	if _, err := os.Stat(tokenFileName); err == nil {
		return tokenFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeTokenPath := filepath.Join(homeDir, tokenFileName)
	if _, err := os.Stat(homeTokenPath); err == nil {
		return homeTokenPath, nil
	}

	return "", fmt.Errorf("token file %s not found in current directory or home directory", tokenFileName)
}
