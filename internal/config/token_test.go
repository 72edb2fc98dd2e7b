package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestLoadTokenFromPath(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantType string
		wantErr  string
	}{
		{
			name:     "valid token",
			content:  `{"access_token": "abc123", "token_type": "Bearer"}`,
			wantType: "Bearer",
		},
		{
			name:     "defaults token type",
			content:  `{"access_token": "abc123"}`,
			wantType: "Bearer",
		},
		{
			name:    "missing access token",
			content: `{"token_type": "Bearer"}`,
			wantErr: "token validation failed",
		},
		{
			name:    "invalid JSON",
			content: `{"access_token": `,
			wantErr: "failed to parse token file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			token, err := LoadTokenFromPath(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "abc123", token.AccessToken)
			assert.Equal(t, tt.wantType, token.TokenType)
		})
	}
}

func TestSaveTokenToPath_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.test.json")

	require.NoError(t, SaveTokenToPath(path, &oauth2.Token{AccessToken: "xyz", TokenType: "Bearer"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	token, err := LoadTokenFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "xyz", token.AccessToken)
}

func TestLoadTokenWithEnv(t *testing.T) {
	t.Run("env variable wins", func(t *testing.T) {
		t.Setenv(EnvAPIToken, "from-env")

		token, err := LoadTokenWithEnv("test")
		require.NoError(t, err)
		assert.Equal(t, "from-env", token.AccessToken)
		assert.Equal(t, "Bearer", token.TokenType)
	})

	t.Run("token file in current directory", func(t *testing.T) {
		t.Setenv(EnvAPIToken, "")
		t.Chdir(t.TempDir())
		require.NoError(t, os.WriteFile("token.test.json", []byte(`{"access_token": "from-file"}`), 0600))

		token, err := LoadTokenWithEnv("test")
		require.NoError(t, err)
		assert.Equal(t, "from-file", token.AccessToken)
	})

	t.Run("no token anywhere", func(t *testing.T) {
		t.Setenv(EnvAPIToken, "")
		t.Setenv("HOME", t.TempDir())
		t.Chdir(t.TempDir())

		_, err := LoadTokenWithEnv("test")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to find token file")
	})
}
