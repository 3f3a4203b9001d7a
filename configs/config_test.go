package configs

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadLayersFileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
places:
  apiKey: file-key
routes:
  provider: directions
search:
  quietPeriod: 300ms
sessions:
  ttl: 5m
server:
  port: 8080
`)
	t.Setenv("PLACES_API_KEY", "env-key")
	t.Setenv("MAPS_SEARCH_MINQUERYLENGTH", "3")

	c, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", c.Places.APIKey)
	assert.Equal(t, "env-key", c.Routes.APIKey, "routes key falls back to the places key")
	assert.Equal(t, RoutesProviderDirections, c.Routes.Provider)
	assert.Equal(t, 300*time.Millisecond, c.Search.QuietPeriod)
	assert.Equal(t, 3, c.Search.MinQueryLength)
	assert.Equal(t, 14.0, c.Search.SelectionZoom)
	assert.Equal(t, 5*time.Minute, c.Sessions.TTL)
	assert.Equal(t, 8080, c.Server.Port)
}

func TestExampleConfig(t *testing.T) {
	c, err := Load(context.Background(), "config.example.yaml")
	require.NoError(t, err)
	assert.Equal(t, RoutesProviderRoutesAPI, c.Routes.Provider)
	assert.Equal(t, time.Second, c.Search.QuietPeriod)
	assert.Equal(t, 2*time.Minute, c.Cache.Route)
	assert.Equal(t, 3030, c.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults with key", mutate: func(c *Config) {}},
		{name: "missing key", mutate: func(c *Config) { c.Places.APIKey = "" }, wantErr: "api key"},
		{name: "unknown provider", mutate: func(c *Config) { c.Routes.Provider = "osrm" }, wantErr: "osrm"},
		{name: "zero quiet period", mutate: func(c *Config) { c.Search.QuietPeriod = 0 }, wantErr: "quiet period"},
		{name: "zero min length", mutate: func(c *Config) { c.Search.MinQueryLength = 0 }, wantErr: "min query length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.Places.APIKey = "key"
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	err := Default().Read(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStringMasksKeys(t *testing.T) {
	c := Default()
	c.Places.APIKey = "AIzaSecretValue"
	assert.NotContains(t, c.String(), "SecretValue")
	assert.Contains(t, c.String(), "AIza****")
}
