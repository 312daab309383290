package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://identitytoolkit.googleapis.com", c.ProviderEndpoint)
	assert.Equal(t, DriverMemory, c.StoreDriver)
	assert.Equal(t, "authcore", c.MongoDatabase)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Empty(t, c.ProviderAPIKey)
	assert.Empty(t, c.SessionDir)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}
