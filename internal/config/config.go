// Package config assembles runtime settings for the authcore CLI and
// its backing services. Values are layered: built-in defaults first,
// then a JSON file (when -c/-config names one), then command-line
// flags. Later sources win.
package config

import "time"

// Store driver names accepted in StoreDriver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds runtime settings.
//
// Fields:
//   - ProviderEndpoint: base URL of the identity toolkit REST endpoint.
//   - ProviderAPIKey: API key appended to every provider request.
//   - StoreDriver: which record store backs accounts (memory, postgres, mongo).
//   - DatabaseDSN: postgres connection string (StoreDriver=postgres).
//   - MongoURI: mongo connection string (StoreDriver=mongo).
//   - MongoDatabase: database holding the account collection.
//   - RequestTimeout: per-call deadline for provider and store operations.
//   - SessionDir: where remembered login state is kept ("" = cwd default).
type Config struct {
	ProviderEndpoint string
	ProviderAPIKey   string
	StoreDriver      string
	DatabaseDSN      string
	MongoURI         string
	MongoDatabase    string
	RequestTimeout   time.Duration
	SessionDir       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ProviderEndpoint = "https://identitytoolkit.googleapis.com"
	c.ProviderAPIKey = ""
	c.StoreDriver = DriverMemory
	c.DatabaseDSN = ""
	c.MongoURI = ""
	c.MongoDatabase = "authcore"
	c.RequestTimeout = 10 * time.Second
	c.SessionDir = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
