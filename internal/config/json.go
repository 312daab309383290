package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aihealth/authcore/internal/flagx"
)

// Duration unmarshals either a string like "10s" or an integer
// nanosecond count, so JSON configs can use the readable form.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", x, err)
		}
		d.Duration = parsed
	case float64:
		d.Duration = time.Duration(x)
	default:
		return fmt.Errorf("invalid duration value %v", v)
	}
	return nil
}

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Only
// fields present in the file overlay the runtime Config.
type jsonConfig struct {
	ProviderEndpoint *string   `json:"provider_endpoint"`
	ProviderAPIKey   *string   `json:"provider_api_key"`
	StoreDriver      *string   `json:"store_driver"`
	DatabaseDSN      *string   `json:"database_dsn"`
	MongoURI         *string   `json:"mongo_uri"`
	MongoDatabase    *string   `json:"mongo_database"`
	RequestTimeout   *Duration `json:"request_timeout"`
	SessionDir       *string   `json:"session_dir"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flag. No flag means no JSON is loaded. Read and unmarshal
// errors panic; a config file that exists but cannot be used is a
// startup defect, not a condition to limp past.
func parseJson(cfg *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ProviderEndpoint != nil {
		cfg.ProviderEndpoint = *jc.ProviderEndpoint
	}
	if jc.ProviderAPIKey != nil {
		cfg.ProviderAPIKey = *jc.ProviderAPIKey
	}
	if jc.StoreDriver != nil {
		cfg.StoreDriver = *jc.StoreDriver
	}
	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.MongoURI != nil {
		cfg.MongoURI = *jc.MongoURI
	}
	if jc.MongoDatabase != nil {
		cfg.MongoDatabase = *jc.MongoDatabase
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionDir != nil {
		cfg.SessionDir = *jc.SessionDir
	}
}
