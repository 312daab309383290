package config

import (
	"flag"
	"os"
	"time"

	"github.com/aihealth/authcore/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-e string   identity provider endpoint URL
//	-k string   identity provider API key
//	-d string   store driver: memory, postgres or mongo
//	-dsn string postgres connection string
//	-m string   mongo connection string
//	-t int      request timeout in seconds
//
// The function filters os.Args down to the flags it owns, using
// flagx.Pick, so other packages' flags pass through untouched.
func parseFlags(cfg *Config) {
	args := flagx.Pick(os.Args[1:], "-e", "-k", "-d", "-dsn", "-m", "-t")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ProviderEndpoint, "e", cfg.ProviderEndpoint, "identity provider endpoint URL")
	fs.StringVar(&cfg.ProviderAPIKey, "k", cfg.ProviderAPIKey, "identity provider API key")
	fs.StringVar(&cfg.StoreDriver, "d", cfg.StoreDriver, "record store driver (memory, postgres, mongo)")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "postgres connection string")
	fs.StringVar(&cfg.MongoURI, "m", cfg.MongoURI, "mongo connection string")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
}
