// Package cli implements the interactive account console: login,
// email availability checks and signup on top of the resolver and
// signup services.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/aihealth/authcore/internal/config"
	"github.com/aihealth/authcore/internal/cryptox"
	"github.com/aihealth/authcore/internal/logging"
	"github.com/aihealth/authcore/internal/login"
	"github.com/aihealth/authcore/internal/provider"
	"github.com/aihealth/authcore/internal/provider/identitytoolkit"
	"github.com/aihealth/authcore/internal/session"
	"github.com/aihealth/authcore/internal/signup"
	"github.com/aihealth/authcore/internal/store"
	mongostore "github.com/aihealth/authcore/internal/store/mongo"
	pgstore "github.com/aihealth/authcore/internal/store/postgres"
)

// The App talks to its services through these narrow interfaces so
// tests can substitute stubs.

type credentialResolver interface {
	Resolve(ctx context.Context, email, password string) login.Outcome
}

type duplicateChecker interface {
	Check(ctx context.Context, email string) signup.DuplicateCheckResult
}

type accountCreator interface {
	Submit(ctx context.Context, email, password string, profile map[string]any) (*provider.Subject, error)
}

type lastEmailCache interface {
	LastEmail() (string, error)
	SetLastEmail(email string) error
}

type App struct {
	config   *config.Config
	resolver credentialResolver
	checker  duplicateChecker
	accounts accountCreator
	session  lastEmailCache
	logger   logging.Logger

	reader *bufio.Reader
	out    io.Writer

	currentEmail string
}

// NewApp wires the configured provider and record store into a ready
// console. The returned cleanup func closes whatever backend was
// opened; it is safe to call when nil checks matter to the caller.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, func(context.Context) error, error) {
	var prov provider.IdentityProvider
	if cfg.ProviderAPIKey == "" {
		// No API key means nothing to authenticate against remotely;
		// fall back to the in-process provider for local runs.
		prov = provider.NewMemoryProvider()
	} else {
		prov = identitytoolkit.NewClient(cfg.ProviderEndpoint, cfg.ProviderAPIKey,
			&http.Client{Timeout: cfg.RequestTimeout})
	}

	var recs store.RecordStore
	closeFn := func(context.Context) error { return nil }

	switch cfg.StoreDriver {
	case config.DriverMemory:
		recs = store.NewMemoryStore()
	case config.DriverPostgres:
		pg, err := pgstore.Open(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		if err := pg.RunMigrations(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate postgres store: %w", err)
		}
		recs = pg
	case config.DriverMongo:
		mg, disconnect, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, "usercode")
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo store: %w", err)
		}
		recs = mg
		closeFn = disconnect
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	cache, err := session.NewFileCache(cfg.SessionDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open session cache: %w", err)
	}

	verifier := cryptox.NewVerifier(&cryptox.LibBcryptChecker{})
	reconciler := signup.NewReconciler(prov, recs, logger)

	return &App{
		config:   cfg,
		resolver: login.NewResolver(prov, recs, verifier, logger),
		checker:  reconciler,
		accounts: signup.NewService(prov, recs, reconciler, logger),
		session:  cache,
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, closeFn, nil
}

func (a *App) isLoggedIn() bool {
	return a.currentEmail != ""
}

// Run starts the console loop and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Account console (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) status() string {
	if a.currentEmail == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.currentEmail)
}
