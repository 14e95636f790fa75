package main

import (
	"context"
	"html/template"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/myrjola/casefile/internal/ai"
	"github.com/myrjola/casefile/internal/campaign"
	"github.com/myrjola/casefile/internal/envstruct"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/gamestate"
	"github.com/myrjola/casefile/internal/logging"
	"github.com/myrjola/casefile/internal/pprofserver"
	"github.com/myrjola/casefile/internal/redisstore"
	"github.com/myrjola/casefile/internal/sqlite"
)

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"CASEFILE_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ephemeral in-memory database.
	SqliteURL string `env:"CASEFILE_SQLITE_URL" envDefault:"./casefile.sqlite"`
	// Store selects where save slots are kept: sqlite, redis or memory. Sessions always live in SQLite.
	Store     string `env:"CASEFILE_STORE" envDefault:"sqlite"`
	RedisAddr string `env:"CASEFILE_REDIS_ADDR" envDefault:"localhost:6379"`
	// OpenAIKey enables case generation. Leave empty to disable it.
	OpenAIKey     string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:""`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:""`
	// PprofAddr is the loopback address for pprof. Leave empty to disable it.
	PprofAddr string `env:"CASEFILE_PPROF_ADDR" envDefault:""`
}

type application struct {
	logger         *slog.Logger
	engine         *campaign.Engine
	history        *sqlite.CaseHistory
	cases          *ai.CaseGenerator
	interrogator   *ai.Interrogator
	sessionManager *scs.SessionManager
	templates      map[string]*template.Template
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg config
		err error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close database", errors.SlogError(closeErr))
		}
	}()

	app := application{
		logger:         logger,
		engine:         nil,
		history:        nil,
		cases:          nil,
		interrogator:   nil,
		sessionManager: scs.New(),
		templates:      nil,
	}

	store, closeStore, err := app.openStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeStore(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close store", errors.SlogError(closeErr))
		}
	}()
	var engineOpts []campaign.Option
	if _, ok := store.(*sqlite.StateStore); ok {
		// The case history read model lives next to the states so that clearing a slot clears both.
		app.history = sqlite.NewCaseHistory(db, logger)
		engineOpts = append(engineOpts, campaign.WithHistory(app.history))
	}
	app.engine = campaign.NewEngine(gamestate.NewGateway(store, logger), logger, engineOpts...)

	if cfg.OpenAIKey != "" {
		client := ai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		app.cases = ai.NewCaseGenerator(client, logger)
		app.interrogator = ai.NewInterrogator(client, logger)
	} else {
		logger.LogAttrs(ctx, slog.LevelWarn, "OPENAI_API_KEY not set, case generation and interrogation disabled")
	}

	if app.templates, err = parseTemplates(); err != nil {
		return errors.Wrap(err, "parse templates")
	}

	sessionCleanupInterval := 24 * time.Hour //nolint:mnd // daily
	sessionStore := sqlite3store.NewWithCleanupInterval(db.ReadWrite, sessionCleanupInterval)
	defer sessionStore.StopCleanup()
	app.sessionManager.Store = sessionStore
	app.sessionManager.Lifetime = 30 * 24 * time.Hour //nolint:mnd // keep the save slot for a month

	if cfg.PprofAddr != "" {
		pprofserver.Launch(ctx, cfg.PprofAddr, logger)
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

// openStore returns the save slot store selected by cfg and a func that releases its connections.
func (app *application) openStore(
	ctx context.Context,
	cfg config,
	db *sqlite.Database,
) (gamestate.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case "sqlite":
		return sqlite.NewStateStore(db, app.logger), noop, nil
	case "memory":
		return gamestate.NewMemoryStore(), noop, nil
	case "redis":
		client, err := redisstore.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect redis")
		}
		return redisstore.New(client, app.logger), client.Close, nil
	}
	return nil, nil, errors.Wrap(envstruct.ErrInvalidValue, "unknown store", slog.String("store", cfg.Store))
}

func main() {
	ctx := context.Background()
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failed to load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
