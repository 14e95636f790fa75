package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/gamestate"
	"github.com/myrjola/casefile/internal/sqlite"
	"github.com/myrjola/casefile/internal/testhelpers"
)

// migratetest migrates a copy of the production database and checks that every save slot still loads.
func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if sqliteURL, ok = os.LookupEnv("CASEFILE_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "CASEFILE_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}

	var slots []string
	if slots, err = sqlite.NewStateStore(db, logger).Slots(ctx); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error listing save slots", errors.SlogError(err))
		os.Exit(1)
	}
	if len(slots) == 0 {
		logger.LogAttrs(ctx, slog.LevelError, "no save slots found, something is likely wrong")
		os.Exit(1)
	}

	gateway := gamestate.NewGateway(sqlite.NewStateStore(db, logger), logger)
	failed := 0
	for _, slot := range slots {
		if _, err = gateway.Load(ctx, slot); err != nil {
			failed++
			logger.LogAttrs(ctx, slog.LevelError, "save slot does not load", slog.String("slot", slot),
				errors.SlogError(err))
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "save slot count", slog.Int("count", len(slots)))

	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	os.Exit(0)
}
