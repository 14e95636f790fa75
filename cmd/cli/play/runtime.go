// Package play holds the commands that drive a campaign stored in SQLite.
package play

import (
	"context"
	"log/slog"

	"github.com/myrjola/casefile/internal/campaign"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/gamestate"
	"github.com/myrjola/casefile/internal/logging"
	"github.com/myrjola/casefile/internal/sqlite"
	"github.com/spf13/cobra"
)

const (
	FlagSqliteURL = "sqlite-url"
	FlagSlot      = "slot"
	FlagVerbose   = "verbose"
)

var Group = &cobra.Group{
	ID:    "play",
	Title: "Campaign",
}

// Runtime is what a command needs to work on one save slot.
type Runtime struct {
	DB      *sqlite.Database
	Engine  *campaign.Engine
	History *sqlite.CaseHistory
	Slot    string
	Logger  *slog.Logger
	cancel  context.CancelFunc
}

// Open connects to the database named by the persistent flags of cmd.
func Open(cmd *cobra.Command) (*Runtime, error) {
	flags := cmd.Flags()
	sqliteURL, err := flags.GetString(FlagSqliteURL)
	if err != nil {
		return nil, errors.Wrap(err, "get sqlite url flag")
	}
	var slot string
	if slot, err = flags.GetString(FlagSlot); err != nil {
		return nil, errors.Wrap(err, "get slot flag")
	}
	var verbose bool
	if verbose, err = flags.GetBool(FlagVerbose); err != nil {
		return nil, errors.Wrap(err, "get verbose flag")
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewLogger(cmd.ErrOrStderr(), level)

	// The database optimizer runs until the command closes the runtime.
	ctx, cancel := context.WithCancel(cmd.Context())
	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		cancel()
		return nil, errors.Wrap(err, "open database", slog.String("url", sqliteURL))
	}
	history := sqlite.NewCaseHistory(db, logger)
	gateway := gamestate.NewGateway(sqlite.NewStateStore(db, logger), logger)
	return &Runtime{
		DB:      db,
		Engine:  campaign.NewEngine(gateway, logger, campaign.WithHistory(history)),
		History: history,
		Slot:    slot,
		Logger:  logger,
		cancel:  cancel,
	}, nil
}

// Close releases the database.
func (r *Runtime) Close() error {
	r.cancel()
	return r.DB.Close()
}

// withRuntime adapts a command body that needs a Runtime into a cobra RunE.
func withRuntime(fn func(cmd *cobra.Command, args []string, rt *Runtime) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		var rt *Runtime
		if rt, err = Open(cmd); err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, rt.Close())
		}()
		return fn(cmd, args, rt)
	}
}
