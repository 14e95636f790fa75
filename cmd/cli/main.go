package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/casefile/cmd/cli/casegen"
	"github.com/myrjola/casefile/cmd/cli/play"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/gamestate"
	"github.com/spf13/cobra"
)

func newRootCmd(lookupEnv func(string) (string, bool)) *cobra.Command {
	rootCmd := &cobra.Command{ //nolint:exhaustruct // cobra commands set only what they need
		Use:           "casefile-cli",
		Long:          `Command line utilities for playing and inspecting Casefile campaigns`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	sqliteURL, ok := lookupEnv("CASEFILE_SQLITE_URL")
	if !ok {
		sqliteURL = "./casefile.sqlite"
	}
	rootCmd.PersistentFlags().String(play.FlagSqliteURL, sqliteURL, "SQLite URL")
	rootCmd.PersistentFlags().String(play.FlagSlot, gamestate.DefaultSlot, "save slot")
	rootCmd.PersistentFlags().Bool(play.FlagVerbose, false, "log debug output to stderr")

	rootCmd.AddGroup(play.Group)
	rootCmd.AddCommand(play.Commands()...)
	rootCmd.AddGroup(casegen.Group)
	rootCmd.AddCommand(casegen.Command(lookupEnv))
	return rootCmd
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd(os.LookupEnv).Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
