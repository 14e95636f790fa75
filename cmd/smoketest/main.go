package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/myrjola/casefile/internal/e2etest"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/logging"
	"github.com/myrjola/casefile/internal/models"
)

// TestCampaign starts a new campaign through the HTML form and closes one case through the JSON API.
func TestCampaign(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	doc, err := client.SubmitForm(ctx, "/", "/campaign/new", url.Values{"name": {"Smoke Test"}})
	if err != nil {
		return errors.Wrap(err, "start campaign")
	}
	if name := strings.TrimSpace(doc.Find("#detective h1").Text()); name != "Smoke Test" {
		return errors.New("unexpected detective name", slog.String("name", name))
	}

	var state models.GameState
	if err = client.PostJSON(ctx, "/api/cases/complete", map[string]any{
		"caseData": models.CaseData{ //nolint:exhaustruct // only the fields progression reads
			CaseID:     "CASE-SMOKE",
			ChapterID:  "chapter-1",
			Difficulty: models.DifficultyEasy,
		},
		"wasCorrect": true,
		"stats":      models.CaseStats{TimeSpent: 60_000, QuestionsAsked: 3, HintsUsed: 0, MinigamesCompleted: 0},
	}, &state); err != nil {
		return errors.Wrap(err, "complete case")
	}
	if state.Detective.CasesCompleted != 1 || len(state.CaseHistory) != 1 {
		return errors.New("case not recorded", slog.Int("casesCompleted", state.Detective.CasesCompleted))
	}
	return nil
}

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestCampaign(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing campaign", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
