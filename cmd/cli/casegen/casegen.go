// Package casegen generates a case for the current chapter with OpenAI and starts it in the save slot.
package casegen

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/myrjola/casefile/cmd/cli/play"
	"github.com/myrjola/casefile/internal/ai"
	"github.com/myrjola/casefile/internal/chapters"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/models"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "case",
	Title: "Case generation",
}

var ErrMissingAPIKey = errors.NewSentinel("OPENAI_API_KEY not set")

// Command returns the generate command. lookupEnv provides the OpenAI configuration.
func Command(lookupEnv func(string) (string, bool)) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct // cobra commands set only what they need
		Use:     "generate",
		GroupID: Group.ID,
		Short:   "Generate a case",
		Long:    `Generates a case for the current chapter with OpenAI and makes it the current case of the slot`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()
			apiKey, _ := lookupEnv("OPENAI_API_KEY")
			if apiKey == "" {
				return ErrMissingAPIKey
			}
			baseURL, _ := lookupEnv("OPENAI_BASE_URL")
			model, _ := lookupEnv("OPENAI_MODEL")

			var rt *play.Runtime
			if rt, err = play.Open(cmd); err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, rt.Close())
			}()

			state, err := rt.Engine.Resume(ctx, rt.Slot)
			if err != nil {
				return errors.Wrap(err, "resume campaign")
			}
			difficulty := state.Settings.Difficulty
			if flagDifficulty, _ := cmd.Flags().GetString("difficulty"); flagDifficulty != "" {
				difficulty = models.Difficulty(flagDifficulty)
			}

			generator := ai.NewCaseGenerator(ai.NewClient(apiKey, baseURL, model), rt.Logger)
			caseData, err := generator.Generate(ctx, ai.ParamsForChapter(chapters.Current(state.Campaign), difficulty))
			if err != nil {
				return errors.Wrap(err, "generate case")
			}
			if _, err = rt.Engine.StartCase(ctx, rt.Slot, state, caseData); err != nil {
				return errors.Wrap(err, "start case")
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return errors.Wrap(encoder.Encode(caseData), "encode case")
			}
			writeCase(cmd.OutOrStdout(), caseData)
			return nil
		},
	}
	cmd.Flags().String("difficulty", "", "easy, medium or hard; defaults to the campaign setting")
	cmd.Flags().Bool("json", false, "print the generated case as JSON")
	return cmd
}

func writeCase(w io.Writer, c models.CaseData) {
	_, _ = fmt.Fprintf(w, "%s: %s\n%s\n\nLocation: %s\n\nSuspects:\n", c.CaseID, c.Title, c.Description, c.Location)
	for i, s := range c.Suspects {
		_, _ = fmt.Fprintf(w, "  %d. %s, %s\n", i+1, s.Name, s.Role)
	}
	_, _ = fmt.Fprintln(w, "\nEvidence:")
	for _, e := range c.Evidence {
		_, _ = fmt.Fprintf(w, "  - %s: %s\n", e.Name, e.Description)
	}
	_, _ = fmt.Fprintf(w, "\nTimeline:\n%s\n", c.Timeline)
}
