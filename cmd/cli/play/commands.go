package play

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/casefile/internal/chapters"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/grading"
	"github.com/myrjola/casefile/internal/leveling"
	"github.com/myrjola/casefile/internal/models"
	"github.com/spf13/cobra"
)

const flagJSON = "json"

// Commands returns the commands of the play group.
func Commands() []*cobra.Command {
	return []*cobra.Command{
		stateCommand(),
		resetCommand(),
		completeCommand(),
		gradeCommand(),
		chaptersCommand(),
		historyCommand(),
	}
}

func stateCommand() *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct // cobra commands set only what they need
		Use:     "state",
		GroupID: Group.ID,
		Short:   "Show the campaign in the save slot",
		Args:    cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *Runtime) error {
			state, err := rt.Engine.Resume(cmd.Context(), rt.Slot)
			if err != nil {
				return errors.Wrap(err, "resume campaign")
			}
			asJSON, _ := cmd.Flags().GetBool(flagJSON)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), state)
			}
			writeSummary(cmd.OutOrStdout(), state)
			return nil
		}),
	}
	cmd.Flags().Bool(flagJSON, false, "print the full state as JSON")
	return cmd
}

func writeSummary(w io.Writer, state models.GameState) {
	d := state.Detective
	chapter := chapters.Current(state.Campaign)
	_, _ = fmt.Fprintf(w, "Detective: %s (%s)\n", d.Name, d.Rank)
	if next, ok := leveling.Threshold(d.Level + 1); ok {
		_, _ = fmt.Fprintf(w, "Level: %d  Experience: %d/%d\n", d.Level, d.Experience, next)
	} else {
		_, _ = fmt.Fprintf(w, "Level: %d  Experience: %d\n", d.Level, d.Experience)
	}
	_, _ = fmt.Fprintf(w, "Cases won: %d/%d\n", d.CasesWon, d.CasesCompleted)
	_, _ = fmt.Fprintf(w, "Chapter %d: %s (%d/%d cases)\n",
		chapter.Number, chapter.Title, state.Campaign.CasesInChapter, chapter.CasesRequired)
	for _, clue := range state.Campaign.MastermindCluesFound {
		_, _ = fmt.Fprintf(w, "Clue: %s\n", clue)
	}
	if ending := state.Campaign.StoryProgress.EndingType; ending != nil {
		_, _ = fmt.Fprintf(w, "Ending: %s\n", *ending)
	}
}

func resetCommand() *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct // cobra commands set only what they need
		Use:     "reset",
		GroupID: Group.ID,
		Short:   "Clear the save slot and start a new campaign",
		Args:    cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *Runtime) error {
			name, _ := cmd.Flags().GetString("name")
			state, err := rt.Engine.NewCampaign(cmd.Context(), rt.Slot, name)
			if err != nil {
				return errors.Wrap(err, "new campaign")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "New campaign started for %s\n", state.Detective.Name)
			return nil
		}),
	}
	cmd.Flags().String("name", "", "detective name")
	return cmd
}

// statsFlags registers the flags describing how a case was played.
func statsFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("correct", false, "the accusation was correct")
	cmd.Flags().Duration("time", 0, "time spent on the case, e.g. 12m")
	cmd.Flags().Int("questions", 0, "questions asked")
	cmd.Flags().Int("hints", 0, "hints used")
	cmd.Flags().Int("minigames", 0, "minigames completed")
}

func readStats(cmd *cobra.Command) (bool, models.CaseStats, error) {
	flags := cmd.Flags()
	correct, err := flags.GetBool("correct")
	if err != nil {
		return false, models.CaseStats{}, errors.Wrap(err, "get correct flag")
	}
	var (
		spent                       time.Duration
		questions, hints, minigames int
	)
	if spent, err = flags.GetDuration("time"); err != nil {
		return false, models.CaseStats{}, errors.Wrap(err, "get time flag")
	}
	if questions, err = flags.GetInt("questions"); err != nil {
		return false, models.CaseStats{}, errors.Wrap(err, "get questions flag")
	}
	if hints, err = flags.GetInt("hints"); err != nil {
		return false, models.CaseStats{}, errors.Wrap(err, "get hints flag")
	}
	if minigames, err = flags.GetInt("minigames"); err != nil {
		return false, models.CaseStats{}, errors.Wrap(err, "get minigames flag")
	}
	return correct, models.CaseStats{
		TimeSpent:          spent.Milliseconds(),
		QuestionsAsked:     questions,
		HintsUsed:          hints,
		MinigamesCompleted: minigames,
	}, nil
}

func completeCommand() *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct // cobra commands set only what they need
		Use:     "complete",
		GroupID: Group.ID,
		Short:   "Close a case in the current chapter",
		Long: "Closes a case and prints the grade and progression. Without --case-id the current case of the slot " +
			"is closed, or a new case id is made up when there is none.",
		Args: cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *Runtime) error {
			ctx := cmd.Context()
			correct, stats, err := readStats(cmd)
			if err != nil {
				return err
			}
			state, err := rt.Engine.Resume(ctx, rt.Slot)
			if err != nil {
				return errors.Wrap(err, "resume campaign")
			}

			caseData := models.CaseData{ //nolint:exhaustruct // only the fields progression reads
				CaseID:     "CASE-" + uuid.NewString(),
				ChapterID:  chapters.Current(state.Campaign).ID,
				Difficulty: state.Settings.Difficulty,
			}
			if state.CurrentCase != nil {
				caseData = state.CurrentCase.Clone()
			}
			if caseID, _ := cmd.Flags().GetString("case-id"); caseID != "" {
				caseData.CaseID = caseID
			}
			if difficulty, _ := cmd.Flags().GetString("difficulty"); difficulty != "" {
				caseData.Difficulty = models.Difficulty(difficulty)
			}

			before := state
			if state, err = rt.Engine.CompleteCase(ctx, rt.Slot, state, caseData, correct, stats); err != nil {
				return errors.Wrap(err, "complete case")
			}
			writeCompletion(cmd.OutOrStdout(), before, state)
			return nil
		}),
	}
	cmd.Flags().String("case-id", "", "case id")
	cmd.Flags().String("difficulty", "", "easy, medium or hard")
	statsFlags(cmd)
	return cmd
}

func writeCompletion(w io.Writer, before models.GameState, after models.GameState) {
	result := after.CaseHistory[len(after.CaseHistory)-1]
	_, _ = fmt.Fprintf(w, "Case %s closed: grade %s, +%d XP\n", result.CaseID, result.Grade, result.ExperienceGained)
	if after.Detective.Level > before.Detective.Level {
		_, _ = fmt.Fprintf(w, "Level up! Level %d, %s\n", after.Detective.Level, after.Detective.Rank)
	}
	if len(after.Campaign.ChaptersCompleted) > len(before.Campaign.ChaptersCompleted) {
		done := after.Campaign.ChaptersCompleted[len(after.Campaign.ChaptersCompleted)-1]
		_, _ = fmt.Fprintf(w, "Chapter %d completed\n", done)
	}
	for _, id := range result.AchievementsUnlocked {
		_, _ = fmt.Fprintf(w, "Achievement unlocked: %s\n", id)
	}
}

func gradeCommand() *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct // cobra commands set only what they need
		Use:     "grade",
		GroupID: Group.ID,
		Short:   "Grade a case without saving anything",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			correct, stats, err := readStats(cmd)
			if err != nil {
				return err
			}
			outcome := grading.Outcome{
				CorrectAccusation:  correct,
				HintsUsed:          stats.HintsUsed,
				QuestionsAsked:     stats.QuestionsAsked,
				MinigamesCompleted: stats.MinigamesCompleted,
				TimeSpent:          stats.TimeSpent,
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (score %d)\n",
				grading.CalculateGrade(outcome), grading.Score(outcome))
			return nil
		},
	}
	statsFlags(cmd)
	return cmd
}

func chaptersCommand() *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct // cobra commands set only what they need
		Use:     "chapters",
		GroupID: Group.ID,
		Short:   "List the chapters and their status",
		Args:    cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *Runtime) error {
			state, err := rt.Engine.Resume(cmd.Context(), rt.Slot)
			if err != nil {
				return errors.Wrap(err, "resume campaign")
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd // padding
			_, _ = fmt.Fprintln(tw, "NO\tTITLE\tTHEME\tCASES\tSTATUS")
			for _, s := range chapters.Statuses(state.Campaign) {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", s.Number, s.Title, s.Theme, s.CasesRequired, status(s))
			}
			return errors.Wrap(tw.Flush(), "flush table")
		}),
	}
}

func status(s chapters.Status) string {
	switch {
	case s.Current && s.Completed:
		return "current, completed"
	case s.Current:
		return "current"
	case s.Completed:
		return "completed"
	case s.Unlocked:
		return "unlocked"
	}
	return "locked"
}

func historyCommand() *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct // cobra commands set only what they need
		Use:     "history",
		GroupID: Group.ID,
		Short:   "List the closed cases and the grade distribution",
		Args:    cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *Runtime) error {
			ctx := cmd.Context()
			results, err := rt.History.List(ctx, rt.Slot)
			if err != nil {
				return errors.Wrap(err, "list case history")
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd // padding
			_, _ = fmt.Fprintln(tw, "CASE\tCHAPTER\tGRADE\tXP\tCORRECT")
			for _, r := range results {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\n",
					r.CaseID, r.ChapterID, r.Grade, r.ExperienceGained, r.CorrectAccusation)
			}
			if err = tw.Flush(); err != nil {
				return errors.Wrap(err, "flush table")
			}

			var counts []string
			distribution, err := rt.History.GradeDistribution(ctx, rt.Slot)
			if err != nil {
				return errors.Wrap(err, "grade distribution")
			}
			for _, c := range distribution {
				counts = append(counts, fmt.Sprintf("%s=%d", c.Grade, c.Count))
			}
			if len(counts) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Grades: %s\n", strings.Join(counts, " "))
			}
			return nil
		}),
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(v), "encode json")
}
