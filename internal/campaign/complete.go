// Package campaign advances a detective's campaign when cases are started, saved and closed.
package campaign

import (
	"log/slog"
	"slices"

	"github.com/myrjola/casefile/internal/achievements"
	"github.com/myrjola/casefile/internal/chapters"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/grading"
	"github.com/myrjola/casefile/internal/leveling"
	"github.com/myrjola/casefile/internal/models"
)

// ErrInvalidInput is returned when a case can't be closed with the given arguments.
var ErrInvalidInput = errors.NewSentinel("invalid input")

const mastermindRevealChapter = 4

// Completion is the outcome of closing a case.
type Completion struct {
	State  models.GameState
	Result models.CaseResult
	// LeveledUp is true when the detective gained a level.
	LeveledUp bool
	// CompletedChapter is set when the case completed the chapter it belonged to.
	CompletedChapter *models.Chapter
}

// Complete closes a case and returns the next state. state is not modified.
//
// The case is graded, its experience is awarded, the detective may level up once, the chapter may complete and
// newly earned achievements are granted and recorded on the appended case result.
func Complete(
	state models.GameState,
	caseData models.CaseData,
	wasCorrect bool,
	stats models.CaseStats,
) (Completion, error) {
	if err := validateInput(state, caseData, stats); err != nil {
		return Completion{}, err
	}

	next := state.Clone()
	chapter, _ := chapters.ByNumber(next.Campaign.CurrentChapter)

	result := models.CaseResult{
		CaseID:    caseData.CaseID,
		ChapterID: chapter.ID,
		Grade: grading.CalculateGrade(grading.Outcome{
			CorrectAccusation:  wasCorrect,
			HintsUsed:          stats.HintsUsed,
			QuestionsAsked:     stats.QuestionsAsked,
			MinigamesCompleted: stats.MinigamesCompleted,
			TimeSpent:          stats.TimeSpent,
		}),
		TimeSpent:            stats.TimeSpent,
		QuestionsAsked:       stats.QuestionsAsked,
		HintsUsed:            stats.HintsUsed,
		CorrectAccusation:    wasCorrect,
		MinigamesCompleted:   stats.MinigamesCompleted,
		ExperienceGained:     0,
		AchievementsUnlocked: nil,
	}
	result.ExperienceGained = grading.CalculateExperience(result, next.Settings.Difficulty)

	// Profile.
	detective := next.Detective
	detective.Experience += result.ExperienceGained
	detective.CasesCompleted++
	if wasCorrect {
		detective.CasesWon++
	}
	previousLevel := detective.Level
	next.Detective = leveling.CheckLevelUp(detective)

	// Campaign.
	progress := &next.Campaign
	progress.TotalCasesCompleted++
	progress.CasesInChapter++
	chapterComplete := progress.CasesInChapter >= chapter.CasesRequired
	if chapterComplete {
		progress.CasesInChapter = 0
		if !slices.Contains(progress.ChaptersCompleted, chapter.Number) {
			progress.ChaptersCompleted = append(progress.ChaptersCompleted, chapter.Number)
			progress.MastermindCluesFound = append(progress.MastermindCluesFound, chapter.MastermindClue)
		}
		progress.CurrentChapter = min(chapter.Number+1, chapters.Count())
	}

	story := &progress.StoryProgress
	story.IntroductionComplete = true
	story.MastermindRevealed = story.MastermindRevealed || progress.CurrentChapter >= mastermindRevealChapter
	finalChapterClosed := chapterComplete && chapter.Number == chapters.Count()
	story.FinalConfrontation = story.FinalConfrontation || finalChapterClosed

	// History and achievements.
	next.CaseHistory = append(next.CaseHistory, result)
	next.CurrentCase = nil
	next.ActiveSession = nil

	unlocked := achievements.Check(next)
	next.Detective = achievements.Grant(next.Detective, unlocked)
	next.CaseHistory[len(next.CaseHistory)-1].AchievementsUnlocked = unlocked
	result.AchievementsUnlocked = unlocked

	if finalChapterClosed && story.EndingType == nil {
		ending := endingFor(next.CaseHistory)
		story.EndingType = &ending
	}

	completion := Completion{
		State:            next,
		Result:           result,
		LeveledUp:        next.Detective.Level > previousLevel,
		CompletedChapter: nil,
	}
	if chapterComplete {
		completion.CompletedChapter = &chapter
	}
	return completion, nil
}

func validateInput(state models.GameState, caseData models.CaseData, stats models.CaseStats) error {
	var reason string
	switch {
	case caseData.CaseID == "":
		reason = "missing case id"
	case stats.TimeSpent < 0 || stats.QuestionsAsked < 0 || stats.HintsUsed < 0 || stats.MinigamesCompleted < 0:
		reason = "negative case stats"
	case state.Campaign.CurrentChapter < 1 || state.Campaign.CurrentChapter > chapters.Count():
		reason = "chapter pointer out of range"
	case !state.Settings.Difficulty.Valid():
		reason = "unknown difficulty"
	case state.Detective.Level < 1:
		reason = "detective has no level"
	}
	if reason == "" && caseData.ChapterID != "" {
		if _, ok := chapters.ByID(caseData.ChapterID); !ok {
			reason = "unknown chapter id"
		}
	}
	if reason == "" {
		return nil
	}
	return errors.Wrap(ErrInvalidInput, reason,
		slog.String("caseId", caseData.CaseID),
		slog.String("chapterId", caseData.ChapterID),
		slog.Int("currentChapter", state.Campaign.CurrentChapter))
}

// endingFor judges the whole campaign record once the final chapter closes.
func endingFor(history []models.CaseResult) models.EndingType {
	if len(history) == 0 {
		return models.EndingNeutral
	}
	var won, excellent int
	for _, r := range history {
		if r.CorrectAccusation {
			won++
			if r.Grade.AtLeast(models.GradeA) {
				excellent++
			}
		}
	}
	winRate := float64(won) / float64(len(history))
	switch {
	case excellent == len(history):
		return models.EndingPerfect
	case winRate >= 0.75: //nolint:mnd // three out of four
		return models.EndingGood
	case winRate >= 0.5: //nolint:mnd // half
		return models.EndingNeutral
	}
	return models.EndingBittersweet
}
