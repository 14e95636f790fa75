package campaign_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/casefile/internal/campaign"
	"github.com/myrjola/casefile/internal/chapters"
	"github.com/myrjola/casefile/internal/models"
	"github.com/stretchr/testify/require"
)

var (
	start        = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	perfectStats = models.CaseStats{TimeSpent: 100_000, QuestionsAsked: 5, HintsUsed: 0, MinigamesCompleted: 4}
)

func caseData(n int) models.CaseData {
	return models.CaseData{CaseID: fmt.Sprintf("CASE-%d", n), Title: "Case", Difficulty: models.DifficultyMedium}
}

func mustComplete(t *testing.T, state models.GameState, n int, wasCorrect bool, stats models.CaseStats) campaign.Completion {
	t.Helper()
	completion, err := campaign.Complete(state, caseData(n), wasCorrect, stats)
	require.NoError(t, err)
	return completion
}

func TestComplete_chapterOneScenario(t *testing.T) {
	state := campaign.NewGameState("Marlowe", start)

	first := mustComplete(t, state, 1, true, perfectStats)
	require.Equal(t, models.GradeS, first.Result.Grade)
	require.Equal(t, 1, first.State.Campaign.CasesInChapter)
	require.Equal(t, 1, first.State.Campaign.CurrentChapter)
	require.Empty(t, first.State.Campaign.ChaptersCompleted)
	require.Nil(t, first.CompletedChapter)
	// 100 * 2.0 + 4 * 10 + 25
	require.Equal(t, 265, first.Result.ExperienceGained)
	require.Equal(t, 265, first.State.Detective.Experience)
	require.Equal(t, 2, first.State.Detective.Level, "one level per case even though 265 reaches level 3")
	require.True(t, first.LeveledUp)
	require.Equal(t, "chapter-1", first.Result.ChapterID)
	require.Equal(t, []string{"first_case", "s_rank"}, first.Result.AchievementsUnlocked)
	require.Equal(t, []string{"first_case", "s_rank"}, first.State.Detective.Achievements)
	require.True(t, first.State.Campaign.StoryProgress.IntroductionComplete)

	second := mustComplete(t, first.State, 2, true, perfectStats)
	chapterOne, _ := chapters.ByNumber(1)
	require.Equal(t, 0, second.State.Campaign.CasesInChapter)
	require.Equal(t, []int{1}, second.State.Campaign.ChaptersCompleted)
	require.Equal(t, 2, second.State.Campaign.CurrentChapter)
	require.Equal(t, []string{chapterOne.MastermindClue}, second.State.Campaign.MastermindCluesFound)
	require.NotNil(t, second.CompletedChapter)
	require.Equal(t, 1, second.CompletedChapter.Number)
	require.Equal(t, []string{"chapter_1_complete"}, second.Result.AchievementsUnlocked)
	require.Equal(t, 3, second.State.Detective.Level)
	require.Equal(t, "Detective Junior", second.State.Detective.Rank)
	require.True(t, chapters.IsUnlocked(second.State.Campaign, 2))
	require.False(t, chapters.IsUnlocked(second.State.Campaign, 3))
}

func TestComplete_invariants(t *testing.T) {
	state := campaign.NewGameState("", start)
	for n := range 14 {
		wasCorrect := n%3 != 0
		completion := mustComplete(t, state, n, wasCorrect, models.CaseStats{HintsUsed: n % 4, TimeSpent: 60_000})
		next := completion.State

		require.Equal(t, state.Campaign.TotalCasesCompleted+1, next.Campaign.TotalCasesCompleted)
		if completion.CompletedChapter != nil {
			require.Equal(t, 0, next.Campaign.CasesInChapter)
		} else {
			require.Equal(t, state.Campaign.CasesInChapter+1, next.Campaign.CasesInChapter)
		}
		require.GreaterOrEqual(t, next.Campaign.CurrentChapter, state.Campaign.CurrentChapter)
		require.LessOrEqual(t, next.Campaign.CurrentChapter, chapters.Count())
		require.LessOrEqual(t, next.Detective.CasesWon, next.Detective.CasesCompleted)
		require.LessOrEqual(t, next.Detective.Level-state.Detective.Level, 1)
		require.Len(t, next.CaseHistory, len(state.CaseHistory)+1)
		require.Equal(t, len(next.Campaign.ChaptersCompleted), len(next.Campaign.MastermindCluesFound))
		require.Nil(t, next.CurrentCase)
		require.Nil(t, next.ActiveSession)

		seen := map[string]bool{}
		for _, id := range next.Detective.Achievements {
			require.False(t, seen[id], "duplicate achievement %s", id)
			seen[id] = true
		}
		state = next
	}
}

func TestComplete_doesNotModifyInput(t *testing.T) {
	state := campaign.NewGameState("Marlowe", start)
	state = mustComplete(t, state, 1, true, perfectStats).State
	current := caseData(2)
	state.CurrentCase = &current
	before := state.Clone()

	mustComplete(t, state, 2, true, perfectStats)

	if diff := cmp.Diff(before, state); diff != "" {
		t.Errorf("input state changed (-before +after):\n%s", diff)
	}
}

func TestComplete_wrongAccusation(t *testing.T) {
	state := campaign.NewGameState("", start)
	completion := mustComplete(t, state, 1, false, models.CaseStats{})
	require.Equal(t, models.GradeC, completion.Result.Grade)
	require.Equal(t, 1, completion.State.Detective.CasesCompleted)
	require.Equal(t, 0, completion.State.Detective.CasesWon)
	// 100 * 1.0
	require.Equal(t, 100, completion.State.Detective.Experience)
	require.Equal(t, []string{"first_case"}, completion.Result.AchievementsUnlocked)
}

func TestComplete_experienceFollowsSettingsDifficulty(t *testing.T) {
	state := campaign.NewGameState("", start)
	state.Settings.Difficulty = models.DifficultyHard
	completion := mustComplete(t, state, 1, true, models.CaseStats{})
	// 150 * 2.0 + 25
	require.Equal(t, 325, completion.Result.ExperienceGained)
}

func TestComplete_fullCampaign(t *testing.T) {
	state := campaign.NewGameState("Marlowe", start)
	total := 0
	for _, ch := range chapters.All() {
		total += ch.CasesRequired
	}

	for n := range total {
		completion := mustComplete(t, state, n, true, perfectStats)
		state = completion.State
		if state.Campaign.CurrentChapter >= 4 {
			require.True(t, state.Campaign.StoryProgress.MastermindRevealed)
		}
		if n < total-1 {
			require.False(t, state.Campaign.StoryProgress.FinalConfrontation)
			require.Nil(t, state.Campaign.StoryProgress.EndingType)
		}
	}

	require.Equal(t, []int{1, 2, 3, 4, 5}, state.Campaign.ChaptersCompleted)
	require.Equal(t, 5, state.Campaign.CurrentChapter)
	require.Len(t, state.Campaign.MastermindCluesFound, 5)
	require.True(t, state.Campaign.StoryProgress.FinalConfrontation)
	require.NotNil(t, state.Campaign.StoryProgress.EndingType)
	require.Equal(t, models.EndingPerfect, *state.Campaign.StoryProgress.EndingType)
	require.True(t, state.Detective.HasAchievement("campaign_complete"))
	require.True(t, state.Detective.HasAchievement("ten_cases"))
	require.True(t, state.Detective.HasAchievement("streak_3"))
	// 265 XP per case with one level per case at most.
	require.Equal(t, 9, state.Detective.Level)

	// Playing on after the finale neither repeats the chapter nor the clue.
	for n := range 3 {
		state = mustComplete(t, state, total+n, true, perfectStats).State
	}
	require.Equal(t, []int{1, 2, 3, 4, 5}, state.Campaign.ChaptersCompleted)
	require.Len(t, state.Campaign.MastermindCluesFound, 5)
	require.True(t, state.Campaign.StoryProgress.FinalConfrontation)
}

func TestComplete_endings(t *testing.T) {
	tests := []struct {
		name    string
		correct func(n int) bool
		want    models.EndingType
	}{
		{name: "all wrong", correct: func(int) bool { return false }, want: models.EndingBittersweet},
		{name: "every other", correct: func(n int) bool { return n%2 == 0 }, want: models.EndingNeutral},
		{name: "one in four wrong", correct: func(n int) bool { return n%4 != 0 }, want: models.EndingGood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := campaign.NewGameState("", start)
			for n := 0; state.Campaign.StoryProgress.EndingType == nil; n++ {
				state = mustComplete(t, state, n, tt.correct(n), perfectStats).State
			}
			require.Equal(t, tt.want, *state.Campaign.StoryProgress.EndingType)
		})
	}
}

func TestComplete_invalidInput(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.GameState)
		caseData models.CaseData
		stats    models.CaseStats
	}{
		{name: "missing case id", caseData: models.CaseData{}},
		{name: "negative time", caseData: caseData(1), stats: models.CaseStats{TimeSpent: -1}},
		{name: "negative hints", caseData: caseData(1), stats: models.CaseStats{HintsUsed: -1}},
		{
			name:     "unknown chapter id",
			caseData: models.CaseData{CaseID: "CASE-1", ChapterID: "chapter-42"},
		},
		{
			name:     "chapter pointer out of range",
			mutate:   func(s *models.GameState) { s.Campaign.CurrentChapter = 6 },
			caseData: caseData(1),
		},
		{
			name:     "unknown difficulty",
			mutate:   func(s *models.GameState) { s.Settings.Difficulty = "brutal" },
			caseData: caseData(1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := campaign.NewGameState("", start)
			if tt.mutate != nil {
				tt.mutate(&state)
			}
			_, err := campaign.Complete(state, tt.caseData, true, tt.stats)
			require.ErrorIs(t, err, campaign.ErrInvalidInput)
		})
	}
}

func TestNewGameState(t *testing.T) {
	state := campaign.NewGameState("", start)
	require.Equal(t, "Detective", state.Detective.Name)
	require.NotEmpty(t, state.Detective.ID)
	require.Equal(t, "Novato", state.Detective.Rank)
	require.Equal(t, 1, state.Detective.Level)
	require.Equal(t, models.Skills{Perception: 1, Persuasion: 1, Logic: 1, Investigation: 1}, state.Detective.Skills)
	require.Equal(t, start.UnixMilli(), state.Detective.CreatedAt)
	require.Equal(t, 1, state.Campaign.CurrentChapter)
	require.Equal(t, models.DefaultSettings(), state.Settings)
	require.NotEqual(t, state.Detective.ID, campaign.NewGameState("", start).Detective.ID)
}
