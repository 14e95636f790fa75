package grading_test

import (
	"testing"

	"github.com/myrjola/casefile/internal/grading"
	"github.com/myrjola/casefile/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCalculateGrade(t *testing.T) {
	tests := []struct {
		name    string
		outcome grading.Outcome
		want    models.Grade
	}{
		{
			name:    "defaults are a wrong accusation",
			outcome: grading.Outcome{},
			want:    models.GradeC,
		},
		{
			name:    "flawless",
			outcome: grading.Outcome{CorrectAccusation: true},
			want:    models.GradeS,
		},
		{
			name:    "one hint still S",
			outcome: grading.Outcome{CorrectAccusation: true, HintsUsed: 1},
			want:    models.GradeS,
		},
		{
			name:    "two hints drop to A",
			outcome: grading.Outcome{CorrectAccusation: true, HintsUsed: 2},
			want:    models.GradeA,
		},
		{
			name:    "slow case",
			outcome: grading.Outcome{CorrectAccusation: true, TimeSpent: 1_800_001},
			want:    models.GradeA,
		},
		{
			name:    "exactly thirty minutes is not slow",
			outcome: grading.Outcome{CorrectAccusation: true, TimeSpent: 1_800_000},
			want:    models.GradeS,
		},
		{
			name:    "many questions",
			outcome: grading.Outcome{CorrectAccusation: true, QuestionsAsked: 21, HintsUsed: 3},
			want:    models.GradeB,
		},
		{
			name:    "minigames lift a wrong accusation",
			outcome: grading.Outcome{MinigamesCompleted: 3},
			want:    models.GradeB,
		},
		{
			name:    "everything wrong",
			outcome: grading.Outcome{HintsUsed: 6, TimeSpent: 3_600_000, QuestionsAsked: 30},
			want:    models.GradeF,
		},
		{
			name:    "minigames above a hundred",
			outcome: grading.Outcome{CorrectAccusation: true, MinigamesCompleted: 3},
			want:    models.GradeS,
		},
		{
			name:    "negative hints are no bonus",
			outcome: grading.Outcome{HintsUsed: -20},
			want:    models.GradeC,
		},
		{
			name:    "C boundary",
			outcome: grading.Outcome{CorrectAccusation: true, HintsUsed: 9},
			want:    models.GradeC,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, grading.CalculateGrade(tt.outcome))
		})
	}
}

func TestCalculateGrade_monotonicInHints(t *testing.T) {
	previous := models.GradeS
	for hints := range 30 {
		grade := grading.CalculateGrade(grading.Outcome{CorrectAccusation: true, HintsUsed: hints})
		require.True(t, previous.AtLeast(grade), "hints=%d grade=%s previous=%s", hints, grade, previous)
		previous = grade
	}
}

func TestCalculateExperience(t *testing.T) {
	tests := []struct {
		name       string
		result     models.CaseResult
		difficulty models.Difficulty
		want       int
	}{
		{
			name:       "medium S correct",
			result:     models.CaseResult{Grade: models.GradeS, CorrectAccusation: true},
			difficulty: models.DifficultyMedium,
			want:       225,
		},
		{
			name:       "easy A correct",
			result:     models.CaseResult{Grade: models.GradeA, CorrectAccusation: true},
			difficulty: models.DifficultyEasy,
			want:       100,
		},
		{
			name:       "hard F wrong with minigames",
			result:     models.CaseResult{Grade: models.GradeF, MinigamesCompleted: 2},
			difficulty: models.DifficultyHard,
			want:       95,
		},
		{
			name:       "medium B",
			result:     models.CaseResult{Grade: models.GradeB},
			difficulty: models.DifficultyMedium,
			want:       120,
		},
		{
			name:       "easy D rounds",
			result:     models.CaseResult{Grade: models.GradeD, MinigamesCompleted: 1},
			difficulty: models.DifficultyEasy,
			want:       50,
		},
		{
			name:       "unknown difficulty counts as medium",
			result:     models.CaseResult{Grade: models.GradeC},
			difficulty: models.Difficulty("nightmare"),
			want:       100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grading.CalculateExperience(tt.result, tt.difficulty)
			require.Equal(t, tt.want, got)
			require.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestCalculateExperience_monotonic(t *testing.T) {
	grades := []models.Grade{models.GradeF, models.GradeD, models.GradeC, models.GradeB, models.GradeA, models.GradeS}
	difficulties := []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
	for _, difficulty := range difficulties {
		for _, correct := range []bool{false, true} {
			t.Run(string(difficulty), func(t *testing.T) {
				for minigames := range 6 {
					previous := -1
					for _, grade := range grades {
						xp := grading.CalculateExperience(models.CaseResult{
							Grade:              grade,
							CorrectAccusation:  correct,
							MinigamesCompleted: minigames,
						}, difficulty)
						require.Greater(t, xp, previous, "grade=%s minigames=%d correct=%t", grade, minigames, correct)
						previous = xp
					}
				}
				for _, grade := range grades {
					previous := -1
					for minigames := range 6 {
						xp := grading.CalculateExperience(models.CaseResult{
							Grade:              grade,
							CorrectAccusation:  correct,
							MinigamesCompleted: minigames,
						}, difficulty)
						require.Greater(t, xp, previous, "grade=%s minigames=%d correct=%t", grade, minigames, correct)
						previous = xp
					}
				}
			})
		}
	}
}
