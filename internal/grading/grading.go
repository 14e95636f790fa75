// Package grading scores a closed case and converts the grade to experience.
package grading

import (
	"math"

	"github.com/myrjola/casefile/internal/models"
)

const (
	startScore          = 100
	wrongAccusation     = 40
	perHint             = 5
	slowCase            = 10
	slowCaseThresholdMs = 30 * 60 * 1000
	manyQuestions       = 5
	manyQuestionsAbove  = 20
	minigameBonus       = 10
	minigameBonusFrom   = 3

	perMinigameXP   = 10
	correctCaseXP   = 25
	easyBaseXP      = 50
	mediumBaseXP    = 100
	hardBaseXP      = 150
	gradeThresholdS = 95
	gradeThresholdA = 85
	gradeThresholdB = 70
	gradeThresholdC = 55
	gradeThresholdD = 40
)

// Outcome is the part of a case result that the grade depends on. Zero values are the neutral defaults.
type Outcome struct {
	CorrectAccusation  bool
	HintsUsed          int
	QuestionsAsked     int
	MinigamesCompleted int
	// TimeSpent is in milliseconds.
	TimeSpent int64
}

// Score returns the numeric score in the range the grade boundaries are defined on.
func Score(o Outcome) int {
	score := startScore
	if !o.CorrectAccusation {
		score -= wrongAccusation
	}
	if o.HintsUsed > 0 {
		score -= o.HintsUsed * perHint
	}
	if o.TimeSpent > slowCaseThresholdMs {
		score -= slowCase
	}
	if o.QuestionsAsked > manyQuestionsAbove {
		score -= manyQuestions
	}
	if o.MinigamesCompleted >= minigameBonusFrom {
		score += minigameBonus
	}
	return score
}

// CalculateGrade maps the outcome of a case to a letter grade.
func CalculateGrade(o Outcome) models.Grade {
	score := Score(o)
	switch {
	case score >= gradeThresholdS:
		return models.GradeS
	case score >= gradeThresholdA:
		return models.GradeA
	case score >= gradeThresholdB:
		return models.GradeB
	case score >= gradeThresholdC:
		return models.GradeC
	case score >= gradeThresholdD:
		return models.GradeD
	}
	return models.GradeF
}

// Multiplier returns the experience multiplier of a grade.
func Multiplier(g models.Grade) float64 {
	switch g {
	case models.GradeS:
		return 2.0 //nolint:mnd // table
	case models.GradeA:
		return 1.5 //nolint:mnd // table
	case models.GradeB:
		return 1.2 //nolint:mnd // table
	case models.GradeC:
		return 1.0
	case models.GradeD:
		return 0.8 //nolint:mnd // table
	}
	return 0.5 //nolint:mnd // F and unknown grades
}

// BaseExperience returns the experience base of a difficulty. Unknown difficulties count as medium.
func BaseExperience(d models.Difficulty) int {
	switch d { //nolint:exhaustive // medium is the default
	case models.DifficultyEasy:
		return easyBaseXP
	case models.DifficultyHard:
		return hardBaseXP
	}
	return mediumBaseXP
}

// CalculateExperience returns the experience earned by a graded case result.
func CalculateExperience(result models.CaseResult, difficulty models.Difficulty) int {
	xp := float64(BaseExperience(difficulty)) * Multiplier(result.Grade)
	xp += float64(result.MinigamesCompleted * perMinigameXP)
	if result.CorrectAccusation {
		xp += correctCaseXP
	}
	return int(math.Round(xp))
}
