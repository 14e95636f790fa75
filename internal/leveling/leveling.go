// Package leveling holds the experience thresholds, the rank ladder and the level-up rule.
package leveling

import "github.com/myrjola/casefile/internal/models"

// thresholds[i] is the total experience needed for level i+1.
var thresholds = []int{0, 100, 250, 500, 800, 1200, 1700, 2300, 3000, 4000, 5200, 6600, 8200, 10000, 12000}

type rankStep struct {
	minLevel int
	rank     string
}

var ranks = []rankStep{
	{minLevel: 1, rank: "Novato"},
	{minLevel: 3, rank: "Detective Junior"}, //nolint:mnd // table
	{minLevel: 5, rank: "Detective"},        //nolint:mnd // table
	{minLevel: 7, rank: "Detective Senior"}, //nolint:mnd // table
	{minLevel: 10, rank: "Inspector"},       //nolint:mnd // table
	{minLevel: 12, rank: "Inspector Jefe"},  //nolint:mnd // table
	{minLevel: 15, rank: "Comisario"},       //nolint:mnd // table
}

// MaxLevel is the highest reachable level.
func MaxLevel() int {
	return len(thresholds)
}

// Threshold returns the total experience required to reach level. ok is false for levels outside the table.
func Threshold(level int) (int, bool) {
	if level < 1 || level > len(thresholds) {
		return 0, false
	}
	return thresholds[level-1], true
}

// LevelForExperience returns the highest level whose threshold xp reaches.
func LevelForExperience(xp int) int {
	level := 1
	for i, threshold := range thresholds {
		if xp >= threshold {
			level = i + 1
		}
	}
	return level
}

// RankForLevel returns the rank title of the highest rank step not above level.
func RankForLevel(level int) string {
	rank := ranks[0].rank
	for _, step := range ranks {
		if level >= step.minLevel {
			rank = step.rank
		}
	}
	return rank
}

// CheckLevelUp advances the detective by at most one level if the experience reaches the next threshold.
//
// The level-up refreshes the rank and grows one skill by the rotation level mod 4:
// 1 perception, 2 persuasion, 3 logic, 0 investigation.
func CheckLevelUp(p models.DetectiveProfile) models.DetectiveProfile {
	nextLevel := p.Level + 1
	threshold, ok := Threshold(nextLevel)
	if !ok || p.Experience < threshold {
		return p
	}

	p.Level = nextLevel
	p.Rank = RankForLevel(nextLevel)
	switch nextLevel % 4 { //nolint:mnd // four skills
	case 1:
		p.Skills.Perception++
	case 2: //nolint:mnd // rotation
		p.Skills.Persuasion++
	case 3: //nolint:mnd // rotation
		p.Skills.Logic++
	default:
		p.Skills.Investigation++
	}
	return p
}
