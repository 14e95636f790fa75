package achievements

import "github.com/myrjola/casefile/internal/models"

const streakLength = 3

type rule struct {
	id        string
	satisfied func(models.GameState) bool
}

// rules are evaluated in this order so that unlock lists are stable.
//
// no_hints, speed_demon, interrogator and minigame_master have display details but no rule yet.
var rules = []rule{
	{id: "first_case", satisfied: func(s models.GameState) bool { return s.Detective.CasesCompleted == 1 }},
	{id: "five_cases", satisfied: func(s models.GameState) bool { return s.Detective.CasesCompleted >= 5 }}, //nolint:mnd,lll // table
	{id: "ten_cases", satisfied: func(s models.GameState) bool { return s.Detective.CasesCompleted >= 10 }}, //nolint:mnd,lll // table
	{id: "streak_3", satisfied: correctStreak},
	{id: "s_rank", satisfied: func(s models.GameState) bool {
		for _, r := range s.CaseHistory {
			if r.Grade == models.GradeS {
				return true
			}
		}
		return false
	}},
	{id: "level_5", satisfied: func(s models.GameState) bool { return s.Detective.Level >= 5 }},   //nolint:mnd // table
	{id: "level_10", satisfied: func(s models.GameState) bool { return s.Detective.Level >= 10 }}, //nolint:mnd // table
	{id: "chapter_1_complete", satisfied: func(s models.GameState) bool {
		return len(s.Campaign.ChaptersCompleted) >= 1
	}},
	{id: "campaign_complete", satisfied: func(s models.GameState) bool {
		return len(s.Campaign.ChaptersCompleted) >= 5 //nolint:mnd // number of chapters
	}},
}

// correctStreak reports whether the last three cases were all solved.
func correctStreak(s models.GameState) bool {
	if len(s.CaseHistory) < streakLength {
		return false
	}
	for _, r := range s.CaseHistory[len(s.CaseHistory)-streakLength:] {
		if !r.CorrectAccusation {
			return false
		}
	}
	return true
}
