package campaign

import (
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/casefile/internal/leveling"
	"github.com/myrjola/casefile/internal/models"
)

const defaultDetectiveName = "Detective"

// NewDetectiveProfile creates a level 1 detective. An empty name falls back to "Detective".
func NewDetectiveProfile(name string, now time.Time) models.DetectiveProfile {
	if name == "" {
		name = defaultDetectiveName
	}
	return models.DetectiveProfile{
		ID:             uuid.NewString(),
		Name:           name,
		Rank:           leveling.RankForLevel(1),
		Experience:     0,
		Level:          1,
		Skills:         models.Skills{Perception: 1, Persuasion: 1, Logic: 1, Investigation: 1},
		CasesCompleted: 0,
		CasesWon:       0,
		Achievements:   []string{},
		CreatedAt:      now.UnixMilli(),
	}
}

// NewGameState creates the state of a campaign that has not started yet.
func NewGameState(name string, now time.Time) models.GameState {
	return models.GameState{
		Revision:  0,
		Detective: NewDetectiveProfile(name, now),
		Campaign: models.CampaignProgress{
			CurrentChapter:       1,
			ChaptersCompleted:    []int{},
			CasesInChapter:       0,
			TotalCasesCompleted:  0,
			MastermindCluesFound: []string{},
			StoryProgress: models.StoryProgress{
				IntroductionComplete: false,
				MastermindRevealed:   false,
				FinalConfrontation:   false,
				EndingType:           nil,
			},
		},
		CurrentCase:   nil,
		ActiveSession: nil,
		CaseHistory:   []models.CaseResult{},
		Settings:      models.DefaultSettings(),
	}
}
