package models

import "slices"

type Settings struct {
	Difficulty   Difficulty `json:"difficulty"`
	TimerEnabled bool       `json:"timerEnabled"`
	HintsEnabled bool       `json:"hintsEnabled"`
	SoundEnabled bool       `json:"soundEnabled"`
	AutoSave     bool       `json:"autoSave"`
}

// GameState is the aggregate persisted in a save slot.
type GameState struct {
	// Revision is assigned by the save slot store and used to detect concurrent writers.
	// It is kept outside the serialized state.
	Revision      int64            `json:"-"`
	Detective     DetectiveProfile `json:"detective"`
	Campaign      CampaignProgress `json:"campaign"`
	CurrentCase   *CaseData        `json:"currentCase"`
	ActiveSession *ActiveSession   `json:"activeSession"`
	CaseHistory   []CaseResult     `json:"caseHistory"`
	Settings      Settings         `json:"settings"`
}

// Clone returns a copy of s that shares no mutable memory with s.
func (s GameState) Clone() GameState {
	c := s
	c.Detective.Achievements = slices.Clone(s.Detective.Achievements)
	c.Campaign.ChaptersCompleted = slices.Clone(s.Campaign.ChaptersCompleted)
	c.Campaign.MastermindCluesFound = slices.Clone(s.Campaign.MastermindCluesFound)
	if s.Campaign.StoryProgress.EndingType != nil {
		ending := *s.Campaign.StoryProgress.EndingType
		c.Campaign.StoryProgress.EndingType = &ending
	}
	if s.CurrentCase != nil {
		currentCase := s.CurrentCase.Clone()
		c.CurrentCase = &currentCase
	}
	if s.ActiveSession != nil {
		session := *s.ActiveSession
		session.CaseData = s.ActiveSession.CaseData.Clone()
		session.Transcript = slices.Clone(s.ActiveSession.Transcript)
		c.ActiveSession = &session
	}
	if s.CaseHistory != nil {
		c.CaseHistory = make([]CaseResult, len(s.CaseHistory))
		for i, result := range s.CaseHistory {
			result.AchievementsUnlocked = slices.Clone(result.AchievementsUnlocked)
			c.CaseHistory[i] = result
		}
	}
	return c
}

// Clone returns a deep copy of c.
func (c CaseData) Clone() CaseData {
	clone := c
	if c.CulpritProfile != nil {
		profile := c.CulpritProfile.Clone()
		clone.CulpritProfile = &profile
	}
	if c.Suspects != nil {
		clone.Suspects = make([]Suspect, len(c.Suspects))
		for i, s := range c.Suspects {
			s.Secrets = slices.Clone(s.Secrets)
			clone.Suspects[i] = s
		}
	}
	if c.Evidence != nil {
		clone.Evidence = make([]Evidence, len(c.Evidence))
		for i, e := range c.Evidence {
			e.LinkedTo = slices.Clone(e.LinkedTo)
			e.FalseLeads = slices.Clone(e.FalseLeads)
			clone.Evidence[i] = e
		}
	}
	return clone
}

// DefaultSettings are the settings of a new campaign.
func DefaultSettings() Settings {
	return Settings{
		Difficulty:   DifficultyMedium,
		TimerEnabled: true,
		HintsEnabled: true,
		SoundEnabled: true,
		AutoSave:     true,
	}
}
