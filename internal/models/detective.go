package models

import "slices"

// Skills of the detective. A skill grows by one on every level-up following a four-step rotation.
type Skills struct {
	Perception    int `json:"perception"`
	Persuasion    int `json:"persuasion"`
	Logic         int `json:"logic"`
	Investigation int `json:"investigation"`
}

// DetectiveProfile is the player's persistent character.
type DetectiveProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Rank           string   `json:"rank"`
	Experience     int      `json:"experience"`
	Level          int      `json:"level"`
	Skills         Skills   `json:"skills"`
	CasesCompleted int      `json:"casesCompleted"`
	CasesWon       int      `json:"casesWon"`
	Achievements   []string `json:"achievements"`
	// CreatedAt is in Unix milliseconds.
	CreatedAt int64 `json:"createdAt"`
}

// HasAchievement reports whether the achievement with id has been unlocked.
func (p DetectiveProfile) HasAchievement(id string) bool {
	return slices.Contains(p.Achievements, id)
}
