// Package achievements evaluates unlock rules against a game state and describes achievements for display.
package achievements

import (
	_ "embed"
	"slices"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed achievements.yaml
var detailsYAML []byte

// Details describes an achievement for display.
type Details struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
}

var unknown = Details{ID: "", Name: "Desconocido", Description: "", Icon: "❓"}

var details = mustParseDetails(detailsYAML)

func mustParseDetails(data []byte) []Details {
	var all []Details
	if err := yaml.Unmarshal(data, &all); err != nil {
		panic(errors.Wrap(err, "unmarshal achievement details"))
	}
	return all
}

// Describe returns the display details of the achievement id, or a placeholder for unknown ids.
func Describe(id string) Details {
	idx := slices.IndexFunc(details, func(d Details) bool { return d.ID == id })
	if idx == -1 {
		d := unknown
		d.ID = id
		return d
	}
	return details[idx]
}

// All returns the display details of every known achievement.
func All() []Details {
	return slices.Clone(details)
}

// Check returns the ids of the achievements whose rule the state satisfies and that the detective has not unlocked
// yet, in rule order. The result is never nil.
func Check(state models.GameState) []string {
	unlocked := []string{}
	for _, r := range rules {
		if state.Detective.HasAchievement(r.id) || slices.Contains(unlocked, r.id) {
			continue
		}
		if r.satisfied(state) {
			unlocked = append(unlocked, r.id)
		}
	}
	return unlocked
}

// Grant adds ids to the detective's achievements, skipping ones already present.
func Grant(p models.DetectiveProfile, ids []string) models.DetectiveProfile {
	merged := slices.Clone(p.Achievements)
	if merged == nil {
		merged = []string{}
	}
	for _, id := range ids {
		if !slices.Contains(merged, id) {
			merged = append(merged, id)
		}
	}
	p.Achievements = merged
	return p
}
