// Package villains holds the archetypes a culprit can play under interrogation.
package villains

import (
	_ "embed"
	"log/slog"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed villains.yaml
var profilesYAML []byte

var ErrInvalidProfiles = errors.NewSentinel("invalid villain profiles")

var profiles = mustParse(profilesYAML)

func mustParse(data []byte) []models.VillainProfile {
	p, err := parse(data)
	if err != nil {
		panic(err)
	}
	return p
}

func parse(data []byte) ([]models.VillainProfile, error) {
	var p []models.VillainProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "unmarshal villain profiles")
	}
	if len(p) == 0 {
		return nil, errors.Wrap(ErrInvalidProfiles, "no profiles")
	}
	seen := make(map[string]bool, len(p))
	for _, profile := range p {
		switch {
		case profile.ID == "":
			return nil, errors.Wrap(ErrInvalidProfiles, "missing id", slog.String("name", profile.Name))
		case seen[profile.ID]:
			return nil, errors.Wrap(ErrInvalidProfiles, "duplicate id", slog.String("id", profile.ID))
		case profile.SuperPrompt == "":
			return nil, errors.Wrap(ErrInvalidProfiles, "missing super prompt", slog.String("id", profile.ID))
		}
		seen[profile.ID] = true
	}
	return p, nil
}

// All returns copies of every profile.
func All() []models.VillainProfile {
	all := make([]models.VillainProfile, len(profiles))
	for i, p := range profiles {
		all[i] = p.Clone()
	}
	return all
}

// ByID returns the profile with id.
func ByID(id string) (models.VillainProfile, bool) {
	for _, p := range profiles {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return models.VillainProfile{}, false
}

// Random returns a profile drawn with pick, which returns an integer in [0, n) like [random.IntN].
func Random(pick func(n int) (int, error)) (models.VillainProfile, error) {
	i, err := pick(len(profiles))
	if err != nil {
		return models.VillainProfile{}, errors.Wrap(err, "pick villain profile")
	}
	if i < 0 || i >= len(profiles) {
		return models.VillainProfile{}, errors.Wrap(ErrInvalidProfiles, "picked index out of range", slog.Int("index", i))
	}
	return profiles[i].Clone(), nil
}
