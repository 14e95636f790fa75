// Package chapters holds the static campaign catalog and derives chapter status from campaign progress.
package chapters

import (
	_ "embed"
	"fmt"
	"log/slog"
	"slices"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed chapters.yaml
var catalogYAML []byte

var ErrInvalidCatalog = errors.NewSentinel("invalid chapter catalog")

type entry struct {
	models.Chapter `yaml:",inline"`
	Icon           string `yaml:"icon"`
	Intro          string `yaml:"intro"`
}

var catalog = mustParse(catalogYAML)

func mustParse(data []byte) []entry {
	entries, err := parse(data)
	if err != nil {
		panic(err)
	}
	return entries
}

func parse(data []byte) ([]entry, error) {
	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "unmarshal chapter catalog")
	}
	if len(entries) == 0 {
		return nil, errors.Wrap(ErrInvalidCatalog, "empty catalog")
	}
	for i, e := range entries {
		attrs := []slog.Attr{slog.String("id", e.ID), slog.Int("number", e.Number)}
		switch {
		case e.Number != i+1:
			return nil, errors.Wrap(ErrInvalidCatalog, "chapter numbers must be contiguous from 1", attrs...)
		case e.CasesRequired < 1:
			return nil, errors.Wrap(ErrInvalidCatalog, "chapter requires no cases", attrs...)
		case !e.Theme.Valid():
			return nil, errors.Wrap(ErrInvalidCatalog, "unknown theme", attrs...)
		case e.ID == "":
			return nil, errors.Wrap(ErrInvalidCatalog, "missing id", attrs...)
		}
	}
	return entries, nil
}

// All returns the chapters in play order.
func All() []models.Chapter {
	all := make([]models.Chapter, len(catalog))
	for i, e := range catalog {
		all[i] = e.Chapter
	}
	return all
}

// Count returns the number of chapters in the campaign.
func Count() int {
	return len(catalog)
}

// ByNumber returns the chapter with the 1-based number n.
func ByNumber(n int) (models.Chapter, bool) {
	if n < 1 || n > len(catalog) {
		return models.Chapter{}, false
	}
	return catalog[n-1].Chapter, true
}

// ByID returns the chapter with the given id.
func ByID(id string) (models.Chapter, bool) {
	idx := slices.IndexFunc(catalog, func(e entry) bool { return e.ID == id })
	if idx == -1 {
		return models.Chapter{}, false
	}
	return catalog[idx].Chapter, true
}

// Current returns the chapter the campaign is at, falling back to the first chapter when the pointer is out of
// range.
func Current(progress models.CampaignProgress) models.Chapter {
	if ch, ok := ByNumber(progress.CurrentChapter); ok {
		return ch
	}
	return catalog[0].Chapter
}

// IsCompleted reports whether chapter n has been completed.
func IsCompleted(progress models.CampaignProgress, n int) bool {
	return slices.Contains(progress.ChaptersCompleted, n)
}

// IsUnlocked reports whether chapter n is playable: the first chapter always is, later ones once the previous
// chapter is completed or the campaign has advanced to them.
func IsUnlocked(progress models.CampaignProgress, n int) bool {
	if n < 1 || n > len(catalog) {
		return false
	}
	return n == 1 || IsCompleted(progress, n-1) || n <= progress.CurrentChapter
}

// Intro returns the narrative introduction of the chapter, or "" when its number is not in the catalog.
func Intro(ch models.Chapter) string {
	if ch.Number < 1 || ch.Number > len(catalog) {
		return ""
	}
	e := catalog[ch.Number-1]
	return fmt.Sprintf("%s **CAPÍTULO %d: %s**\n\n%s", e.Icon, e.Number, e.Title, e.Intro)
}

// CaseParams are the chapter inputs to case generation.
type CaseParams struct {
	Theme                models.Theme
	MastermindConnection string
}

// CaseParamsFor returns the generation parameters of a chapter.
func CaseParamsFor(ch models.Chapter) CaseParams {
	return CaseParams{
		Theme:                ch.Theme,
		MastermindConnection: ch.MastermindClue,
	}
}

// Status is a chapter together with its derived status.
type Status struct {
	models.Chapter
	Unlocked  bool `json:"unlocked"`
	Completed bool `json:"completed"`
	Current   bool `json:"current"`
}

// Statuses returns every chapter with its status derived from progress.
func Statuses(progress models.CampaignProgress) []Status {
	statuses := make([]Status, len(catalog))
	for i, e := range catalog {
		statuses[i] = Status{
			Chapter:   e.Chapter,
			Unlocked:  IsUnlocked(progress, e.Number),
			Completed: IsCompleted(progress, e.Number),
			Current:   progress.CurrentChapter == e.Number,
		}
	}
	return statuses
}
