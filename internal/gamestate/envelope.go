package gamestate

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/myrjola/casefile/internal/chapters"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/leveling"
	"github.com/myrjola/casefile/internal/models"
)

// SchemaVersion is the version written into every saved envelope.
const SchemaVersion = 1

type envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	SavedAt       time.Time       `json:"savedAt"`
	State         json.RawMessage `json:"state"`
}

// migrations[v] upgrades a decoded state from schema version v to v+1.
var migrations = []func(models.GameState) models.GameState{
	// Version 0 is the bare state saved before envelopes existed.
	fillMissingFields,
}

func encode(state models.GameState, savedAt time.Time) ([]byte, error) {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Wrap(err, "marshal state")
	}
	data, err := json.Marshal(envelope{
		SchemaVersion: SchemaVersion,
		SavedAt:       savedAt.UTC(),
		State:         stateJSON,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal envelope")
	}
	return data, nil
}

// decode parses stored data, migrating older schema versions. It reports the version the data was stored with.
func decode(data []byte) (models.GameState, int, error) {
	var (
		fields  map[string]json.RawMessage
		state   models.GameState
		version int
		payload = json.RawMessage(data)
	)
	if err := json.Unmarshal(data, &fields); err != nil {
		return state, 0, errors.Wrap(ErrIncompatibleState, "not a JSON object", slog.String("cause", err.Error()))
	}

	if _, ok := fields["schemaVersion"]; ok {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return state, 0, errors.Wrap(ErrIncompatibleState, "decode envelope", slog.String("cause", err.Error()))
		}
		version = env.SchemaVersion
		payload = env.State
	} else if _, ok = fields["detective"]; !ok {
		return state, 0, errors.Wrap(ErrIncompatibleState, "neither envelope nor legacy state")
	}

	if version < 0 || version > SchemaVersion {
		return state, version, errors.Wrap(ErrIncompatibleState, "unsupported schema version",
			slog.Int("schemaVersion", version))
	}

	if err := json.Unmarshal(payload, &state); err != nil {
		return state, version, errors.Wrap(ErrIncompatibleState, "decode state",
			slog.Int("schemaVersion", version), slog.String("cause", err.Error()))
	}

	for v := version; v < SchemaVersion; v++ {
		state = migrations[v](state)
	}

	if err := validate(state); err != nil {
		return models.GameState{}, version, errors.Wrap(err, "validate state", slog.Int("schemaVersion", version))
	}
	return state, version, nil
}

func fillMissingFields(s models.GameState) models.GameState {
	if s.Detective.Achievements == nil {
		s.Detective.Achievements = []string{}
	}
	if s.Campaign.ChaptersCompleted == nil {
		s.Campaign.ChaptersCompleted = []int{}
	}
	if s.Campaign.MastermindCluesFound == nil {
		s.Campaign.MastermindCluesFound = []string{}
	}
	if s.CaseHistory == nil {
		s.CaseHistory = []models.CaseResult{}
	}
	if s.Settings.Difficulty == "" {
		s.Settings = models.DefaultSettings()
	}
	if s.Detective.Level == 0 {
		s.Detective.Level = leveling.LevelForExperience(s.Detective.Experience)
	}
	if s.Detective.Rank == "" {
		s.Detective.Rank = leveling.RankForLevel(s.Detective.Level)
	}
	return s
}

// validate rejects states the progression rules can't operate on.
func validate(s models.GameState) error {
	var reason string
	switch {
	case s.Detective.ID == "":
		reason = "missing detective id"
	case s.Detective.Level < 1 || s.Detective.Level > leveling.MaxLevel():
		reason = "level out of range"
	case s.Detective.Experience < 0:
		reason = "negative experience"
	case s.Detective.CasesCompleted < 0 || s.Detective.CasesWon < 0:
		reason = "negative case counters"
	case s.Detective.CasesWon > s.Detective.CasesCompleted:
		reason = "more cases won than completed"
	case s.Campaign.CurrentChapter < 1 || s.Campaign.CurrentChapter > chapters.Count():
		reason = "chapter pointer out of range"
	case s.Campaign.CasesInChapter < 0 || s.Campaign.TotalCasesCompleted < 0:
		reason = "negative campaign counters"
	case !s.Settings.Difficulty.Valid():
		reason = "unknown difficulty"
	default:
		return nil
	}
	return errors.Wrap(ErrIncompatibleState, reason,
		slog.Int("level", s.Detective.Level),
		slog.Int("currentChapter", s.Campaign.CurrentChapter))
}
