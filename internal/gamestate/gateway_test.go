package gamestate_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/casefile/internal/gamestate"
	"github.com/myrjola/casefile/internal/models"
	"github.com/myrjola/casefile/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func sampleState() models.GameState {
	ending := models.EndingGood
	return models.GameState{
		Detective: models.DetectiveProfile{
			ID:             "6c1b1d3c-8a47-4d1f-9d1e-111111111111",
			Name:           "Marlowe",
			Rank:           "Detective Junior",
			Experience:     260,
			Level:          3,
			Skills:         models.Skills{Perception: 1, Persuasion: 2, Logic: 2, Investigation: 1},
			CasesCompleted: 2,
			CasesWon:       2,
			Achievements:   []string{"first_case", "chapter_1_complete"},
			CreatedAt:      1_700_000_000_000,
		},
		Campaign: models.CampaignProgress{
			CurrentChapter:       2,
			ChaptersCompleted:    []int{1},
			CasesInChapter:       0,
			TotalCasesCompleted:  2,
			MastermindCluesFound: []string{"Un símbolo extraño"},
			StoryProgress: models.StoryProgress{
				IntroductionComplete: true,
				EndingType:           &ending,
			},
		},
		CurrentCase: &models.CaseData{
			CaseID:   "CASE-2",
			Title:    "La torre",
			Suspects: []models.Suspect{{Name: "Ana", Secrets: []string{"debt"}}},
			Culprit:  0,
			CulpritProfile: &models.VillainProfile{
				ID:               "mastermind",
				Name:             "El Maestro",
				Archetype:        "Criminal Mastermind",
				DeceptionTactics: []string{"Planted evidence pointing elsewhere"},
				Weaknesses:       []string{"Overconfidence"},
				Strengths:        []string{"Brilliant planning"},
			},
			Evidence:   []models.Evidence{{Name: "knife", LinkedTo: []int{0}, FalseLeads: []string{}}},
			Difficulty: models.DifficultyHard,
			ChapterID:  "chapter-2",
		},
		ActiveSession: &models.ActiveSession{
			CaseData:  models.CaseData{CaseID: "CASE-2"},
			StartTime: 1_700_000_100_000,
			Notes:     "check the lift logs",
			Stats:     models.SessionStats{QuestionsAsked: 3},
			Transcript: []models.Exchange{
				{Suspect: 0, Question: "Where were you?", Answer: "In the lift."},
			},
		},
		CaseHistory: []models.CaseResult{
			{CaseID: "CASE-0", ChapterID: "chapter-1", Grade: models.GradeS, CorrectAccusation: true,
				ExperienceGained: 225, AchievementsUnlocked: []string{"first_case"}},
			{CaseID: "CASE-1", ChapterID: "chapter-1", Grade: models.GradeA, CorrectAccusation: true,
				TimeSpent: 600_000, ExperienceGained: 175, AchievementsUnlocked: []string{}},
		},
		Settings: models.DefaultSettings(),
	}
}

func newGateway(t *testing.T, store gamestate.Store, logSink io.Writer) *gamestate.Gateway {
	t.Helper()
	savedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return gamestate.NewGateway(store, testhelpers.NewLogger(logSink), gamestate.WithClock(func() time.Time {
		return savedAt
	}))
}

func TestGateway_roundTrip(t *testing.T) {
	ctx := context.Background()
	store := gamestate.NewMemoryStore()
	gateway := newGateway(t, store, io.Discard)

	want := sampleState()
	revision, err := gateway.Save(ctx, "slot", want)
	require.NoError(t, err)
	require.Equal(t, int64(1), revision)

	got, err := gateway.Load(ctx, "slot")
	require.NoError(t, err)
	want.Revision = revision
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	record, err := store.Get(ctx, "slot")
	require.NoError(t, err)
	var envelope struct {
		SchemaVersion int       `json:"schemaVersion"`
		SavedAt       time.Time `json:"savedAt"`
	}
	require.NoError(t, json.Unmarshal(record.Data, &envelope))
	require.Equal(t, gamestate.SchemaVersion, envelope.SchemaVersion)
	require.True(t, envelope.SavedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestGateway_revisionConflict(t *testing.T) {
	ctx := context.Background()
	gateway := newGateway(t, gamestate.NewMemoryStore(), io.Discard)

	_, err := gateway.Save(ctx, "slot", sampleState())
	require.NoError(t, err)

	first, err := gateway.Load(ctx, "slot")
	require.NoError(t, err)
	second, err := gateway.Load(ctx, "slot")
	require.NoError(t, err)

	first.Detective.Name = "first"
	revision, err := gateway.Save(ctx, "slot", first)
	require.NoError(t, err)
	require.Equal(t, int64(2), revision)

	second.Detective.Name = "second"
	_, err = gateway.Save(ctx, "slot", second)
	require.ErrorIs(t, err, gamestate.ErrRevisionConflict)

	got, err := gateway.Load(ctx, "slot")
	require.NoError(t, err)
	require.Equal(t, "first", got.Detective.Name)
}

func TestGateway_migratesLegacyState(t *testing.T) {
	ctx := context.Background()
	store := gamestate.NewMemoryStore()
	var logs bytes.Buffer
	gateway := newGateway(t, store, &logs)

	legacy := `{
		"detective": {"id": "detective-1700000000000", "name": "Detective", "rank": "Novato", "experience": 120,
			"level": 2, "skills": {"perception": 1, "persuasion": 2, "logic": 1, "investigation": 1},
			"casesCompleted": 1, "casesWon": 1, "achievements": null, "createdAt": 1700000000000},
		"campaign": {"currentChapter": 1, "casesInChapter": 1, "totalCasesCompleted": 1,
			"storyProgress": {"introductionComplete": true, "endingType": null}},
		"currentCase": null,
		"caseHistory": [{"caseId": "CASE-1", "chapterId": "chapter-1", "grade": "A", "correctAccusation": true}]
	}`
	_, err := store.Put(ctx, "slot", []byte(legacy), 0)
	require.NoError(t, err)

	got, err := gateway.Load(ctx, "slot")
	require.NoError(t, err)
	require.Equal(t, int64(1), got.Revision)
	require.Equal(t, 120, got.Detective.Experience)
	require.Equal(t, []string{}, got.Detective.Achievements)
	require.Equal(t, []int{}, got.Campaign.ChaptersCompleted)
	require.Equal(t, []string{}, got.Campaign.MastermindCluesFound)
	require.Equal(t, models.DefaultSettings(), got.Settings)
	require.Len(t, got.CaseHistory, 1)
	require.Contains(t, logs.String(), "migrated legacy game state")

	// Saving writes the current envelope.
	_, err = gateway.Save(ctx, "slot", got)
	require.NoError(t, err)
	record, err := store.Get(ctx, "slot")
	require.NoError(t, err)
	require.Contains(t, string(record.Data), `"schemaVersion":1`)
}

func TestGateway_rejectsIncompatibleState(t *testing.T) {
	valid, err := json.Marshal(sampleState())
	require.NoError(t, err)

	withState := func(mutate func(*models.GameState)) string {
		s := sampleState()
		mutate(&s)
		stateJSON, marshalErr := json.Marshal(s)
		require.NoError(t, marshalErr)
		return `{"schemaVersion":1,"savedAt":"2024-03-01T12:00:00Z","state":` + string(stateJSON) + `}`
	}

	tests := []struct {
		name string
		data string
	}{
		{name: "garbage", data: "not json"},
		{name: "array", data: "[]"},
		{name: "unrelated object", data: `{"hello":"world"}`},
		{name: "future version", data: `{"schemaVersion":2,"savedAt":"2024-03-01T12:00:00Z","state":` + string(valid) + `}`},
		{name: "state of wrong shape", data: `{"schemaVersion":1,"state":{"detective":"nope"}}`},
		{name: "null state", data: `{"schemaVersion":1,"state":null}`},
		{name: "level out of range", data: withState(func(s *models.GameState) { s.Detective.Level = 16 })},
		{name: "zero level", data: withState(func(s *models.GameState) { s.Detective.Level = 0 })},
		{name: "chapter out of range", data: withState(func(s *models.GameState) { s.Campaign.CurrentChapter = 6 })},
		{name: "negative experience", data: withState(func(s *models.GameState) { s.Detective.Experience = -1 })},
		{name: "more wins than cases", data: withState(func(s *models.GameState) { s.Detective.CasesWon = 9 })},
		{name: "unknown difficulty", data: withState(func(s *models.GameState) { s.Settings.Difficulty = "brutal" })},
		{name: "missing detective id", data: withState(func(s *models.GameState) { s.Detective.ID = "" })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := gamestate.NewMemoryStore()
			gateway := newGateway(t, store, io.Discard)
			_, err := store.Put(ctx, "slot", []byte(tt.data), 0)
			require.NoError(t, err)

			_, err = gateway.Load(ctx, "slot")
			require.ErrorIs(t, err, gamestate.ErrIncompatibleState)
			require.Nil(t, gateway.LoadOrNil(ctx, "slot"))
		})
	}
}

func TestGateway_LoadOrNil(t *testing.T) {
	ctx := context.Background()
	gateway := newGateway(t, gamestate.NewMemoryStore(), io.Discard)

	require.Nil(t, gateway.LoadOrNil(ctx, "slot"))

	_, err := gateway.Save(ctx, "slot", sampleState())
	require.NoError(t, err)
	got := gateway.LoadOrNil(ctx, "slot")
	require.NotNil(t, got)
	require.Equal(t, "Marlowe", got.Detective.Name)
}

func TestGateway_Clear(t *testing.T) {
	ctx := context.Background()
	gateway := newGateway(t, gamestate.NewMemoryStore(), io.Discard)

	_, err := gateway.Save(ctx, "slot", sampleState())
	require.NoError(t, err)
	require.NoError(t, gateway.Clear(ctx, "slot"))

	_, err = gateway.Load(ctx, "slot")
	require.ErrorIs(t, err, gamestate.ErrNotFound)

	// A fresh state saves into the cleared slot.
	_, err = gateway.Save(ctx, "slot", sampleState())
	require.NoError(t, err)
}
