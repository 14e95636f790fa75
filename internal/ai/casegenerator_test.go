package ai_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/myrjola/casefile/internal/ai"
	"github.com/myrjola/casefile/internal/ai/aitest"
	"github.com/myrjola/casefile/internal/chapters"
	"github.com/myrjola/casefile/internal/models"
	"github.com/myrjola/casefile/internal/testhelpers"
	"github.com/myrjola/casefile/internal/villains"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply     func(prompt string) string
	prompts   []string
	maxTokens []int
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, maxTokens int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.maxTokens = append(f.maxTokens, maxTokens)
	return f.reply(prompt), nil
}

func TestCaseGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	completer := &fakeCompleter{reply: aitest.Reply} //nolint:exhaustruct // recorded later
	g := ai.NewCaseGenerator(completer, testhelpers.NewLogger(io.Discard))

	ch, ok := chapters.ByNumber(3)
	require.True(t, ok)
	caseData, err := g.Generate(ctx, ai.ParamsForChapter(ch, models.DifficultyEasy))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(caseData.CaseID, "CASE-"))
	require.Equal(t, "The Vanishing Ledger", caseData.Title)
	require.Equal(t, "A ledger vanished from the vault.", caseData.Description)
	require.Equal(t, "Harbor Bank", caseData.Location)
	require.Equal(t, models.DifficultyEasy, caseData.Difficulty)
	require.Equal(t, ch.ID, caseData.ChapterID)
	require.Len(t, caseData.Suspects, 2)
	require.GreaterOrEqual(t, caseData.Culprit, 0)
	require.Less(t, caseData.Culprit, 2)
	require.Equal(t, "22:00 bank closes\n02:00 vault opened", caseData.Timeline)
	require.NotNil(t, caseData.CulpritProfile)
	profile, ok := villains.ByID(caseData.CulpritProfile.ID)
	require.True(t, ok)
	require.Equal(t, profile, *caseData.CulpritProfile)

	require.Len(t, caseData.Evidence, 2)
	require.Equal(t, []int{0}, caseData.Evidence[0].LinkedTo, "out of range suspects are dropped")
	require.Equal(t, []string{}, caseData.Evidence[1].FalseLeads)

	require.Len(t, completer.prompts, 4)
	require.Equal(t, []int{1024, 2048, 2048, 1024}, completer.maxTokens)
	require.Contains(t, completer.prompts[0], "Theme: Organized crime")
	require.Contains(t, completer.prompts[1], "Generate 2 suspects")
	require.Contains(t, completer.prompts[2], "Generate 4 pieces of evidence")
	require.Contains(t, completer.prompts[2], "The Architect")
	require.Contains(t, completer.prompts[2], ch.MastermindClue)
	require.Contains(t, completer.prompts[3], "Ana Ruiz, Bruno Vidal")
}

func TestCaseGenerator_Generate_sizesByDifficulty(t *testing.T) {
	tests := []struct {
		difficulty models.Difficulty
		suspects   string
		evidence   string
	}{
		{models.DifficultyEasy, "Generate 2 suspects", "Generate 4 pieces"},
		{models.DifficultyMedium, "Generate 3 suspects", "Generate 6 pieces"},
		{models.DifficultyHard, "Generate 4 suspects", "Generate 8 pieces"},
		{models.Difficulty("nightmare"), "Generate 3 suspects", "Generate 6 pieces"},
	}
	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			completer := &fakeCompleter{reply: aitest.Reply} //nolint:exhaustruct // recorded later
			g := ai.NewCaseGenerator(completer, testhelpers.NewLogger(io.Discard))
			_, err := g.Generate(context.Background(), ai.GenerationParams{ //nolint:exhaustruct // no chapter
				Difficulty: tt.difficulty,
			})
			require.NoError(t, err)
			require.Contains(t, completer.prompts[1], tt.suspects)
			require.Contains(t, completer.prompts[2], tt.evidence)
			require.NotContains(t, completer.prompts[2], "The Architect")
		})
	}
}

func TestCaseGenerator_Generate_malformed(t *testing.T) {
	tests := []struct {
		name  string
		reply func(prompt string) string
	}{
		{
			name:  "framework without JSON",
			reply: func(_ string) string { return "I cannot help with that." },
		},
		{
			name: "framework without title",
			reply: func(p string) string {
				if strings.HasPrefix(p, "Create a police case framework") {
					return `{"title":"  "}`
				}
				return aitest.Reply(p)
			},
		},
		{
			name: "no suspects",
			reply: func(p string) string {
				if strings.Contains(p, "suspects for this crime") {
					return "[]"
				}
				return aitest.Reply(p)
			},
		},
		{
			name: "broken evidence",
			reply: func(p string) string {
				if strings.Contains(p, "pieces of evidence") {
					return `[{"name": }]`
				}
				return aitest.Reply(p)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{reply: tt.reply} //nolint:exhaustruct // recorded later
			g := ai.NewCaseGenerator(completer, testhelpers.NewLogger(io.Discard))
			_, err := g.Generate(context.Background(), ai.GenerationParams{ //nolint:exhaustruct // defaults
				Difficulty: models.DifficultyMedium,
			})
			require.ErrorIs(t, err, ai.ErrMalformedResponse)
		})
	}
}

func TestClient_Complete(t *testing.T) {
	srv := aitest.NewServer(t, aitest.Reply)
	client := ai.NewClient("test-key", srv.BaseURL(), "")
	g := ai.NewCaseGenerator(client, testhelpers.NewLogger(io.Discard))

	caseData, err := g.Generate(context.Background(), ai.GenerationParams{ //nolint:exhaustruct // defaults
		Difficulty: models.DifficultyHard,
	})
	require.NoError(t, err)
	require.Equal(t, "The Vanishing Ledger", caseData.Title)
	require.Len(t, srv.Prompts(), 4)
}
