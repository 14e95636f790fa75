package villains

import (
	"testing"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/random"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	all := All()
	ids := make([]string, len(all))
	for i, p := range all {
		ids[i] = p.ID
		require.NotEmpty(t, p.Archetype, p.ID)
		require.Len(t, p.DeceptionTactics, 5, p.ID)
		require.Len(t, p.Weaknesses, 3, p.ID)
		require.Len(t, p.Strengths, 3, p.ID)
		require.Contains(t, p.SuperPrompt, "DECEPTION STRATEGY:", p.ID)
	}
	require.Equal(t, []string{"mastermind", "psychopath", "desperate", "professional", "impulsive"}, ids)

	// Callers get a copy.
	all[0].Weaknesses[0] = "changed"
	require.Equal(t, "Overconfidence", All()[0].Weaknesses[0])
}

func TestByID(t *testing.T) {
	p, ok := ByID("professional")
	require.True(t, ok)
	require.Equal(t, "El Profesional", p.Name)
	_, ok = ByID("poet")
	require.False(t, ok)
}

func TestRandom(t *testing.T) {
	p, err := Random(func(n int) (int, error) {
		require.Equal(t, 5, n)
		return 2, nil
	})
	require.NoError(t, err)
	require.Equal(t, "desperate", p.ID)

	_, err = Random(func(int) (int, error) { return 5, nil })
	require.ErrorIs(t, err, ErrInvalidProfiles)

	errDrained := errors.NewSentinel("entropy drained")
	_, err = Random(func(int) (int, error) { return 0, errDrained })
	require.ErrorIs(t, err, errDrained)

	seen := make(map[string]bool)
	for range 200 {
		p, err = Random(random.IntN)
		require.NoError(t, err)
		seen[p.ID] = true
	}
	require.Len(t, seen, 5, "every profile can be drawn")
}

func TestParse_rejectsBrokenProfiles(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty", yaml: "[]"},
		{name: "missing id", yaml: "- {name: a, superPrompt: p}"},
		{name: "duplicate id", yaml: "- {id: a, superPrompt: p}\n- {id: a, superPrompt: p}"},
		{name: "missing super prompt", yaml: "- {id: a}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse([]byte(tt.yaml))
			require.ErrorIs(t, err, ErrInvalidProfiles)
		})
	}
}
