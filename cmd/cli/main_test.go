package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/myrjola/casefile/cmd/cli/casegen"
	"github.com/myrjola/casefile/internal/ai/aitest"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t         *testing.T
	sqliteURL string
	env       map[string]string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	return &cli{
		t:         t,
		sqliteURL: filepath.Join(t.TempDir(), "casefile.sqlite"),
		env:       map[string]string{},
	}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	lookupEnv := func(key string) (string, bool) {
		v, ok := c.env[key]
		return v, ok
	}
	root := newRootCmd(lookupEnv)
	var out, stderr bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--sqlite-url", c.sqliteURL}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err)
	return out
}

func TestCLI_campaign(t *testing.T) {
	c := newCLI(t)

	require.Equal(t, "New campaign started for Holmes\n", c.mustRun("reset", "--name", "Holmes"))
	require.Contains(t, c.mustRun("state"), "Detective: Holmes (Novato)")

	out := c.mustRun("complete", "--case-id", "CASE-1", "--correct", "--time", "5m", "--minigames", "3")
	require.Contains(t, out, "Case CASE-1 closed: grade S")
	require.Contains(t, out, "Achievement unlocked: first_case")
	require.Contains(t, out, "Level up! Level 2")

	out = c.mustRun("complete", "--case-id", "CASE-2", "--time", "45m", "--hints", "2")
	require.Contains(t, out, "grade D")
	require.Contains(t, out, "Chapter 1 completed")
	out = c.mustRun("complete", "--case-id", "CASE-3", "--correct")
	require.NotContains(t, out, "completed")

	out = c.mustRun("state")
	require.Contains(t, out, "Cases won: 2/3")
	require.Contains(t, out, "Chapter 2:")
	require.Contains(t, out, "(1/2 cases)")
	require.Contains(t, out, "Clue: ")

	out = c.mustRun("history")
	require.Contains(t, out, "CASE-1")
	require.Contains(t, out, "CASE-3")
	require.Contains(t, out, "Grades: S=")

	out = c.mustRun("chapters")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	require.Contains(t, lines[1], "completed")
	require.Contains(t, lines[2], "current")
	require.Contains(t, lines[5], "locked")

	// Another slot in the same database is independent.
	require.Contains(t, c.mustRun("--slot", "other", "state"), "Cases won: 0/0")

	c.mustRun("reset")
	require.Contains(t, c.mustRun("state"), "Cases won: 0/0")
	require.NotContains(t, c.mustRun("history"), "CASE-1")
}

func TestCLI_grade(t *testing.T) {
	c := newCLI(t)
	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"grade"}, want: "C (score 60)\n"},
		{args: []string{"grade", "--correct", "--minigames", "3"}, want: "S (score 110)\n"},
		{args: []string{"grade", "--correct", "--hints", "4", "--time", "31m"}, want: "B (score 70)\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			require.Equal(t, tt.want, c.mustRun(tt.args...))
		})
	}
}

func TestCLI_completeRejectsInvalidInput(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("complete", "--hints=-1")
	require.Error(t, err)
	_, err = c.run("complete", "--difficulty", "nightmare")
	require.Error(t, err)
	require.Contains(t, c.mustRun("state"), "Cases won: 0/0")
}

func TestCLI_generate(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("generate")
	require.ErrorIs(t, err, casegen.ErrMissingAPIKey)

	openAI := aitest.NewServer(t, aitest.Reply)
	c.env["OPENAI_API_KEY"] = "test-key"
	c.env["OPENAI_BASE_URL"] = openAI.BaseURL()

	out := c.mustRun("generate")
	require.Contains(t, out, "The Vanishing Ledger")
	require.Contains(t, out, "Ana Ruiz, teller")
	require.Len(t, openAI.Prompts(), 4)

	out = c.mustRun("complete", "--correct")
	require.Contains(t, out, "grade")
	require.NotContains(t, c.mustRun("state", "--json"), `"currentCase": {`)
}
