package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/myrjola/casefile/internal/chapters"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/models"
	"github.com/myrjola/casefile/internal/random"
	"github.com/myrjola/casefile/internal/villains"
)

const (
	frameworkMaxTokens = 1024
	suspectsMaxTokens  = 2048
	evidenceMaxTokens  = 2048
	timelineMaxTokens  = 1024
)

var ErrMalformedResponse = errors.NewSentinel("malformed completion")

var (
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	jsonArrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
)

// Completer returns the model's answer to a single prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// GenerationParams steer the generated case.
type GenerationParams struct {
	Difficulty models.Difficulty
	// Theme is optional.
	Theme models.Theme
	// MastermindClue, when set, asks for a piece of evidence hinting at the mastermind.
	MastermindClue string
	ChapterID      string
}

// ParamsForChapter returns the generation parameters of a case played in chapter ch.
func ParamsForChapter(ch models.Chapter, difficulty models.Difficulty) GenerationParams {
	p := chapters.CaseParamsFor(ch)
	return GenerationParams{
		Difficulty:     difficulty,
		Theme:          p.Theme,
		MastermindClue: p.MastermindConnection,
		ChapterID:      ch.ID,
	}
}

type framework struct {
	CrimeType        string `json:"crimeType"`
	Title            string `json:"title"`
	Location         string `json:"location"`
	Timeline         string `json:"timeline"`
	BasicDescription string `json:"basicDescription"`
}

// CaseGenerator builds a case in four completions: framework, suspects, evidence and timeline.
type CaseGenerator struct {
	completer Completer
	logger    *slog.Logger
	pick      func(n int) (int, error)
}

func NewCaseGenerator(completer Completer, logger *slog.Logger) *CaseGenerator {
	return &CaseGenerator{
		completer: completer,
		logger:    logger.With("source", "casegenerator"),
		pick:      random.IntN,
	}
}

// Generate creates a new case. The culprit and the villain archetype they play are drawn at random before the
// evidence is written so that the evidence points at the right suspect.
func (g *CaseGenerator) Generate(ctx context.Context, params GenerationParams) (models.CaseData, error) {
	var (
		err  error
		zero models.CaseData
	)
	if !params.Difficulty.Valid() {
		params.Difficulty = models.DifficultyMedium
	}
	suspectCount, evidenceCount := counts(params.Difficulty)

	var f framework
	if err = g.completeJSON(ctx, "framework", frameworkPrompt(params), frameworkMaxTokens, jsonObjectPattern,
		&f); err != nil {
		return zero, err
	}
	if strings.TrimSpace(f.Title) == "" {
		return zero, errors.Wrap(ErrMalformedResponse, "framework without title")
	}

	var suspects []models.Suspect
	if err = g.completeJSON(ctx, "suspects", suspectsPrompt(f, suspectCount), suspectsMaxTokens, jsonArrayPattern,
		&suspects); err != nil {
		return zero, err
	}
	if len(suspects) == 0 {
		return zero, errors.Wrap(ErrMalformedResponse, "no suspects")
	}
	for i := range suspects {
		if suspects[i].Secrets == nil {
			suspects[i].Secrets = []string{}
		}
	}

	var culprit int
	if culprit, err = g.pick(len(suspects)); err != nil {
		return zero, errors.Wrap(err, "pick culprit")
	}

	var profile models.VillainProfile
	if profile, err = villains.Random(g.pick); err != nil {
		return zero, errors.Wrap(err, "pick culprit profile")
	}

	var evidence []models.Evidence
	if err = g.completeJSON(ctx, "evidence",
		evidencePrompt(f, suspects, culprit, evidenceCount, params.MastermindClue), evidenceMaxTokens,
		jsonArrayPattern, &evidence); err != nil {
		return zero, err
	}
	for i := range evidence {
		evidence[i].LinkedTo = validSuspectIndexes(evidence[i].LinkedTo, len(suspects))
		if evidence[i].FalseLeads == nil {
			evidence[i].FalseLeads = []string{}
		}
	}
	if evidence == nil {
		evidence = []models.Evidence{}
	}

	var timeline string
	if timeline, err = g.complete(ctx, "timeline", timelinePrompt(f, suspects), timelineMaxTokens); err != nil {
		return zero, err
	}

	caseData := models.CaseData{
		CaseID:         "CASE-" + uuid.NewString(),
		Title:          f.Title,
		Description:    f.BasicDescription,
		Suspects:       suspects,
		Culprit:        culprit,
		CulpritProfile: &profile,
		Evidence:       evidence,
		Timeline:       strings.TrimSpace(timeline),
		Location:       f.Location,
		Difficulty:     params.Difficulty,
		ChapterID:      params.ChapterID,
	}
	g.logger.LogAttrs(ctx, slog.LevelInfo, "case generated",
		slog.String("caseId", caseData.CaseID),
		slog.Int("suspects", len(suspects)),
		slog.Int("evidence", len(evidence)),
		slog.String("culpritProfile", profile.ID),
		slog.String("difficulty", string(params.Difficulty)))
	return caseData, nil
}

func (g *CaseGenerator) complete(ctx context.Context, step string, prompt string, maxTokens int) (string, error) {
	g.logger.LogAttrs(ctx, slog.LevelDebug, "requesting completion", slog.String("step", step))
	out, err := g.completer.Complete(ctx, prompt, maxTokens)
	if err != nil {
		return "", errors.Wrap(err, "generate case", slog.String("step", step))
	}
	return out, nil
}

// completeJSON extracts the outermost JSON value matching pattern from the completion into v.
func (g *CaseGenerator) completeJSON(
	ctx context.Context, step string, prompt string, maxTokens int, pattern *regexp.Regexp, v any) error {
	out, err := g.complete(ctx, step, prompt, maxTokens)
	if err != nil {
		return err
	}
	found, err := extractJSON(out, pattern, v)
	if err != nil {
		return errors.Wrap(err, "extract JSON", slog.String("step", step))
	}
	if !found {
		return errors.Wrap(ErrMalformedResponse, "no JSON in completion", slog.String("step", step))
	}
	return nil
}

// extractJSON decodes the outermost JSON value matching pattern in out into v. It reports whether out held one.
func extractJSON(out string, pattern *regexp.Regexp, v any) (bool, error) {
	match := pattern.FindString(out)
	if match == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(match), v); err != nil {
		return true, errors.Wrap(ErrMalformedResponse, "decode completion", slog.String("cause", err.Error()))
	}
	return true, nil
}

func validSuspectIndexes(indexes []int, suspectCount int) []int {
	valid := make([]int, 0, len(indexes))
	for _, i := range indexes {
		if i >= 0 && i < suspectCount {
			valid = append(valid, i)
		}
	}
	return valid
}
