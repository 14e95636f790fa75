package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/models"
	"github.com/sashabaranov/go-openai"
)

const (
	interrogationMaxTokens = 2048
	analysisMaxTokens      = 2048
	hintsMaxTokens         = 1024
	defaultSuspicionScore  = 0.5
)

var ErrUnknownSuspect = errors.NewSentinel("unknown suspect")

// Chatter returns the model's next message in a conversation.
type Chatter interface {
	Chat(ctx context.Context, messages []openai.ChatCompletionMessage, maxTokens int) (string, error)
}

// Analysis is the model's reading of one interrogation answer.
type Analysis struct {
	Inconsistencies     []string `json:"inconsistencies"`
	SuspicionScore      float64  `json:"suspicionScore"`
	DeceptionIndicators []string `json:"deceptionIndicators"`
	Recommendations     []string `json:"recommendations"`
}

// HintProgress is what the detective has done so far, as told to the hint writer.
type HintProgress struct {
	Stats models.SessionStats `json:"stats"`
	// Questioned holds the names of the suspects interrogated at least once.
	Questioned []string `json:"questioned"`
	Notes      string   `json:"notes"`
}

// ProgressOf summarizes session for the hint writer.
func ProgressOf(session models.ActiveSession) HintProgress {
	questioned := []string{}
	for i, s := range session.CaseData.Suspects {
		if len(session.Conversation(i)) > 0 {
			questioned = append(questioned, s.Name)
		}
	}
	return HintProgress{Stats: session.Stats, Questioned: questioned, Notes: session.Notes}
}

// Interrogator lets the model play the suspects of a case.
type Interrogator struct {
	chatter Chatter
	logger  *slog.Logger
}

func NewInterrogator(chatter Chatter, logger *slog.Logger) *Interrogator {
	return &Interrogator{
		chatter: chatter,
		logger:  logger.With("source", "interrogator"),
	}
}

// Ask puts question to suspect, who remembers history, and returns the answer. The culprit answers in the
// character of the case's villain profile.
func (i *Interrogator) Ask(
	ctx context.Context,
	caseData models.CaseData,
	suspect int,
	history []models.Exchange,
	question string,
) (string, error) {
	if suspect < 0 || suspect >= len(caseData.Suspects) {
		return "", errors.Wrap(ErrUnknownSuspect, "ask", slog.Int("suspect", suspect))
	}
	system := openai.ChatCompletionMessage{ //nolint:exhaustruct // plain text message
		Role:    openai.ChatMessageRoleSystem,
		Content: suspectSystemPrompt(caseData, suspect),
	}
	messages := make([]openai.ChatCompletionMessage, 0, 2*len(history)+2) //nolint:mnd // system and question
	messages = append(messages, system)
	for _, e := range history {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: e.Question},    //nolint:exhaustruct,lll // plain text message
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: e.Answer}, //nolint:exhaustruct,lll // plain text message
		)
	}
	messages = append(messages, openai.ChatCompletionMessage{ //nolint:exhaustruct // plain text message
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})

	answer, err := i.chatter.Chat(ctx, messages, interrogationMaxTokens)
	if err != nil {
		return "", errors.Wrap(err, "interrogate", slog.Int("suspect", suspect))
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", errors.Wrap(ErrMalformedResponse, "empty answer", slog.Int("suspect", suspect))
	}
	i.logger.LogAttrs(ctx, slog.LevelDebug, "suspect answered",
		slog.String("caseId", caseData.CaseID), slog.Int("suspect", suspect), slog.Int("turn", len(history)+1))
	return answer, nil
}

// Analyze looks for deception in latest, the newest exchange with suspect, against the earlier history. A
// completion without JSON yields a neutral analysis.
func (i *Interrogator) Analyze(
	ctx context.Context,
	caseData models.CaseData,
	suspect int,
	history []models.Exchange,
	latest models.Exchange,
) (Analysis, error) {
	if suspect < 0 || suspect >= len(caseData.Suspects) {
		return Analysis{}, errors.Wrap(ErrUnknownSuspect, "analyze", slog.Int("suspect", suspect))
	}
	out, err := i.complete(ctx, analysisPrompt(caseData.Suspects[suspect], history, latest), analysisMaxTokens)
	if err != nil {
		return Analysis{}, errors.Wrap(err, "analyze interrogation", slog.Int("suspect", suspect))
	}
	var analysis Analysis
	if _, err = extractJSON(out, jsonObjectPattern, &analysis); err != nil {
		return Analysis{}, errors.Wrap(err, "analyze interrogation", slog.Int("suspect", suspect))
	}
	return normalize(analysis), nil
}

func normalize(a Analysis) Analysis {
	if a.Inconsistencies == nil {
		a.Inconsistencies = []string{}
	}
	if a.DeceptionIndicators == nil {
		a.DeceptionIndicators = []string{}
	}
	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}
	switch {
	case a.SuspicionScore <= 0:
		a.SuspicionScore = defaultSuspicionScore
	case a.SuspicionScore > 1:
		a.SuspicionScore = 1
	}
	return a
}

// Hints returns strategic hints that don't name the culprit. A completion without a JSON array yields no hints.
func (i *Interrogator) Hints(ctx context.Context, caseData models.CaseData, progress HintProgress) ([]string, error) {
	progressJSON, err := json.Marshal(progress)
	if err != nil {
		return nil, errors.Wrap(err, "marshal progress")
	}
	out, err := i.complete(ctx, hintsPrompt(caseData, progressJSON), hintsMaxTokens)
	if err != nil {
		return nil, errors.Wrap(err, "generate hints")
	}
	hints := []string{}
	if _, err = extractJSON(out, jsonArrayPattern, &hints); err != nil {
		return nil, errors.Wrap(err, "generate hints")
	}
	if hints == nil {
		hints = []string{}
	}
	return hints, nil
}

func (i *Interrogator) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	out, err := i.chatter.Chat(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt}, //nolint:exhaustruct // plain text message
	}, maxTokens)
	if err != nil {
		return "", errors.Wrap(err, "chat")
	}
	return out, nil
}
