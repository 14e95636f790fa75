// Package aitest provides a fake OpenAI chat completion server that writes a small deterministic case and plays its
// suspects.
package aitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sashabaranov/go-openai"
)

const (
	Framework = `Here you go: {"crimeType":"theft","title":"The Vanishing Ledger","location":"Harbor Bank",` +
		`"timeline":"Friday night","basicDescription":"A ledger vanished from the vault."}`
	Suspects = `[{"name":"Ana Ruiz","role":"teller","backstory":"b","motive":"debt","alibi":"home",` +
		`"personality":"nervous","secrets":["gambles"]},` +
		`{"name":"Bruno Vidal","role":"guard","backstory":"b","motive":"grudge","alibi":"patrol",` +
		`"personality":"calm","secrets":[]}]`
	Evidence = "```json\n" + `[{"name":"Keycard log","description":"Vault opened at 2am","linkedTo":[0,7],` +
		`"falseLeads":["guard shift"]},{"name":"Footprint","description":"Muddy boot","linkedTo":[1]}]` + "\n```"
	Timeline = "  22:00 bank closes\n02:00 vault opened  "
	Answer   = "  I was at home all night, ask my neighbour.  "
	Analysis = `The answer is evasive. {"inconsistencies":["claimed home, keycard says vault"],` +
		`"suspicionScore":0.8,"deceptionIndicators":["over-explaining"],"recommendations":["Who is the neighbour?"]}`
	Hints = `["Check who carried a keycard","Ask the guard about his patrol route","Compare the clocks"]`
)

// Reply answers prompts of the case generator and the interrogator with the fixtures above. Questions to suspects
// end with a question mark.
func Reply(prompt string) string {
	switch {
	case strings.HasSuffix(strings.TrimSpace(prompt), "?"):
		return Answer
	case strings.HasPrefix(prompt, "Analyze this interrogation answer"):
		return Analysis
	case strings.HasPrefix(prompt, "Generate investigation hints"):
		return Hints
	case strings.HasPrefix(prompt, "Create a police case framework"):
		return Framework
	case strings.Contains(prompt, "suspects for this crime"):
		return Suspects
	case strings.Contains(prompt, "pieces of evidence"):
		return Evidence
	}
	return Timeline
}

// Server records the prompts it receives.
type Server struct {
	*httptest.Server
	mu       sync.Mutex
	prompts  []string
	requests [][]openai.ChatCompletionMessage
}

// BaseURL is the value to configure as the OpenAI base URL.
func (s *Server) BaseURL() string {
	return s.URL + "/v1"
}

// Requests returns the full conversations received so far.
func (s *Server) Requests() [][]openai.ChatCompletionMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]openai.ChatCompletionMessage(nil), s.requests...)
}

// Prompts returns the last message of every request received so far.
func (s *Server) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// NewServer starts a fake OpenAI server answering with reply. It is closed when the test ends.
func NewServer(t *testing.T, reply func(prompt string) string) *Server {
	t.Helper()
	s := &Server{} //nolint:exhaustruct // zero value is ready
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		prompt := req.Messages[len(req.Messages)-1].Content
		s.mu.Lock()
		s.prompts = append(s.prompts, prompt)
		s.requests = append(s.requests, req.Messages)
		s.mu.Unlock()

		resp := openai.ChatCompletionResponse{ //nolint:exhaustruct // only the used fields
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{{ //nolint:exhaustruct // only the used fields
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply(prompt)}, //nolint:exhaustruct,lll // plain message
				FinishReason: openai.FinishReasonStop,
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}
