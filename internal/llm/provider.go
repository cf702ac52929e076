// Package llm talks to the upstream extractor that proposes candidate
// assertions for a chunk. The engine treats every proposal as untrusted
// advisory input: offsets, confidence and wording are all re-verified
// downstream against the source items.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/factline/factline/internal/model"
)

// Provider defines the interface for assertion extractors
type Provider interface {
	// Name returns the provider name
	Name() string

	// Propose asks the model for candidate assertions over one chunk
	Propose(ctx context.Context, req ProposeRequest) (*ProposeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ProposeRequest is the input for one extraction call
type ProposeRequest struct {
	Chunk model.Chunk

	// Language hint for the chunk ("en", "de"); empty lets the model decide
	Language string

	// MaxAssertions caps how many proposals to return
	MaxAssertions int

	// Model overrides the configured model for this call
	Model string
}

// ProposeResponse contains the extractor's proposals
type ProposeResponse struct {
	Assertions []model.RawAssertion
	Model      string
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxAssertions per chunk when the request does not set one
	MaxAssertions int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:       60,
		MaxAssertions: 20,
	}
}

// BuildPrompt constructs the extraction prompt for one chunk
func BuildPrompt(chunk model.Chunk, language string, maxAssertions int) string {
	types := make([]string, 0, len(model.AssertionTypes()))
	for _, t := range model.AssertionTypes() {
		types = append(types, string(t))
	}

	langLine := ""
	if language != "" {
		langLine = fmt.Sprintf("The text is in %q.\n", language)
	}

	return fmt.Sprintf(`Extract factual assertions from the text below.

Rules:
1. Copy assertion text VERBATIM from the source. Do not paraphrase.
2. Each assertion must be a complete statement, not a heading or fragment.
3. Classify each assertion with exactly one type from: %s.
4. char_start/char_end are byte offsets of the assertion inside the text.
5. confidence is your own estimate in [0.0, 1.0].
6. Return at most %d assertions.
%s
Respond with a JSON array only, no prose:
[{"text": "...", "type": "...", "char_start": 0, "char_end": 0, "confidence": 0.0}]

Text:
%s`, strings.Join(types, ", "), maxAssertions, langLine, chunk.Text)
}

// proposal is the wire shape the model is asked to emit
type proposal struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	CharStart  int     `json:"char_start"`
	CharEnd    int     `json:"char_end"`
	Confidence float64 `json:"confidence"`
}

// parseProposals decodes the model's response into assertions. Malformed
// individual proposals are skipped; a response that is not JSON at all is
// an error.
func parseProposals(raw string, chunkID, language string, maxAssertions int) ([]model.RawAssertion, error) {
	cleaned := stripFences(raw)

	var props []proposal
	if err := json.Unmarshal([]byte(cleaned), &props); err != nil {
		return nil, fmt.Errorf("parse proposals: %w", err)
	}

	var out []model.RawAssertion
	for _, p := range props {
		if maxAssertions > 0 && len(out) >= maxAssertions {
			break
		}
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		t := model.AssertionType(strings.ToLower(strings.TrimSpace(p.Type)))
		if !t.Valid() {
			t = model.AssertionFactual
		}
		conf := p.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}
		out = append(out, model.RawAssertion{
			ID:            uuid.NewString(),
			Text:          text,
			Type:          t,
			SourceChunkID: chunkID,
			CharStart:     p.CharStart,
			CharEnd:       p.CharEnd,
			Confidence:    conf,
			Language:      language,
		})
	}
	return out, nil
}

// stripFences removes a surrounding markdown code fence, if present
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
