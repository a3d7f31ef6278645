package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/noora-ekramy/accounting-demo/internal/model"
)

// DefaultGeminiModel is the model used when the config does not name one.
const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini classifies transactions with a Gemini model. The prompt lists
// ONLY the supplied candidate accounts and demands strict JSON back.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini classifier. The API key is taken from the
// environment by the genai client (GEMINI_API_KEY / GOOGLE_API_KEY).
func NewGemini(ctx context.Context, modelName string) (*Gemini, error) {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Gemini{client: client, model: modelName}, nil
}

// Name returns the classifier name for logging.
func (g *Gemini) Name() string { return "gemini" }

// geminiCandidate is the JSON shape the prompt demands.
type geminiCandidate struct {
	AccountID  int     `json:"account_id"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// Classify sends one prompt and parses the ranked JSON response.
func (g *Gemini) Classify(ctx context.Context, description string, candidates []model.Account) ([]Candidate, error) {
	prompt := buildPrompt(description, candidates)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("generate content: %w", ErrTimeout)
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("generate content: %v: %w", err, ErrTransport)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("empty model response: %w", ErrTransport)
	}

	clean := cleanModelJSON(rawText)

	var parsed []geminiCandidate
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling model response: %v: %w", err, ErrTransport)
	}

	out := make([]Candidate, 0, len(parsed))
	for _, c := range parsed {
		out = append(out, Candidate{
			AccountID:  c.AccountID,
			Confidence: clamp(c.Confidence),
			Rationale:  c.Rationale,
		})
	}
	return out, nil
}

func buildPrompt(description string, candidates []model.Account) string {
	var b strings.Builder
	b.WriteString("You are a bookkeeping assistant categorizing a bank transaction.\n\n")
	b.WriteString("Transaction description:\n")
	b.WriteString(description + "\n\n")
	b.WriteString("Use ONLY the following accounts (account_id: name [type] description):\n")
	for _, a := range candidates {
		fmt.Fprintf(&b, "- %d: %s [%s] %s\n", a.ID, a.Name, a.Type, a.Description)
	}
	b.WriteString("\nRules:\n")
	b.WriteString("- Suggest up to 3 accounts, most likely first.\n")
	b.WriteString("- account_id must be one of the IDs listed above.\n")
	b.WriteString("- confidence is a number between 0 and 1.\n")
	b.WriteString("- rationale is one short sentence.\n\n")
	b.WriteString("Return ONLY a raw JSON array of objects with fields ")
	b.WriteString("\"account_id\", \"confidence\", \"rationale\".\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Output must begin with \"[\" and end with \"]\".\n")
	return b.String()
}

// cleanModelJSON strips Markdown fences and surrounding junk when the
// model ignores the formatting instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
