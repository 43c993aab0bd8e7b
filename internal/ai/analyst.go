package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Prompt-size bounds: prompts embed at most the first sampleRows rows, and a
// JSON excerpt of the first excerptRows of those. Strictly prefix truncation,
// no random or stratified sampling.
const (
	sampleRows  = 50
	excerptRows = 5

	analyzeMaxTokens = 2048
	answerMaxTokens  = 1024
)

// Insight is one normalized observation from an analysis run.
type Insight struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// Analysis is the normalized result of one analyze call: at most five
// insights, confidence always in [0,1].
type Analysis struct {
	Insights []Insight `json:"insights"`
	Summary  string    `json:"summary"`
}

// QueryResult answers one natural-language question. It is never persisted.
// SuggestedVisualization passes through whatever the model returned; the
// expected values are line, bar, pie and scatter but membership is not
// enforced here.
type QueryResult struct {
	Answer                 string  `json:"answer"`
	Confidence             float64 `json:"confidence"`
	SuggestedVisualization string  `json:"suggestedVisualization,omitempty"`
}

// Analyst builds bounded prompts from dataset samples and normalizes the
// provider's structured responses. Transport and provider failures are the
// only hard errors; output the model produced but we cannot fully parse is
// degraded to defaults instead.
type Analyst struct {
	client *Client
	model  string
}

func NewAnalyst(client *Client, model string) *Analyst {
	return &Analyst{client: client, model: model}
}

const analyzeSystemPrompt = "You are an expert data analyst specializing in product analytics. " +
	"Provide clear, actionable insights in JSON format."

const answerSystemPrompt = "You are a helpful data analyst. " +
	"Provide clear, accurate answers based on the provided data in JSON format."

// Analyze asks the provider for insights about the dataset and returns at
// most five of them, each with confidence clamped to [0,1].
func (a *Analyst) Analyze(ctx context.Context, rows []map[string]any, columns []string) (*Analysis, error) {
	sample := prefix(rows, sampleRows)
	excerpt, err := renderExcerpt(prefix(sample, excerptRows))
	if err != nil {
		return nil, fmt.Errorf("render sample: %w", err)
	}

	prompt := fmt.Sprintf(`You are a data analyst assistant. Analyze the following dataset and provide insights.

Dataset Information:
- Total rows: %d
- Columns: %s
- Sample data (first few rows): %s

Identify:
1. Key trends or patterns in the data
2. Notable correlations between columns
3. Any anomalies or interesting observations
4. Actionable insights for a product manager

Respond with JSON in this exact format:
{
  "insights": [
    {
      "title": "Brief insight title",
      "description": "Detailed explanation of the insight",
      "confidence": 0.85
    }
  ],
  "summary": "Overall summary of the dataset"
}

Provide 3-5 insights with confidence scores between 0 and 1.`, len(rows), strings.Join(columns, ", "), excerpt)

	content, err := a.complete(ctx, analyzeSystemPrompt, prompt, analyzeMaxTokens)
	if err != nil {
		return nil, err
	}

	var result struct {
		Insights []map[string]any `json:"insights"`
		Summary  any              `json:"summary"`
	}
	// Malformed model output degrades to defaults instead of failing the call.
	_ = json.Unmarshal([]byte(content), &result)

	insights := make([]Insight, 0, len(result.Insights))
	for _, raw := range result.Insights {
		insights = append(insights, Insight{
			Title:       stringOr(raw["title"], "Data Insight"),
			Description: stringOr(raw["description"], ""),
			Confidence:  normalizeConfidence(raw["confidence"]),
		})
	}
	if len(insights) > 5 {
		insights = insights[:5]
	}
	return &Analysis{
		Insights: insights,
		Summary:  stringOr(result.Summary, "Analysis complete"),
	}, nil
}

// Answer asks the provider one natural-language question about the dataset.
// The query is embedded verbatim.
func (a *Analyst) Answer(ctx context.Context, query string, rows []map[string]any, columns []string) (*QueryResult, error) {
	sample := prefix(rows, sampleRows)
	excerpt, err := renderExcerpt(prefix(sample, excerptRows))
	if err != nil {
		return nil, fmt.Errorf("render sample: %w", err)
	}

	prompt := fmt.Sprintf(`You are a data analyst assistant. Answer the user's question about this dataset.

Dataset Information:
- Total rows: %d
- Columns: %s
- Sample data: %s

User Question: %s

Provide a clear, concise answer based on the data. If you can suggest a visualization type (line, bar, pie, scatter), include it.

Respond with JSON in this exact format:
{
  "answer": "Your detailed answer to the question",
  "confidence": 0.85,
  "suggestedVisualization": "line" (optional: one of: line, bar, pie, scatter)
}`, len(rows), strings.Join(columns, ", "), excerpt, query)

	content, err := a.complete(ctx, answerSystemPrompt, prompt, answerMaxTokens)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	_ = json.Unmarshal([]byte(content), &result)

	return &QueryResult{
		Answer:                 stringOr(result["answer"], "Unable to analyze the data for this query."),
		Confidence:             normalizeConfidence(result["confidence"]),
		SuggestedVisualization: stringOr(result["suggestedVisualization"], ""),
	}, nil
}

// complete performs one chat completion and returns the message text, or ""
// when the provider returned no choices.
func (a *Analyst) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, ChatRequest{
		Model: a.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:      maxTokens,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func prefix(rows []map[string]any, n int) []map[string]any {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

func renderExcerpt(rows []map[string]any) (string, error) {
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func stringOr(v any, def string) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return def
	}
	return s
}

// normalizeConfidence coerces the model's confidence to a number and clamps
// it to [0,1]. Absent, zero and unparseable values all fall back to 0.5.
func normalizeConfidence(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		if _, err := fmt.Sscanf(x, "%g", &f); err != nil {
			f = 0
		}
	case bool:
		if x {
			f = 1
		}
	}
	if f == 0 {
		f = 0.5
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
