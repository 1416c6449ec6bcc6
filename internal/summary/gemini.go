// Package summary produces an AI-generated digest of a migration's operation
// log via the Gemini API. It is a pure, stateless, best-effort text
// transform: any failure yields a fallback string and never an error, so it
// can have no bearing on transfer state.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"

	"github.com/cloudmigrate/drive2blob/internal/constants"
	httpx "github.com/cloudmigrate/drive2blob/internal/http"
	"github.com/cloudmigrate/drive2blob/internal/journal"
)

// Analyzer calls the Gemini generateContent endpoint.
type Analyzer struct {
	http    *nethttp.Client
	apiKey  string
	baseURL string
	model   string
}

// NewAnalyzer creates an analyzer authorized by apiKey.
func NewAnalyzer(apiKey string) *Analyzer {
	return &Analyzer{
		http:    httpx.NewRetryableClient(),
		apiKey:  apiKey,
		baseURL: constants.GeminiAPIBase,
		model:   constants.GeminiModel,
	}
}

const fallback = "Log analysis is unavailable right now. Check the API key and network, or read the log entries directly."

// Analyze digests the journal entries and asks the model for an assessment.
// Best-effort by contract: all failures return the fallback text.
func (a *Analyzer) Analyze(ctx context.Context, entries []journal.Entry) string {
	if len(entries) == 0 {
		return "No log entries to analyze yet; run a migration first."
	}
	if a.apiKey == "" {
		return fallback
	}

	prompt := buildPrompt(entries)

	reqBody, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})
	if err != nil {
		return fallback
	}

	u := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, a.model, a.apiKey)
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, u, bytes.NewReader(reqBody))
	if err != nil {
		return fallback
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fallback
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fallback
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "Analysis complete. No insights generated."
	}
	return out.Candidates[0].Content.Parts[0].Text
}

// buildPrompt condenses the journal into success/failure counts plus the
// first few error details, capped so the prompt stays small regardless of
// log length.
func buildPrompt(entries []journal.Entry) string {
	var successes int
	var problems []journal.Entry
	for _, e := range entries {
		switch e.Level {
		case journal.LevelSuccess:
			successes++
		case journal.LevelError, journal.LevelWarning:
			problems = append(problems, e)
		}
	}
	const maxDetails = 10
	details := problems
	if len(details) > maxDetails {
		details = details[:maxDetails]
	}
	detailJSON, _ := json.Marshal(details)

	return fmt.Sprintf(`You are a senior DevOps engineer reviewing a cloud file migration log.

Migration summary:
- Successful transfers: %d
- Errors/warnings: %d

Error details (JSON):
%s

Briefly explain what may have gone wrong (if anything) and suggest fixes.
If everything succeeded, give a short positive assessment instead.`,
		successes, len(problems), detailJSON)
}
