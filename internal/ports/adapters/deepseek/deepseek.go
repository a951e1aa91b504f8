// Package deepseek calls the DeepSeek chat-completions API to propose
// viral clip windows for a transcript. The response is returned as raw
// records; validation happens downstream.
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/podbot/podclip/internal/ports"
)

const requestTimeout = 90 * time.Second

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = "deepseek-chat"
	}
	return &Adapter{
		key:     apiKey,
		model:   model,
		baseURL: normalizeBaseURL(baseURL),
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

const systemPrompt = "You are an expert video editor and social media manager. " +
	"You identify viral moments in podcasts."

const analysisPrompt = `Analyze the following podcast transcript and identify 3 to 5 viral clips suitable for TikTok, Reels, and Shorts (30-60 seconds).

Criteria for viral clips:
1. High emotional engagement (humor, shock, inspiration, anger).
2. Standalone value (makes sense without context).
3. Strong hook in the first 3 seconds.
4. Relatable content or practical advice.

Return the result strictly in the following JSON format:
{
    "clips": [
        {
            "start_time": "HH:MM:SS",
            "end_time": "HH:MM:SS",
            "title": "Catchy Title for the Clip",
            "description": "Short description for social media caption",
            "category": "humor|motivation|controversial|educational",
            "virality_score": 0.9,
            "reason": "Why this clip is viral"
        }
    ]
}

Ensure timestamps are accurate and match the transcript flow.`

func (a *Adapter) Propose(ctx context.Context, transcriptText string) ([]map[string]any, error) {
	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": analysisPrompt + "\n\nTRANSCRIPT:\n" + transcriptText},
		},
		"temperature":     0.7,
		"response_format": map[string]any{"type": "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ports.ErrAnalysis, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, a.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrAnalysis, err)
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: deepseek timeout after %s (model=%s)", ports.ErrAnalysis, requestTimeout, a.model)
		}
		return nil, fmt.Errorf("%w: %v", ports.ErrAnalysis, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("%w: deepseek status %d and read body failed: %v", ports.ErrAnalysis, resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("%w: deepseek status %d: %s", ports.ErrAnalysis, resp.StatusCode, truncate(redactSecrets(string(rb), a.key), 400))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ports.ErrAnalysis, err)
	}
	if len(raw.Choices) == 0 {
		return nil, fmt.Errorf("%w: deepseek returned no choices", ports.ErrAnalysis)
	}

	clean, err := extractJSONObject(raw.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrAnalysis, err)
	}

	var out struct {
		Clips []map[string]any `json:"clips"`
	}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("%w: decode clips: %v", ports.ErrAnalysis, err)
	}
	return out.Clips, nil
}

// extractJSONObject tolerates markdown fences and prose around the model's
// JSON answer.
func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("deepseek: empty content")
	}
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}
	return "", fmt.Errorf("deepseek: could not locate JSON object in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
