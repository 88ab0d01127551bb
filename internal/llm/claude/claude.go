package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"llm-market-analyst/internal/store"
	"llm-market-analyst/internal/trace"
)

// Oracle produces narrative assessments using the Anthropic Claude API
type Oracle struct {
	cfg      *store.Config
	endpoint string
	client   *http.Client
}

// NewOracle creates a Claude-based narrative oracle
func NewOracle(cfg *store.Config) *Oracle {
	// default messages endpoint (public Anthropic)
	endpoint := "https://api.anthropic.com/v1/messages"
	// If you use a proxy/bedrock/vertex, set endpoint via CLAUDE_API_ENDPOINT env var
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Oracle{
		cfg:      cfg,
		endpoint: endpoint,
		client:   &http.Client{Timeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second},
	}
}

// Narrate sends a composed prompt and returns the raw narrative text
func (o *Oracle) Narrate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		return "", errors.New("CLAUDE_API_KEY missing")
	}

	system := o.cfg.LLM.System
	if system == "" {
		system = "You are a disciplined equity analyst. Reply with labelled lines: Action, Strength, Rationale, Risk."
	}

	reqBody := map[string]any{
		"model":      o.cfg.LLM.Model,
		"max_tokens": o.cfg.LLM.MaxTokens,
		"system":     system,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	bb, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, "POST", o.endpoint, bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("claude http %d: %s", resp.StatusCode, string(body))
	}

	respBytes, _ := io.ReadAll(resp.Body)

	// Try the messages structure first, then drill common fallback fields.
	var r struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBytes, &r); err == nil && len(r.Content) > 0 {
		if text := strings.TrimSpace(r.Content[0].Text); text != "" {
			return text, nil
		}
	}

	var anyResp map[string]any
	if err := json.Unmarshal(respBytes, &anyResp); err == nil {
		for _, k := range []string{"completion", "output", "output_text", "completion_text", "result"} {
			if v, exists := anyResp[k]; exists {
				if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s), nil
				}
			}
		}
	}

	return "", errors.New("no narrative content in claude response")
}
