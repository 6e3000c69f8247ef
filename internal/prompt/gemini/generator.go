package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"ingestdesk/internal/config"
	"ingestdesk/internal/domain"
	"ingestdesk/internal/prompt"
)

const (
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.0-flash"
	errorPreview = 200
	providerName = "gemini"
)

// retryDelays are the waits before each retry of a rate-limited call.
var retryDelays = []time.Duration{3 * time.Second, 6 * time.Second}

// Generator implements port.SchemaGenerator using the Gemini generateContent API.
type Generator struct {
	apiKey   string
	endpoint string
	client   *http.Client
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewGenerator creates a Gemini-backed schema generator. A custom endpoint in
// cfg replaces the public API URL.
func NewGenerator(cfg *config.GeminiConfig) *Generator {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Generator{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		sleep:    sleepContext,
	}
}

// GenerateSchema asks the model for a schema covering exactly the fields the
// request mentions.
func (g *Generator) GenerateSchema(ctx context.Context, request string) (*prompt.Schema, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, domain.ErrEmptyExtractionRequest
	}
	if g.apiKey == "" {
		return nil, domain.ErrGeneratorNotConfigured
	}

	body, err := json.Marshal(buildRequest(request))
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var waited time.Duration
	for attempt := 0; ; attempt++ {
		respBody, err := g.call(ctx, body)
		if err == nil {
			return parseResponse(respBody)
		}

		var apiErr *prompt.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
			return nil, err
		}
		if attempt >= len(retryDelays) {
			return nil, &prompt.RateLimitError{
				Err:      apiErr,
				Attempts: attempt + 1,
				Waited:   waited,
				Provider: providerName,
			}
		}

		delay := retryDelays[attempt]
		log.Printf("gemini.GenerateSchema: rate limited, retrying in %s (attempt %d)", delay, attempt+1)
		if err := g.sleep(ctx, delay); err != nil {
			return nil, err
		}
		waited += delay
	}
}

func (g *Generator) call(ctx context.Context, body []byte) ([]byte, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", g.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &prompt.APIError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(respBody), errorPreview),
		}
	}
	return respBody, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"response_mime_type"`
}

func buildRequest(request string) generateRequest {
	return generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(prompt.SchemaInstruction, request)}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
		},
	}
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte) (*prompt.Schema, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling response: %v", domain.ErrSchemaGeneration, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: response has no text (no candidates or blocked)", domain.ErrSchemaGeneration)
	}

	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return nil, fmt.Errorf("%w: response text is empty", domain.ErrSchemaGeneration)
	}

	schema, err := prompt.ParseSchema([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %s)", domain.ErrSchemaGeneration, err, truncate(text, 500))
	}
	return schema, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// truncate cuts s to at most maxLen bytes without splitting a UTF-8 rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
