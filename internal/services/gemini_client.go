package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
)

// GeminiClient is the outbound contract to the generative-language service.
// Every call is a single synchronous round trip; overload-class failures
// come back as retryable GenerationErrors but are never retried here.
type GeminiClient interface {
	GenerateJSON(ctx context.Context, prompt string, image *PalmImage, schema map[string]interface{}) (map[string]interface{}, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type geminiClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGeminiClient(log *logger.Logger) (GeminiClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}

	baseURL := os.Getenv("GEMINI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	timeoutSec := 120
	if v := os.Getenv("GEMINI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &geminiClient{
		log:        log.With("service", "GeminiClient"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

// ---- wire shapes (generateContent) ----

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string                 `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]interface{} `json:"responseSchema,omitempty"`
	Temperature      float64                `json:"temperature,omitempty"`
}

type generateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiHTTPError struct {
	StatusCode int
	Body       string
}

func (e *geminiHTTPError) Error() string {
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

// isOverloaded recognizes the overload/rate-limit failure class callers may
// retry manually.
func isOverloaded(statusCode int, body string) bool {
	if statusCode == http.StatusServiceUnavailable || statusCode == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(strings.ToLower(body), "overloaded")
}

func (c *geminiClient) do(ctx context.Context, body *generateContentRequest) (*generateContentResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, &apperr.GenerationError{Err: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, &apperr.GenerationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperr.GenerationError{Err: err}
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, &apperr.GenerationError{Err: readErr}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &geminiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
		c.log.Warn("Gemini request failed", "status", resp.StatusCode, "model", c.model)
		return nil, &apperr.GenerationError{
			Retryable: isOverloaded(resp.StatusCode, string(raw)),
			Err:       httpErr,
		}
	}

	var out generateContentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &apperr.GenerationError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return &out, nil
}

func (c *geminiClient) candidateText(resp *generateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &apperr.GenerationError{Err: fmt.Errorf("no candidates in response")}
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", &apperr.GenerationError{Err: fmt.Errorf("empty candidate text")}
	}
	return text.String(), nil
}

func (c *geminiClient) GenerateJSON(ctx context.Context, prompt string, image *PalmImage, schema map[string]interface{}) (map[string]interface{}, error) {
	parts := []geminiPart{{Text: prompt}}
	if image != nil {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MIMEType: image.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(image.Data),
		}})
	}

	req := &generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
			Temperature:      0.7,
		},
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	text, err := c.candidateText(resp)
	if err != nil {
		return nil, err
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, &apperr.GenerationError{Err: fmt.Errorf("model returned malformed JSON: %w", err)}
	}
	return obj, nil
}

func (c *geminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	req := &generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	return c.candidateText(resp)
}
