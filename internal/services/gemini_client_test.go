package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
)

func newTestGeminiClient(t *testing.T, srv *httptest.Server) GeminiClient {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", srv.URL)
	t.Setenv("GEMINI_MODEL", "gemini-test")
	client, err := NewGeminiClient(logger.NewNop())
	if err != nil {
		t.Fatalf("failed to init client: %v", err)
	}
	return client
}

func candidateResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]interface{}{{"text": text}},
			}},
		},
	}
}

func TestGeminiClient_GenerateJSON(t *testing.T) {
	var gotBody generateContentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-test:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(candidateResponse(`{"foundationalOverview":"theme"}`))
	}))
	defer srv.Close()

	client := newTestGeminiClient(t, srv)
	img := &PalmImage{MIMEType: "image/png", Data: []byte("img-bytes")}
	out, err := client.GenerateJSON(context.Background(), "the prompt", img, ReadingSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["foundationalOverview"] != "theme" {
		t.Fatalf("unexpected payload: %v", out)
	}

	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 2 {
		t.Fatalf("expected one content with text + image parts, got %+v", gotBody.Contents)
	}
	if gotBody.Contents[0].Parts[0].Text != "the prompt" {
		t.Fatalf("prompt text not sent")
	}
	if gotBody.Contents[0].Parts[1].InlineData == nil || gotBody.Contents[0].Parts[1].InlineData.MIMEType != "image/png" {
		t.Fatalf("inline image not attached")
	}
	if gotBody.GenerationConfig == nil || gotBody.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Fatalf("response schema config not sent")
	}
}

func TestGeminiClient_OverloadIsRetryableAndNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"The model is overloaded. Please try again later.","status":"UNAVAILABLE"}}`))
	}))
	defer srv.Close()

	client := newTestGeminiClient(t, srv)
	_, err := client.GenerateJSON(context.Background(), "p", nil, ReadingSchema())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !apperr.IsRetryableGeneration(err) {
		t.Fatalf("503 must surface as a retryable GenerationError, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("client must not retry on its own, made %d calls", got)
	}
}

func TestGeminiClient_RateLimitIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	client := newTestGeminiClient(t, srv)
	_, err := client.GenerateText(context.Background(), "p")
	if !apperr.IsRetryableGeneration(err) {
		t.Fatalf("429 must surface as a retryable GenerationError, got %v", err)
	}
}

func TestGeminiClient_BadRequestIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	client := newTestGeminiClient(t, srv)
	_, err := client.GenerateText(context.Background(), "p")
	var genErr *apperr.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T", err)
	}
	if genErr.Retryable {
		t.Fatalf("400 must not be tagged retryable")
	}
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := newTestGeminiClient(t, srv)
	_, err := client.GenerateJSON(context.Background(), "p", nil, ReadingSchema())
	var genErr *apperr.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("empty output must be a GenerationError, got %T", err)
	}
}

func TestGeminiClient_MalformedJSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(candidateResponse("not json at all"))
	}))
	defer srv.Close()

	client := newTestGeminiClient(t, srv)
	_, err := client.GenerateJSON(context.Background(), "p", nil, ReadingSchema())
	var genErr *apperr.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("malformed output must be a GenerationError, got %T", err)
	}
	if genErr.Retryable {
		t.Fatalf("malformed output is not an overload condition")
	}
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := NewGeminiClient(logger.NewNop()); err == nil {
		t.Fatalf("expected error without GEMINI_API_KEY")
	}
}
