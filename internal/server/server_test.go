package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/donhauser001/dhs-atlas/internal/agent"
	"github.com/donhauser001/dhs-atlas/internal/config"
	"github.com/donhauser001/dhs-atlas/internal/llm"
	"github.com/donhauser001/dhs-atlas/internal/tools"
)

// fixedProvider always answers with the same text.
type fixedProvider struct {
	text string
}

func (p *fixedProvider) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	return p.text, nil
}

func (p *fixedProvider) GenerateStream(ctx context.Context, messages []llm.Message) (<-chan llm.StreamChunk, error) {
	chunks := make(chan llm.StreamChunk, 1)
	chunks <- llm.StreamChunk{Text: p.text, Done: true}
	close(chunks)
	return chunks, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		LLMBaseURL:  "http://llm:1234",
		LLMModel:    "test-model",
		APIHost:     "127.0.0.1",
		APIPort:     0,
		FrontendURL: "http://frontend.example",
	}
	ag := agent.New(&fixedProvider{text: "测试回答"}, tools.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, ag, nil, logger)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["status"] != "ok" || body["agent"] != "dhs-atlas" {
		t.Errorf("body = %v", body)
	}
	if body["model"] != "test-model" || body["llm_url"] != "http://llm:1234" {
		t.Errorf("body = %v", body)
	}
	if body["tools_count"] != float64(0) {
		t.Errorf("tools_count = %v", body["tools_count"])
	}
}

func TestHandleChat(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/agent/chat",
		strings.NewReader(`{"message": "你好", "sessionId": "s1"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["content"] != "测试回答" {
		t.Errorf("content = %v", body["content"])
	}
	if body["sessionId"] != "s1" {
		t.Errorf("sessionId = %v", body["sessionId"])
	}
	if _, present := body["toolResults"]; present {
		t.Error("toolResults should be absent when no tools ran")
	}
}

func TestHandleChatValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty message", `{"message": ""}`},
		{"invalid json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/agent/chat", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleChatStream(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/agent/stream",
		strings.NewReader(`{"message": "你好", "sessionId": "s1"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q", got)
	}

	body := rec.Body.String()
	wantOrder := []string{
		"event: start\ndata: {\"session_id\":\"s1\"}",
		"event: content\n",
		"测试回答",
		"event: done\n",
	}
	last := -1
	for _, want := range wantOrder {
		idx := strings.Index(body, want)
		if idx < 0 {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
		if idx < last {
			t.Errorf("%q out of order", want)
		}
		last = idx
	}
	if strings.Contains(body, "event: error") {
		t.Error("unexpected error event")
	}
}

func TestHandleClearSession(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/agent/session/s1", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["status"] != "ok" || !strings.Contains(body["message"], "s1") {
		t.Errorf("body = %v", body)
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://frontend.example", true},
		{"http://localhost:3000", true},
		{"http://localhost:3001", true},
		{"http://evil.example", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/agent/chat", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("preflight status = %d", rec.Code)
		}
		got := rec.Header().Get("Access-Control-Allow-Origin")
		if tt.allowed && got != tt.origin {
			t.Errorf("origin %s: Allow-Origin = %q", tt.origin, got)
		}
		if !tt.allowed && got != "" {
			t.Errorf("origin %s should not be allowed, got %q", tt.origin, got)
		}
	}
}
