package sources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ent0n29/memoir/internal/lang"
	"github.com/ent0n29/memoir/internal/memory"
)

func testPayload() Payload {
	return Payload{
		Message:  "I grew up in Lahore.",
		Language: lang.English,
		History: []memory.HistoryEntry{
			{UserText: "Hello", AIText: "Hello! Where did you grow up?"},
		},
	}
}

func TestHTTPSourceConversationalPayloadAndShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer hf-token" {
			t.Errorf("Authorization = %q, want bearer token", auth)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = io.WriteString(w, `{"conversation":{"generated_responses":["old","What was Lahore like back then?"]}}`)
	}))
	defer srv.Close()

	src := NewHTTPSource("hf_conversational", srv.URL, HTTPOptions{Format: FormatConversational, Token: "hf-token"})
	text, err := src.Generate(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "What was Lahore like back then?" {
		t.Fatalf("Generate() = %q", text)
	}
	inputs, _ := got["inputs"].(map[string]any)
	if inputs["text"] != "I grew up in Lahore." {
		t.Fatalf("inputs.text = %v", inputs["text"])
	}
	past, _ := inputs["past_user_inputs"].([]any)
	if len(past) != 1 || past[0] != "Hello" {
		t.Fatalf("past_user_inputs = %v", past)
	}
}

func TestHTTPSourceTextGenerationTrimsContinuation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		prompt, _ := req["inputs"].(string)
		if !strings.HasSuffix(prompt, "User: I grew up in Lahore.\nAssistant:") {
			t.Errorf("prompt = %q", prompt)
		}
		_, _ = io.WriteString(w, `[{"generated_text":" Which street did you live on?\nUser: it was"}]`)
	}))
	defer srv.Close()

	src := NewHTTPSource("hf_text", srv.URL, HTTPOptions{Format: FormatTextGeneration})
	text, err := src.Generate(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "Which street did you live on?" {
		t.Fatalf("Generate() = %q", text)
	}
}

func TestHTTPSourceWarmingUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"Model facebook/blenderbot is currently loading","estimated_time":20.0}`)
	}))
	defer srv.Close()

	_, err := NewHTTPSource("hf", srv.URL, HTTPOptions{}).Generate(context.Background(), testPayload())
	if !errors.Is(err, ErrWarmingUp) {
		t.Fatalf("Generate() error = %v, want ErrWarmingUp", err)
	}
	if Outcome(err) != "warming_up" {
		t.Fatalf("Outcome() = %q", Outcome(err))
	}
}

func TestHTTPSourceStatusClassification(t *testing.T) {
	cases := []struct {
		status      int
		unavailable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.status)
		}))
		_, err := NewHTTPSource("h", srv.URL, HTTPOptions{}).Generate(context.Background(), testPayload())
		srv.Close()
		if err == nil {
			t.Fatalf("status %d: Generate() error = nil", tc.status)
		}
		if got := errors.Is(err, ErrUnavailable); got != tc.unavailable {
			t.Fatalf("status %d: errors.Is(ErrUnavailable) = %v, want %v", tc.status, got, tc.unavailable)
		}
	}
}

func TestHTTPSourceJSONFormatAndPlainTextBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message  string                `json:"message"`
			Language string                `json:"language"`
			History  []memory.HistoryEntry `json:"history"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Language != "en" || len(req.History) != 1 || req.History[0].AIText == "" {
			t.Errorf("request = %+v", req)
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "  Tell me about your street.  ")
	}))
	defer srv.Close()

	text, err := NewHTTPSource("http", srv.URL, HTTPOptions{Format: FormatJSON}).Generate(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "Tell me about your street." {
		t.Fatalf("Generate() = %q", text)
	}
}

func TestHTTPSourceEmptyAndUpstreamError(t *testing.T) {
	for body, want := range map[string]string{
		`{}`:                       "empty",
		`{"error":"quota reached"}`: "failed",
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		}))
		_, err := NewHTTPSource("h", srv.URL, HTTPOptions{}).Generate(context.Background(), testPayload())
		srv.Close()
		if got := Outcome(err); got != want {
			t.Fatalf("body %s: Outcome() = %q, want %q (err=%v)", body, got, want, err)
		}
	}
}

func TestHTTPSourceHonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewHTTPSource("slow", srv.URL, HTTPOptions{}).Generate(ctx, testPayload())
	if Outcome(err) != "timeout" {
		t.Fatalf("Outcome() = %q, want timeout (err=%v)", Outcome(err), err)
	}
}
