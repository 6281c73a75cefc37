package sources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ent0n29/memoir/internal/lang"
)

func TestOpenAISourceSendsHistoryAndReturnsContent(t *testing.T) {
	var roles []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, m := range req.Messages {
			roles = append(roles, m.Role)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"What was your school like?"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	src := NewOpenAISource(OpenAIOptions{APIKey: "k", BaseURL: srv.URL})
	text, err := src.Generate(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "What was your school like?" {
		t.Fatalf("Generate() = %q", text)
	}
	want := []string{"system", "user", "assistant", "user"}
	if len(roles) != len(want) {
		t.Fatalf("roles = %v, want %v", roles, want)
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Fatalf("roles = %v, want %v", roles, want)
		}
	}
}

func TestOpenAISourceClassifiesOverload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	}))
	defer srv.Close()

	p := testPayload()
	p.Language = lang.Urdu
	_, err := NewOpenAISource(OpenAIOptions{APIKey: "k", BaseURL: srv.URL}).Generate(context.Background(), p)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Generate() error = %v, want ErrUnavailable", err)
	}
}

func TestOpenAILongFormComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if rf, _ := req["response_format"].(map[string]any); rf["type"] != "json_object" {
			t.Errorf("response_format = %v", req["response_format"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"{\"title\":\"A Life\"}"}}]}`)
	}))
	defer srv.Close()

	out, err := NewOpenAILongForm(OpenAIOptions{APIKey: "k", BaseURL: srv.URL}).Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != `{"title":"A Life"}` {
		t.Fatalf("Complete() = %q", out)
	}
}
