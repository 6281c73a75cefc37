package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ent0n29/memoir/internal/memory"
	"github.com/ent0n29/memoir/internal/reliability"
)

// Format selects the request body an HTTPSource sends.
type Format string

const (
	// FormatConversational is the Hugging Face conversational task shape.
	FormatConversational Format = "conversational"
	// FormatTextGeneration sends a flattened transcript to a text-generation model.
	FormatTextGeneration Format = "text_generation"
	// FormatJSON sends {message, language, history} to a custom endpoint.
	FormatJSON Format = "json"
)

const (
	maxErrorBody    = 4 << 10
	maxResponseBody = 1 << 20
)

type HTTPOptions struct {
	Format Format
	// Token is sent as a bearer token when set.
	Token  string
	Client *http.Client
}

// HTTPSource posts the turn to an inference endpoint and extracts the reply
// from whichever known shape comes back.
type HTTPSource struct {
	name   string
	url    string
	token  string
	format Format
	client *http.Client
}

func NewHTTPSource(name, url string, opts HTTPOptions) *HTTPSource {
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPSource{
		name:   name,
		url:    strings.TrimSpace(url),
		token:  strings.TrimSpace(opts.Token),
		format: opts.Format,
		client: opts.Client,
	}
}

func (s *HTTPSource) Name() string { return s.name }

func (s *HTTPSource) Generate(ctx context.Context, p Payload) (string, error) {
	body, err := s.requestBody(p)
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", s.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", s.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	res, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%s: %w", s.name, ctxErr)
		}
		return "", fmt.Errorf("%s: %w: %v", s.name, ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", s.statusError(res)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("%s: %w: read response: %v", s.name, ErrUnavailable, err)
	}

	text, ok := ExtractBody(raw)
	if !ok {
		if msg := upstreamError(raw); msg != "" {
			return "", fmt.Errorf("%s: upstream error: %s", s.name, msg)
		}
		return "", fmt.Errorf("%s: %w", s.name, ErrEmptyResponse)
	}
	if s.format == FormatTextGeneration {
		text = trimContinuation(text, transcript(p))
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", s.name, ErrEmptyResponse)
	}
	return text, nil
}

func (s *HTTPSource) statusError(res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	snippet := strings.TrimSpace(string(body))
	if reliability.IsWarmingUp(res.StatusCode, body) {
		return fmt.Errorf("%s: %w: %s", s.name, ErrWarmingUp, snippet)
	}
	if reliability.IsRetryableHTTPStatus(res.StatusCode) {
		return fmt.Errorf("%s: %w: http status %d: %s", s.name, ErrUnavailable, res.StatusCode, snippet)
	}
	return fmt.Errorf("%s: http status %d: %s", s.name, res.StatusCode, snippet)
}

func (s *HTTPSource) requestBody(p Payload) ([]byte, error) {
	switch s.format {
	case FormatConversational:
		past := make([]string, 0, len(p.History))
		generated := make([]string, 0, len(p.History))
		for _, h := range p.History {
			past = append(past, h.UserText)
			generated = append(generated, h.AIText)
		}
		return json.Marshal(map[string]any{
			"inputs": map[string]any{
				"past_user_inputs":    past,
				"generated_responses": generated,
				"text":                p.Message,
			},
			"options": map[string]any{"wait_for_model": false},
		})
	case FormatTextGeneration:
		return json.Marshal(map[string]any{
			"inputs": transcript(p),
			"parameters": map[string]any{
				"max_new_tokens":   120,
				"temperature":      0.7,
				"return_full_text": false,
			},
			"options": map[string]any{"wait_for_model": false},
		})
	default:
		history := p.History
		if history == nil {
			history = []memory.HistoryEntry{}
		}
		return json.Marshal(map[string]any{
			"message":  p.Message,
			"language": p.Language.String(),
			"history":  history,
		})
	}
}

// transcript flattens the history into a prompt ending on the assistant's turn.
func transcript(p Payload) string {
	var b strings.Builder
	for _, h := range p.History {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", strings.TrimSpace(h.UserText), strings.TrimSpace(h.AIText))
	}
	fmt.Fprintf(&b, "User: %s\nAssistant:", strings.TrimSpace(p.Message))
	return b.String()
}

// trimContinuation drops an echoed prompt and anything after the model starts
// writing the next user line.
func trimContinuation(text, prompt string) string {
	text = strings.TrimPrefix(text, prompt)
	if i := strings.Index(text, "\nUser:"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

func upstreamError(body []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}
	msg, _ := obj["error"].(string)
	return strings.TrimSpace(msg)
}
