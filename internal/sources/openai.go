package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ent0n29/memoir/internal/lang"
	"github.com/ent0n29/memoir/internal/reliability"
)

const DefaultOpenAIModel = "gpt-4o-mini"

var interviewerPrompts = map[lang.Code]string{
	lang.English: "You are a warm, patient interviewer helping an older person tell their life story. " +
		"Reply in one or two short sentences: acknowledge what they shared, then ask exactly one open follow-up question " +
		"about their memories, family, work or places they lived. Never give advice and never talk about yourself.",
	lang.Urdu: "آپ ایک مہربان اور صبر والے انٹرویو کرنے والے ہیں جو ایک بزرگ کو ان کی زندگی کی کہانی سنانے میں مدد کر رہے ہیں۔ " +
		"اردو میں ایک یا دو مختصر جملوں میں جواب دیں: جو انہوں نے بتایا اسے سراہیں، پھر ان کی یادوں، خاندان، کام یا رہائش کے بارے میں " +
		"صرف ایک کھلا سوال پوچھیں۔ کبھی مشورہ نہ دیں اور اپنے بارے میں بات نہ کریں۔",
}

type OpenAIOptions struct {
	APIKey string
	// BaseURL points at any OpenAI compatible endpoint; empty uses api.openai.com.
	BaseURL   string
	Model     string
	MaxTokens int
}

func newOpenAIClient(opts OpenAIOptions) *openai.Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	return openai.NewClientWithConfig(cfg)
}

// OpenAISource asks a chat completion model for the next interviewer line.
type OpenAISource struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewOpenAISource(opts OpenAIOptions) *OpenAISource {
	if opts.Model == "" {
		opts.Model = DefaultOpenAIModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 160
	}
	return &OpenAISource{client: newOpenAIClient(opts), model: opts.Model, maxTokens: opts.MaxTokens}
}

func (s *OpenAISource) Name() string { return "openai" }

func (s *OpenAISource) Generate(ctx context.Context, p Payload) (string, error) {
	prompt, ok := interviewerPrompts[p.Language]
	if !ok {
		prompt = interviewerPrompts[lang.English]
	}
	messages := make([]openai.ChatCompletionMessage, 0, 2+2*len(p.History))
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: prompt})
	for _, h := range p.History {
		if u := strings.TrimSpace(h.UserText); u != "" {
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: u})
		}
		if a := strings.TrimSpace(h.AIText); a != "" {
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: a})
		}
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: p.Message})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   s.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", classifyOpenAIError(ctx, "openai", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// OpenAILongForm completes biography prompts, asking for a JSON object.
type OpenAILongForm struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewOpenAILongForm(opts OpenAIOptions) *OpenAILongForm {
	if opts.Model == "" {
		opts.Model = DefaultOpenAIModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2500
	}
	return &OpenAILongForm{client: newOpenAIClient(opts), model: opts.Model, maxTokens: opts.MaxTokens}
}

func (g *OpenAILongForm) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You write warm, factual life-story biographies and answer with a single JSON object."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:      g.maxTokens,
		Temperature:    0.4,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return "", classifyOpenAIError(ctx, "biography generator", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("biography generator: %w", ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(ctx context.Context, name string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", name, ctxErr)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if reliability.IsRetryableHTTPStatus(apiErr.HTTPStatusCode) {
			return fmt.Errorf("%s: %w: %v", name, ErrUnavailable, err)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reliability.IsRetryableHTTPStatus(reqErr.HTTPStatusCode) {
			return fmt.Errorf("%s: %w: %v", name, ErrUnavailable, err)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	// Anything else is a transport failure.
	return fmt.Errorf("%s: %w: %v", name, ErrUnavailable, err)
}
