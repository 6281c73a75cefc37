package sources

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ent0n29/memoir/internal/lang"
)

// MockSource provides deterministic local replies for development without an
// inference endpoint. It is only used when listed explicitly.
type MockSource struct{}

func NewMockSource() *MockSource { return &MockSource{} }

func (MockSource) Name() string { return "mock" }

func (MockSource) Generate(ctx context.Context, p Payload) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	topic := strings.TrimSpace(p.Message)
	if utf8.RuneCountInString(topic) > 60 {
		topic = string([]rune(topic)[:60]) + "..."
	}
	if p.Language == lang.Urdu {
		return fmt.Sprintf("آپ نے بتایا: \"%s\"۔ اس کے بعد کیا ہوا؟", topic), nil
	}
	if len(p.History) > 0 {
		return fmt.Sprintf("You mentioned \"%s\". How does that connect to what you told me earlier?", topic), nil
	}
	return fmt.Sprintf("You mentioned \"%s\". What happened after that?", topic), nil
}
