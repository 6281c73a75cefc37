package sources

import (
	"context"
	"errors"

	"github.com/ent0n29/memoir/internal/lang"
	"github.com/ent0n29/memoir/internal/memory"
)

var (
	// ErrUnavailable marks a transport failure or a retryable upstream status.
	ErrUnavailable = errors.New("source unavailable")
	// ErrWarmingUp marks an upstream that is still loading its model.
	ErrWarmingUp = errors.New("source warming up")
	// ErrEmptyResponse marks a reply from which no text could be extracted.
	ErrEmptyResponse = errors.New("source returned no text")
)

// Payload is what every source receives for one chat turn. History is already
// bounded to the configured window.
type Payload struct {
	Message  string
	Language lang.Code
	History  []memory.HistoryEntry
}

// Source is one external text generator. Generate returns the raw candidate
// reply; quality filtering happens in the caller.
type Source interface {
	Name() string
	Generate(ctx context.Context, p Payload) (string, error)
}

// LongFormGenerator completes a single large prompt, used for biographies.
type LongFormGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Outcome maps a Generate error onto a metrics label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrWarmingUp):
		return "warming_up"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrEmptyResponse):
		return "empty"
	default:
		return "failed"
	}
}
