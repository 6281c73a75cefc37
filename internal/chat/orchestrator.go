package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ent0n29/memoir/internal/enhance"
	"github.com/ent0n29/memoir/internal/fallback"
	"github.com/ent0n29/memoir/internal/lexicon"
	"github.com/ent0n29/memoir/internal/memory"
	"github.com/ent0n29/memoir/internal/observability"
	"github.com/ent0n29/memoir/internal/sources"
)

// SourceFallback labels replies produced by the fallback synthesizer.
const SourceFallback = "fallback"

const (
	DefaultSourceTimeout   = 8 * time.Second
	DefaultHistoryWindow   = 5
	DefaultPersistTimeout  = 5 * time.Second
	DefaultMaxMessageChars = 4000
)

// ErrInvalidInput is returned before any generation attempt for a request
// that cannot be answered.
var ErrInvalidInput = errors.New("invalid input")

// Request is one chat turn as sent by a client.
type Request struct {
	Message   string                `json:"message"`
	Language  string                `json:"language,omitempty"`
	SessionID string                `json:"sessionId,omitempty"`
	History   []memory.HistoryEntry `json:"conversationHistory,omitempty"`
	PersonID  string                `json:"personId,omitempty"`
}

type Response struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`

	// Source names the generator that produced Reply, or SourceFallback.
	Source string `json:"-"`
	// Persisted is false when the turn could not be stored.
	Persisted bool `json:"-"`
}

type Config struct {
	SourceTimeout   time.Duration
	HistoryWindow   int
	PersistTimeout  time.Duration
	MaxMessageChars int
}

func (c Config) withDefaults() Config {
	if c.SourceTimeout <= 0 {
		c.SourceTimeout = DefaultSourceTimeout
	}
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = DefaultHistoryWindow
	}
	if c.PersistTimeout <= 0 {
		c.PersistTimeout = DefaultPersistTimeout
	}
	if c.MaxMessageChars <= 0 {
		c.MaxMessageChars = DefaultMaxMessageChars
	}
	return c
}

// Deps are the collaborators of an Orchestrator. Lexicon, Enhancer and Fallback
// are required; a nil Store keeps turns in memory and a nil Logger discards output.
type Deps struct {
	Lexicon  *lexicon.Lexicon
	Sources  []sources.Source
	Enhancer *enhance.Enhancer
	Fallback *fallback.Synthesizer
	Store    memory.Store
	Metrics  *observability.Metrics
	Logger   *log.Logger
}

// Orchestrator answers chat turns: configured sources first, in order, then
// the fallback synthesizer. Every answered turn is appended to the store.
type Orchestrator struct {
	cfg      Config
	lex      *lexicon.Lexicon
	sources  []sources.Source
	enhancer *enhance.Enhancer
	fallback *fallback.Synthesizer
	store    memory.Store
	metrics  *observability.Metrics
	logger   *log.Logger

	now          func() time.Time
	newSessionID func() string
}

func NewOrchestrator(cfg Config, deps Deps) *Orchestrator {
	if deps.Store == nil {
		deps.Store = memory.NewInMemoryStore()
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	return &Orchestrator{
		cfg:          cfg.withDefaults(),
		lex:          deps.Lexicon,
		sources:      slices.Clone(deps.Sources),
		enhancer:     deps.Enhancer,
		fallback:     deps.Fallback,
		store:        deps.Store,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		now:          time.Now,
		newSessionID: uuid.NewString,
	}
}

// Respond always yields a non-empty reply for valid input. Errors are limited
// to ErrInvalidInput.
func (o *Orchestrator) Respond(ctx context.Context, req Request) (Response, error) {
	started := time.Now()
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return Response{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(message); n > o.cfg.MaxMessageChars {
		return Response{}, fmt.Errorf("%w: message has %d characters, limit is %d", ErrInvalidInput, n, o.cfg.MaxMessageChars)
	}

	code := o.lex.Normalize(req.Language)
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = o.newSessionID()
	}
	window := lastN(req.History, o.cfg.HistoryWindow)

	reply, source := o.generate(ctx, sources.Payload{Message: message, Language: code, History: window})
	if reply == "" {
		reply = o.fallback.Synthesize(message, code, req.History)
		source = SourceFallback
	}

	persisted := o.persist(ctx, memory.Turn{
		PersonID:        memory.NormalizePersonID(req.PersonID),
		SessionID:       sessionID,
		UserMessage:     message,
		AIResponse:      reply,
		Language:        code.String(),
		Timestamp:       o.now(),
		HistorySnapshot: window,
	})

	o.metrics.ObserveReply(source, time.Since(started))
	o.logger.Debug("chat reply", "session", sessionID, "source", source, "language", code, "persisted", persisted)
	return Response{Reply: reply, SessionID: sessionID, Source: source, Persisted: persisted}, nil
}

// generate tries each source once, sequentially. It returns "" when none produced
// an acceptable reply or the caller gave up.
func (o *Orchestrator) generate(ctx context.Context, p sources.Payload) (string, string) {
	for _, src := range o.sources {
		if ctx.Err() != nil {
			return "", ""
		}
		attemptCtx, cancel := context.WithTimeout(ctx, o.cfg.SourceTimeout)
		attemptStart := time.Now()
		raw, err := src.Generate(attemptCtx, p)
		cancel()
		elapsed := time.Since(attemptStart)

		if err != nil {
			outcome := sources.Outcome(err)
			o.metrics.ObserveSourceAttempt(src.Name(), outcome, elapsed)
			o.logger.Warn("chat source failed", "source", src.Name(), "outcome", outcome, "elapsed", elapsed, "err", err)
			continue
		}
		text, ok := o.enhancer.Enhance(raw, p.Language)
		if !ok {
			o.metrics.ObserveSourceAttempt(src.Name(), "rejected", elapsed)
			o.logger.Debug("chat source reply rejected", "source", src.Name(), "raw", raw)
			continue
		}
		o.metrics.ObserveSourceAttempt(src.Name(), "accepted", elapsed)
		return text, src.Name()
	}
	return "", ""
}

// persist appends the turn under its own deadline so a caller that already
// went away still gets the exchange recorded.
func (o *Orchestrator) persist(ctx context.Context, turn memory.Turn) bool {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.PersistTimeout)
	defer cancel()
	if _, err := o.store.AppendTurn(pctx, turn); err != nil {
		o.metrics.ObservePersistenceFailure()
		o.logger.Error("persist turn failed", "session", turn.SessionID, "person", turn.PersonID, "err", err)
		return false
	}
	return true
}

// SourceNames lists the configured sources in priority order.
func (o *Orchestrator) SourceNames() []string {
	return sources.Names(o.sources)
}

func lastN(history []memory.HistoryEntry, n int) []memory.HistoryEntry {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return slices.Clone(history)
}
