package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ent0n29/memoir/internal/enhance"
	"github.com/ent0n29/memoir/internal/fallback"
	"github.com/ent0n29/memoir/internal/lexicon"
	"github.com/ent0n29/memoir/internal/memory"
	"github.com/ent0n29/memoir/internal/observability"
	"github.com/ent0n29/memoir/internal/sources"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

type scriptedSource struct {
	name  string
	reply string
	err   error
	block bool
	calls atomic.Int32
	got   sources.Payload
}

func (s *scriptedSource) Name() string { return s.name }

func (s *scriptedSource) Generate(ctx context.Context, p sources.Payload) (string, error) {
	s.calls.Add(1)
	s.got = p
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.reply, s.err
}

type failingStore struct{ memory.InMemoryStore }

func (*failingStore) AppendTurn(context.Context, memory.Turn) (memory.Turn, error) {
	return memory.Turn{}, errors.New("disk full")
}

var metricsSeq atomic.Int32

func newTestOrchestrator(t *testing.T, store memory.Store, srcs ...sources.Source) (*Orchestrator, *observability.Metrics) {
	t.Helper()
	lex := lexicon.Default()
	metrics := observability.NewMetrics(fmt.Sprintf("memoir_chat_test_%d", metricsSeq.Add(1)))
	o := NewOrchestrator(Config{SourceTimeout: 200 * time.Millisecond}, Deps{
		Lexicon:  lex,
		Sources:  srcs,
		Enhancer: enhance.New(lex, 0),
		Fallback: fallback.New(lex, nil, fallback.Config{Rand: fixedRand(0)}),
		Store:    store,
		Metrics:  metrics,
	})
	o.newSessionID = func() string { return "generated-session" }
	return o, metrics
}

func TestRespondAllSourcesFailStillReplies(t *testing.T) {
	down := &scriptedSource{name: "hf", err: fmt.Errorf("hf: %w", sources.ErrUnavailable)}
	warming := &scriptedSource{name: "hf_text", err: fmt.Errorf("hf_text: %w", sources.ErrWarmingUp)}
	o, _ := newTestOrchestrator(t, memory.NewInMemoryStore(), down, warming)

	resp, err := o.Respond(context.Background(), Request{Message: "The weather was nice."})
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(resp.Reply))
	assert.Equal(t, SourceFallback, resp.Source)
	assert.EqualValues(t, 1, down.calls.Load())
	assert.EqualValues(t, 1, warming.calls.Load())
}

func TestRespondNoSourcesConfigured(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)
	resp, err := o.Respond(context.Background(), Request{Message: "my name is Sara"})
	require.NoError(t, err)
	assert.Contains(t, resp.Reply, "Sara")
}

func TestRespondRejectedReplyMovesToNextSource(t *testing.T) {
	first := &scriptedSource{name: "a", reply: "yes"}
	second := &scriptedSource{name: "b", reply: ": What did your father do for a living?"}
	third := &scriptedSource{name: "c", reply: "never called"}
	o, _ := newTestOrchestrator(t, memory.NewInMemoryStore(), first, second, third)

	resp, err := o.Respond(context.Background(), Request{Message: "My father worked hard."})
	require.NoError(t, err)
	assert.Equal(t, "What did your father do for a living?", resp.Reply)
	assert.Equal(t, "b", resp.Source)
	assert.EqualValues(t, 0, third.calls.Load())
}

func TestRespondSkipsSlowSource(t *testing.T) {
	slow := &scriptedSource{name: "slow", block: true}
	fast := &scriptedSource{name: "fast", reply: "Where did you go to school?"}
	o, metrics := newTestOrchestrator(t, memory.NewInMemoryStore(), slow, fast)

	resp, err := o.Respond(context.Background(), Request{Message: "I liked school."})
	require.NoError(t, err)
	assert.Equal(t, "fast", resp.Source)

	var names []string
	for _, c := range metrics.LatencySnapshot().Outcomes {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "slow:timeout")
	assert.Contains(t, names, "fast:accepted")
}

func TestRespondPersistsTurnWithNormalizedPerson(t *testing.T) {
	store := memory.NewInMemoryStore()
	src := &scriptedSource{name: "a", reply: "What was your wedding day like?"}
	o, _ := newTestOrchestrator(t, store, src)

	history := make([]memory.HistoryEntry, 8)
	for i := range history {
		history[i] = memory.HistoryEntry{UserText: fmt.Sprintf("u%d", i), AIText: fmt.Sprintf("a%d", i)}
	}
	resp, err := o.Respond(context.Background(), Request{
		Message:  "  I married in 1975.  ",
		Language: "en-GB",
		History:  history,
		PersonID: "Default",
	})
	require.NoError(t, err)
	assert.True(t, resp.Persisted)
	assert.Equal(t, "generated-session", resp.SessionID)
	assert.Len(t, src.got.History, DefaultHistoryWindow)
	assert.Equal(t, "u3", src.got.History[0].UserText)

	turns, err := store.QueryTurns(context.Background(), memory.Filter{SessionID: "generated-session"})
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, memory.Unassigned, turns[0].PersonID)
	assert.Equal(t, "I married in 1975.", turns[0].UserMessage)
	assert.Equal(t, "What was your wedding day like?", turns[0].AIResponse)
	assert.Equal(t, "en", turns[0].Language)
	assert.Len(t, turns[0].HistorySnapshot, DefaultHistoryWindow)
}

func TestRespondKeepsCallerSession(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)
	resp, err := o.Respond(context.Background(), Request{Message: "hello", SessionID: " s-42 "})
	require.NoError(t, err)
	assert.Equal(t, "s-42", resp.SessionID)
}

func TestRespondPersistenceFailureStillReplies(t *testing.T) {
	o, metrics := newTestOrchestrator(t, &failingStore{}, &scriptedSource{name: "a", reply: "Tell me about your mother."})
	resp, err := o.Respond(context.Background(), Request{Message: "My mother sang."})
	require.NoError(t, err)
	assert.False(t, resp.Persisted)
	assert.Equal(t, "Tell me about your mother.", resp.Reply)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PersistenceFailures))
}

func TestRespondInvalidInput(t *testing.T) {
	src := &scriptedSource{name: "a", reply: "unused reply text"}
	o, _ := newTestOrchestrator(t, nil, src)

	_, err := o.Respond(context.Background(), Request{Message: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = o.Respond(context.Background(), Request{Message: strings.Repeat("a", DefaultMaxMessageChars+1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.EqualValues(t, 0, src.calls.Load())
}

func TestRespondCanceledCallerGetsFallbackAndTurnIsStored(t *testing.T) {
	store := memory.NewInMemoryStore()
	src := &scriptedSource{name: "a", reply: "never used here"}
	o, _ := newTestOrchestrator(t, store, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp, err := o.Respond(ctx, Request{Message: "We travelled to Murree every summer."})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, resp.Source)
	assert.NotEmpty(t, resp.Reply)
	assert.True(t, resp.Persisted)
	assert.EqualValues(t, 0, src.calls.Load())
}

func TestRespondUrdu(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)
	resp, err := o.Respond(context.Background(), Request{Message: "میرا نام سارہ ہے", Language: "ur-PK"})
	require.NoError(t, err)
	assert.Contains(t, resp.Reply, "سارہ")
}
