package observability

import (
	"testing"
	"time"
)

func TestLatencyWindowSnapshot(t *testing.T) {
	w := NewLatencyWindow(8)
	w.Observe("source:huggingface", 500*time.Millisecond)
	w.Observe("source:huggingface", 700*time.Millisecond)
	w.Observe("source:huggingface", 900*time.Millisecond)
	w.CountOutcome("huggingface:warming_up")
	w.CountOutcome("huggingface:warming_up")

	snap := w.Snapshot()
	if snap.WindowSize != 8 {
		t.Fatalf("WindowSize = %d, want 8", snap.WindowSize)
	}
	if len(snap.Stages) != 1 {
		t.Fatalf("len(Stages) = %d, want 1", len(snap.Stages))
	}
	s := snap.Stages[0]
	if s.Stage != "source:huggingface" {
		t.Fatalf("Stage = %q, want %q", s.Stage, "source:huggingface")
	}
	if s.Samples != 3 {
		t.Fatalf("Samples = %d, want 3", s.Samples)
	}
	if s.LastMS != 900 {
		t.Fatalf("LastMS = %.2f, want 900", s.LastMS)
	}
	if s.P50MS != 700 {
		t.Fatalf("P50MS = %.2f, want 700", s.P50MS)
	}
	if s.P95MS <= 700 || s.P95MS > 900 {
		t.Fatalf("P95MS = %.2f, want (700,900]", s.P95MS)
	}
	if s.TargetP95MS != 6000 {
		t.Fatalf("TargetP95MS = %.2f, want 6000", s.TargetP95MS)
	}
	if len(snap.Outcomes) != 1 || snap.Outcomes[0].Count != 2 {
		t.Fatalf("Outcomes = %+v, want one outcome counted twice", snap.Outcomes)
	}
}

func TestLatencyWindowWrapsAround(t *testing.T) {
	w := NewLatencyWindow(2)
	for _, ms := range []int{100, 200, 300} {
		w.Observe("reply_total", time.Duration(ms)*time.Millisecond)
	}
	s := w.Snapshot().Stages[0]
	if s.Samples != 2 {
		t.Fatalf("Samples = %d, want 2", s.Samples)
	}
	if s.AvgMS != 250 {
		t.Fatalf("AvgMS = %.2f, want 250", s.AvgMS)
	}
}

func TestLatencyWindowNilIsSafe(t *testing.T) {
	var w *LatencyWindow
	w.Observe("reply_total", time.Second)
	w.CountOutcome("x")
	w.Reset()
	if snap := w.Snapshot(); len(snap.Stages) != 0 {
		t.Fatalf("nil window snapshot has stages: %+v", snap.Stages)
	}
}
