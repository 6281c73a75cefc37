package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ent0n29/memoir/internal/chat"
	"github.com/ent0n29/memoir/internal/config"
	"github.com/ent0n29/memoir/internal/lang"
)

func testConfig() config.Config {
	return config.Config{
		MetricsNamespace:        "test_app_build",
		LogLevel:                "debug",
		LogFormat:               "text",
		ChatSources:             []string{"mock", "openai"},
		ChatDefaultLanguage:     "ur",
		ChatShortReplyThreshold: 35,
		BiographyGenerator:      "none",
	}
}

func TestBuildWiresInMemoryPipeline(t *testing.T) {
	var logs bytes.Buffer
	res, err := Build(context.Background(), testConfig(), Options{
		Logger:     newLogger(&logs, "debug", "text"),
		Registerer: prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			t.Fatalf("Cleanup() error = %v", err)
		}
	}()

	if got := res.Orchestrator.SourceNames(); len(got) != 1 || got[0] != "mock" {
		t.Fatalf("SourceNames() = %v, want [mock]", got)
	}
	if !strings.Contains(logs.String(), "OPENAI_API_KEY") {
		t.Fatalf("expected warning about skipped openai source, logs = %q", logs.String())
	}
	if res.Lexicon.Fallback() != lang.Urdu {
		t.Fatalf("Fallback() = %q, want %q", res.Lexicon.Fallback(), lang.Urdu)
	}

	resp, err := res.Orchestrator.Respond(context.Background(), chat.Request{Message: "I grew up in Sialkot with my brothers.", PersonID: "nani"})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if resp.Reply == "" || !resp.Persisted {
		t.Fatalf("Respond() = %+v, want persisted reply", resp)
	}

	report, err := res.Biographies.Report(context.Background(), "nani")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.Stats.TurnCount != 1 {
		t.Fatalf("TurnCount = %d, want 1", report.Stats.TurnCount)
	}
}

func TestBuildRejectsGeneratorWithoutKey(t *testing.T) {
	cfg := testConfig()
	cfg.BiographyGenerator = "openai"
	opts := Options{Logger: newLogger(&bytes.Buffer{}, "info", "text"), Registerer: prometheus.NewRegistry()}
	if _, err := Build(context.Background(), cfg, opts); err == nil {
		t.Fatalf("Build() error = nil, want missing key error")
	}
}

func TestBuildAcceptsLanguageNamesAndTagsAsDefault(t *testing.T) {
	cases := []struct {
		raw  string
		want lang.Code
	}{
		{"urdu", lang.Urdu},
		{"ur-PK", lang.Urdu},
		{"en-US", lang.English},
	}
	for _, tc := range cases {
		cfg := testConfig()
		cfg.ChatDefaultLanguage = tc.raw
		res, err := Build(context.Background(), cfg, Options{Logger: newLogger(&bytes.Buffer{}, "info", "text"), Registerer: prometheus.NewRegistry()})
		if err != nil {
			t.Fatalf("Build(CHAT_DEFAULT_LANGUAGE=%q) error = %v", tc.raw, err)
		}
		if got := res.Lexicon.Fallback(); got != tc.want {
			t.Fatalf("Build(CHAT_DEFAULT_LANGUAGE=%q) fallback = %q, want %q", tc.raw, got, tc.want)
		}
		_ = res.Cleanup()
	}

	cfg := testConfig()
	cfg.ChatDefaultLanguage = "klingon"
	if _, err := Build(context.Background(), cfg, Options{Logger: newLogger(&bytes.Buffer{}, "info", "text"), Registerer: prometheus.NewRegistry()}); err == nil {
		t.Fatalf("Build(CHAT_DEFAULT_LANGUAGE=klingon) error = nil, want error")
	}
}

func TestNewLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "chatty", "json")
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("log output = %q", out)
	}
}
