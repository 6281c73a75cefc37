package app

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ent0n29/memoir/internal/biography"
	"github.com/ent0n29/memoir/internal/chat"
	"github.com/ent0n29/memoir/internal/config"
	"github.com/ent0n29/memoir/internal/enhance"
	"github.com/ent0n29/memoir/internal/fallback"
	"github.com/ent0n29/memoir/internal/httpapi"
	"github.com/ent0n29/memoir/internal/lexicon"
	"github.com/ent0n29/memoir/internal/memory"
	"github.com/ent0n29/memoir/internal/observability"
	"github.com/ent0n29/memoir/internal/sources"
)

type BuildResult struct {
	Config       config.Config
	Logger       *log.Logger
	Lexicon      *lexicon.Lexicon
	Store        memory.Store
	Orchestrator *chat.Orchestrator
	Biographies  *biography.Service
	Metrics      *observability.Metrics
	API          *httpapi.Server

	// Cleanup should be called on shutdown to release the store.
	Cleanup func() error
}

// Options overrides process-level collaborators. The zero value logs to stderr
// and registers metrics with the default Prometheus registry.
type Options struct {
	Logger     *log.Logger
	Registerer prometheus.Registerer
}

func Build(ctx context.Context, cfg config.Config, opts Options) (*BuildResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(cfg, os.Stderr)
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	metrics := observability.NewMetricsWith(reg, cfg.MetricsNamespace)

	lex, err := lexicon.LoadFile(cfg.LexiconFile)
	if err != nil {
		return nil, errors.Wrap(err, "lexicon init failed")
	}
	if raw := strings.TrimSpace(cfg.ChatDefaultLanguage); raw != "" {
		code, ok := lex.Lookup(raw)
		if !ok {
			return nil, errors.Errorf("CHAT_DEFAULT_LANGUAGE %q has no lexicon table", raw)
		}
		if code != lex.Fallback() {
			if lex, err = lex.WithFallback(code); err != nil {
				return nil, errors.Wrap(err, "CHAT_DEFAULT_LANGUAGE")
			}
		}
	}

	srcs, err := sources.Build(sources.Config{
		Names:               cfg.ChatSources,
		HFToken:             cfg.HFAPIToken,
		HFConversationalURL: cfg.HFConversationalURL,
		HFTextURL:           cfg.HFTextURL,
		HTTPURL:             cfg.HTTPSourceURL,
		OpenAI: sources.OpenAIOptions{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		},
		Redact: cfg.ChatRedactOutbound,
	}, logger)
	if err != nil {
		return nil, errors.Wrap(err, "sources init failed")
	}
	if len(srcs) == 0 {
		logger.Warn("no generation sources configured; every reply will come from the fallback synthesizer")
	}

	store, err := memory.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "memory store init failed")
	}

	orchestrator := chat.NewOrchestrator(chat.Config{
		SourceTimeout:   cfg.ChatSourceTimeout,
		HistoryWindow:   cfg.ChatHistoryWindow,
		PersistTimeout:  cfg.ChatPersistTimeout,
		MaxMessageChars: cfg.ChatMaxMessageChars,
	}, chat.Deps{
		Lexicon:  lex,
		Sources:  srcs,
		Enhancer: enhance.New(lex, cfg.ChatShortReplyThreshold),
		Fallback: fallback.New(lex, nil, fallback.Config{HistoryWindow: cfg.ChatFallbackHistoryWindow}),
		Store:    store,
		Metrics:  metrics,
		Logger:   logger.WithPrefix("chat"),
	})

	generator, err := biographyGenerator(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	synth := biography.NewSynthesizer(lex, generator, biography.Config{
		MaxPromptChars: cfg.BiographyMaxPromptChars,
		Timeout:        cfg.BiographyTimeout,
	}, logger.WithPrefix("biography"))
	biographies := biography.NewService(store, synth, metrics)

	api := httpapi.New(cfg, orchestrator, biographies, store, metrics, logger.WithPrefix("http"))

	return &BuildResult{
		Config:       cfg,
		Logger:       logger,
		Lexicon:      lex,
		Store:        store,
		Orchestrator: orchestrator,
		Biographies:  biographies,
		Metrics:      metrics,
		API:          api,
		Cleanup: func() error {
			return errors.Wrap(store.Close(), "close store")
		},
	}, nil
}

// biographyGenerator returns nil when biographies should be assembled locally.
func biographyGenerator(cfg config.Config) (sources.LongFormGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.BiographyGenerator)) {
	case "", "none":
		return nil, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("BIOGRAPHY_GENERATOR=openai but OPENAI_API_KEY is not set")
		}
		model := cfg.BiographyModel
		if model == "" {
			model = cfg.OpenAIModel
		}
		return sources.NewOpenAILongForm(sources.OpenAIOptions{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   model,
		}), nil
	default:
		return nil, errors.Errorf("invalid BIOGRAPHY_GENERATOR: %q (expected openai|none)", cfg.BiographyGenerator)
	}
}
