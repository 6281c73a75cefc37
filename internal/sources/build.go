package sources

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ent0n29/memoir/internal/policy"
)

// Config controls which sources are built and in what order.
type Config struct {
	// Names lists sources in priority order: hf_conversational, hf_text, http, openai, mock.
	Names []string

	HFToken             string
	HFConversationalURL string
	HFTextURL           string
	HTTPURL             string

	OpenAI OpenAIOptions

	// Redact masks PII in every outbound payload.
	Redact bool
}

// Build constructs the configured sources. Sources missing their endpoint or
// credentials are skipped with a warning; unknown names are an error.
func Build(cfg Config, logger *log.Logger) ([]Source, error) {
	var (
		out      []Source
		seen     = make(map[string]bool, len(cfg.Names))
		redactor *policy.Redactor
	)
	if cfg.Redact {
		redactor = policy.NewRedactor()
	}

	for _, raw := range cfg.Names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var (
			src     Source
			missing string
		)
		switch name {
		case "hf_conversational", "huggingface_conversational":
			if cfg.HFConversationalURL == "" {
				missing = "HF_CONVERSATIONAL_URL"
				break
			}
			src = NewHTTPSource("hf_conversational", cfg.HFConversationalURL, HTTPOptions{Format: FormatConversational, Token: cfg.HFToken})
		case "hf_text", "huggingface_text":
			if cfg.HFTextURL == "" {
				missing = "HF_TEXT_URL"
				break
			}
			src = NewHTTPSource("hf_text", cfg.HFTextURL, HTTPOptions{Format: FormatTextGeneration, Token: cfg.HFToken})
		case "http":
			if cfg.HTTPURL == "" {
				missing = "HTTP_SOURCE_URL"
				break
			}
			src = NewHTTPSource("http", cfg.HTTPURL, HTTPOptions{Format: FormatJSON})
		case "openai":
			if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
				missing = "OPENAI_API_KEY"
				break
			}
			src = NewOpenAISource(cfg.OpenAI)
		case "mock":
			src = NewMockSource()
		default:
			return nil, fmt.Errorf("unknown chat source %q", raw)
		}

		if src == nil {
			if logger != nil {
				logger.Warn("chat source skipped", "source", name, "missing", missing)
			}
			continue
		}
		if redactor != nil {
			src = Redacting(src, redactor)
		}
		out = append(out, src)
	}
	return out, nil
}

// Names lists the names of srcs in order.
func Names(srcs []Source) []string {
	out := make([]string, 0, len(srcs))
	for _, s := range srcs {
		out = append(out, s.Name())
	}
	return out
}
