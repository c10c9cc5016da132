package llm

import (
	"context"
	"errors"
	"fmt"
	"forklift-route-agent/internal/ports"
	"log"
	"strings"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderNone      = "none"
)

var (
	// ErrUnavailable is returned by Unavailable for every call.
	ErrUnavailable = errors.New("language model unavailable")
	ErrEmptyReply  = errors.New("empty model reply")
)

// Unavailable is the model used when no provider is configured. Callers
// fall back to keyword interpretation.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Invoke(ctx context.Context, prompt string) (string, error) {
	if u.Reason == "" {
		return "", ErrUnavailable
	}
	return "", fmt.Errorf("%w: %s", ErrUnavailable, u.Reason)
}

// Settings selects and configures a provider.
type Settings struct {
	Provider        string
	Model           string
	AnthropicAPIKey string
	GeminiAPIKey    string
}

// New returns the configured model. A provider that cannot be built is
// logged and replaced by Unavailable so the agent keeps working.
func New(ctx context.Context, s Settings) ports.LanguageModel {
	var (
		model ports.LanguageModel
		err   error
	)

	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case ProviderAnthropic, "":
		model, err = NewAnthropicModel(s.AnthropicAPIKey, s.Model)
	case ProviderGemini:
		if strings.TrimSpace(s.GeminiAPIKey) == "" {
			err = errors.New("gemini: GEMINI_API_KEY not set")
			break
		}
		model, err = NewGeminiModel(ctx, s.GeminiAPIKey, s.Model)
	case ProviderNone:
		return Unavailable{Reason: "disabled by configuration"}
	default:
		err = fmt.Errorf("unknown provider %q", s.Provider)
	}

	if err != nil {
		log.Printf("llm: provider=%s unavailable err=%v", s.Provider, err)
		return Unavailable{Reason: err.Error()}
	}
	return model
}

// stripFences removes markdown code fences around a JSON reply.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
