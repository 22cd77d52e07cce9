package llm

import (
	"log"
	"time"

	"englishku_backend/internals/configs"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Retry   RetryConfig
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:  configs.GetEnv("OPENAI_API_KEY"),
		BaseURL: configs.GetEnv("OPENAI_BASE_URL"),
		Model:   configs.GetEnv("OPENAI_MODEL", defaultOpenAIModel),
		Timeout: configs.GetEnvDuration("LLM_TIMEOUT_SECONDS", 30*time.Second),
		Retry: RetryConfig{
			MaxAttempts: configs.GetEnvInt("LLM_MAX_ATTEMPTS", 3),
			InitialWait: 500 * time.Millisecond,
			MaxWait:     8 * time.Second,
			Multiplier:  2,
		},
	}
}

// Client bundles what the AI features need: a retrying completion provider,
// a transcriber and the per-call timeout.
type Client struct {
	Provider    Provider
	Transcriber Transcriber
	Timeout     time.Duration
}

// NewClientFromEnv returns nil when OPENAI_API_KEY is missing; AI endpoints
// then answer 503.
func NewClientFromEnv() *Client {
	cfg := ConfigFromEnv()
	p, err := NewOpenAIProvider(cfg)
	if err != nil {
		log.Printf("[WARN] LLM disabled: %v", err)
		return nil
	}
	log.Printf("✅ LLM ready (model=%s)", p.ModelID())
	return &Client{
		Provider:    WithRetry(p, cfg.Retry),
		Transcriber: p,
		Timeout:     cfg.Timeout,
	}
}
