package config

import (
	"strings"
	"time"
)

// DispatchConfig contains alert fan-out configuration.
type DispatchConfig struct {
	// Concurrency caps parallel sends during one fan-out.
	Concurrency int `env:"CONCURRENCY" envDefault:"4"`

	// HTTPTimeout bounds each HTTP send to a destination.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`

	// RecordPath optionally narrows the alert record with a JMESPath
	// expression before any send.
	RecordPath string `env:"RECORD_PATH"`

	// FunctionBaseURL is the HTTP endpoint prefix for the aws-lambda
	// variant's function invocations. Empty disables the invoker.
	FunctionBaseURL string `env:"FUNCTION_BASE_URL"`
}

// Sanitize applies guardrails to dispatch configuration.
func (c *DispatchConfig) Sanitize() {
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	c.RecordPath = strings.TrimSpace(c.RecordPath)
	c.FunctionBaseURL = strings.TrimSpace(c.FunctionBaseURL)
}
