// Package config defines client configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors are wrapped with this package's sentinel kinds.
package config

import "time"

// Defaults shared with callers that build clients without loading config.
const (
	DefaultBaseURL       = "http://localhost:8080/jeecg-boot"
	DefaultStreamBaseURL = "http://localhost:8082"
	DefaultModel         = "deepseek-chat"
	DefaultTimeoutMS     = 30_000
	DefaultStubAddr      = ":8082"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// BaseURL is the root of the backend reached through the shared client.
	BaseURL string `koanf:"base_url"`

	// StreamBaseURL is the root used by raw streaming fetches.
	StreamBaseURL string `koanf:"stream_base_url"`

	// TimeoutMS bounds shared-client calls. Streaming fetches ignore it.
	TimeoutMS int `koanf:"timeout_ms"`

	// AccessToken is sent as X-Access-Token when set.
	AccessToken string `koanf:"access_token"`

	// DefaultModel is substituted when a streaming call omits its model.
	DefaultModel string `koanf:"default_model"`

	// StubAddr is the listen address of the stub backend.
	StubAddr string `koanf:"stub_addr"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		BaseURL:       DefaultBaseURL,
		StreamBaseURL: DefaultStreamBaseURL,
		TimeoutMS:     DefaultTimeoutMS,
		DefaultModel:  DefaultModel,
		StubAddr:      DefaultStubAddr,
	}
}

// Timeout returns TimeoutMS as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
