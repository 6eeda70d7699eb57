package modem

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds Sender settings. Build one with NewConfigBuilder.
type Config struct {
	dialer      Dialer
	logger      *slog.Logger
	stepTimeout time.Duration
}

func (c *Config) validate() error {
	if c.dialer == nil {
		return ErrNoDialer
	}
	if v, ok := c.dialer.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("dialer: %w", err)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
}

// ConfigBuilder assembles a Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder returns an empty builder. A Dialer is mandatory.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithDialer sets how the link to the modem is opened for every send.
func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.dialer = d
	return b
}

// WithLogger sets the logger receiving state transitions and a trace of
// every response classification at debug level.
func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.logger = l
	return b
}

// WithStepTimeout bounds how long each command waits for its reply. Zero,
// the default, waits until the context passed to Send is done.
func (b *ConfigBuilder) WithStepTimeout(d time.Duration) *ConfigBuilder {
	b.config.stepTimeout = d
	return b
}

// Build validates the settings and fills in defaults.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}
