package cli

import (
	"github.com/caarlos0/env/v11"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string `env:"ENCOUNTERLOG_SERVER" envDefault:"http://localhost:8080"`
	Output    string `env:"ENCOUNTERLOG_OUTPUT" envDefault:"text"`
	Verbose   bool
}

// DefaultConfig returns a Config with defaults overridden by the environment
func DefaultConfig() *Config {
	c, err := env.ParseAs[Config]()
	if err != nil {
		// Malformed variables fall back to the built-in defaults
		return &Config{ServerURL: "http://localhost:8080", Output: "text"}
	}
	return &c
}
