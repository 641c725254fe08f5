// Package config loads interpreter settings from YAML.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no path is given.
const EnvVar = "MLOX_CONFIG"

type Config struct {
	// Prompt is printed before each REPL line.
	Prompt string `yaml:"prompt"`
	// Color is one of auto, always, never.
	Color string `yaml:"color"`
	// Echo prints the value of bare expression statements in the REPL.
	Echo bool `yaml:"echo"`
	// Debug turns on phase and statement tracing on stderr.
	Debug bool `yaml:"debug"`
	// Banner is shown when the REPL starts on a terminal.
	Banner string `yaml:"banner"`
}

func Default() Config {
	return Config{
		Prompt: "> ",
		Color:  "auto",
		Echo:   true,
		Banner: "mlox REPL | type 'exit' to quit",
	}
}

// Load reads path, or the file named by $MLOX_CONFIG when path is empty.
// With neither, it returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default(). Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return errors.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	return nil
}
