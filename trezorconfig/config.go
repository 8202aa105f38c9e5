// Package trezorconfig loads the small set of options that tune transport
// behavior (currently just the read timeout) from an optional YAML file,
// layered over built-in defaults the way the rest of the ecosystem's
// koanf-based services do.
package trezorconfig

import (
	"errors"
	"os"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"

	"github.com/go-trezor/trezor/link"
)

// Config is the set of user-tunable knobs. Fields are seconds, not
// time.Duration, so they round-trip through YAML without a decode hook.
type Config struct {
	ReadTimeoutSeconds int `koanf:"read_timeout_seconds"`
}

// ReadTimeout is the configured read timeout as a time.Duration.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// Default returns the built-in configuration, matching link.DefaultReadTimeout.
func Default() Config {
	return Config{ReadTimeoutSeconds: int(link.DefaultReadTimeout / time.Second)}
}

// Load builds a Config from Default, overlaid with path if it exists. A
// missing file is not an error; Load just returns the defaults.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
