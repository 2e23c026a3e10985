package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lockgraph/pkg/audit"
	"github.com/matzehuels/lockgraph/pkg/errors"
)

// Config is the contents of lockgraph.toml.
type Config struct {
	Resolve ResolveConfig `toml:"resolve"`
	Audit   AuditConfig   `toml:"audit"`
	Render  RenderConfig  `toml:"render"`
}

// ResolveConfig tunes dependency resolution.
type ResolveConfig struct {
	// Strict treats equivalent GitHub references as the same specifier.
	Strict bool `toml:"strict"`
}

// AuditConfig tunes the audit command.
type AuditConfig struct {
	FailuresOK bool     `toml:"failures_ok"`
	Algorithms []string `toml:"algorithms"`
}

// RenderConfig holds defaults for the render command.
type RenderConfig struct {
	ProdOnly bool `toml:"prod_only"`
	Detailed bool `toml:"detailed"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Audit: AuditConfig{Algorithms: append([]string(nil), audit.DefaultAlgorithms...)},
	}
}

// loadConfig reads path, or dir/lockgraph.toml when path is empty. A
// missing default file yields the defaults; a missing explicit file is an
// error.
func loadConfig(dir, path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, configFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if len(cfg.Audit.Algorithms) == 0 {
		cfg.Audit.Algorithms = DefaultConfig().Audit.Algorithms
	}
	return cfg, nil
}
