// Package shellconfig loads the shell's environment-driven
// configuration plus an optional YAML override file for bounds the
// environment doesn't carry (discovery cap/timeout, validator
// [min,max] bounds).
package shellconfig

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ncsh/ncsh/internal/discovery"
	"github.com/ncsh/ncsh/internal/ncshlog"
	"github.com/ncsh/ncsh/internal/shellerr"
)

// DefaultLibexec and DefaultSysconf are the compile-time defaults
// $DEVICE_LIBEXEC/$DEVICE_SYSCONF fall back to when unset.
const (
	DefaultLibexec = "/usr/libexec/ncsh"
	DefaultSysconf = "/etc/ncsh"
)

// Overrides is the optional ncsh.yaml shape: bounds the source hardcodes
// but that an operator may reasonably want to tune per-install.
type Overrides struct {
	Discovery struct {
		CompletionCap int `yaml:"completion_cap"`
		TimeoutSecs   int `yaml:"timeout_seconds"`
	} `yaml:"discovery"`
	Bytes struct {
		Min *int64 `yaml:"min"`
		Max *int64 `yaml:"max"`
	} `yaml:"bytes"`
	SQLIdentifier struct {
		Min *int `yaml:"min"`
		Max *int `yaml:"max"`
	} `yaml:"sql_identifier"`
}

// Config is the fully-resolved configuration: environment values plus
// any YAML overrides layered on top.
type Config struct {
	Libexec   string
	Sysconf   string
	Editline  string
	Pathext   string
	Overrides Overrides
}

// Load reads the environment and, if present, "$DEVICE_SYSCONF/ncsh.yaml".
// A missing override file is not an error: the shell runs on
// environment-only defaults, matching the source's "config file is
// optional" posture. An override file that exists but cannot be read or
// parsed is an error.
func Load() (Config, error) {
	cfg := Config{
		Libexec:  envOrDefault("DEVICE_LIBEXEC", DefaultLibexec),
		Sysconf:  envOrDefault("DEVICE_SYSCONF", DefaultSysconf),
		Editline: os.Getenv("DEVICE_EDITLINE"),
		Pathext:  os.Getenv("PATHEXT"),
	}

	path := filepath.Join(cfg.Sysconf, "ncsh.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, shellerr.IOFailure("reading "+path, err)
	}

	var overrides Overrides
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return cfg, shellerr.Wrap(shellerr.KindInvalid, "parsing "+path, err)
	}
	ncshlog.For("shellconfig").WithField("path", path).Debug("loaded overrides")
	cfg.Overrides = overrides
	return cfg, nil
}

// DiscoveryOptions layers the YAML overrides (if any) on top of
// discovery.DefaultOptions, per the Open Question decision recorded in
// DESIGN.md that the discovery cap/timeout are "overridable via
// internal/shellconfig".
func (c Config) DiscoveryOptions() discovery.Options {
	opts := discovery.DefaultOptions()
	if c.Overrides.Discovery.CompletionCap > 0 {
		opts.CompletionCap = c.Overrides.Discovery.CompletionCap
	}
	if c.Overrides.Discovery.TimeoutSecs > 0 {
		opts.Timeout = time.Duration(c.Overrides.Discovery.TimeoutSecs) * time.Second
	}
	return opts
}

func envOrDefault(name, def string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return def
}
