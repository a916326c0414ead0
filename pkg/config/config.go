// Package config loads numbering schemes and TOC policy from TOML.
//
// A configuration file looks like:
//
//	[toc]
//	collapse = "auto"
//	visible_indents = [0]
//	visible_block_labels = ["note"]
//
//	[cache]
//	url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[[scheme]]
//	name = "legal"
//	skip = "one"
//	labels = ["contract"]
//
//	  [[scheme.level]]
//	  level = 1
//	  style = "upper-roman"
//	  format = "[I1.]"
//
// Every field is optional. Missing sections fall back to [Default].
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/doctree"
	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/numbering"
	"github.com/matzehuels/folio/pkg/toc"
)

// DefaultCacheTTL is used when the cache section sets no ttl.
const DefaultCacheTTL = 24 * time.Hour

// Cache selects the artifact cache backend. An empty URL means the file
// cache; "none" disables caching.
type Cache struct {
	URL string        `toml:"url"`
	TTL time.Duration `toml:"ttl"`
}

// Config is the decoded configuration file.
type Config struct {
	TOC     toc.Policy         `toml:"toc"`
	Cache   Cache              `toml:"cache"`
	Schemes []numbering.Scheme `toml:"scheme"`
}

// Default returns the configuration used when no file is given: automatic
// title collapse, no visible paragraphs and one decimal scheme.
func Default() *Config {
	return &Config{
		TOC:     toc.Policy{Collapse: doctree.CollapseAuto},
		Cache:   Cache{TTL: DefaultCacheTTL},
		Schemes: []numbering.Scheme{numbering.DefaultScheme()},
	}
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates TOML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Schemes = nil
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if len(cfg.Schemes) == 0 {
		cfg.Schemes = []numbering.Scheme{numbering.DefaultScheme()}
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every scheme and the cache settings.
func (c *Config) Validate() error {
	names := make(map[string]bool, len(c.Schemes))
	for i, s := range c.Schemes {
		if s.Name != "" {
			if names[s.Name] {
				return errors.New(errors.ErrCodeInvalidConfig, "duplicate scheme name %q", s.Name)
			}
			names[s.Name] = true
		}
		if err := s.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "scheme %d (%s)", i+1, s.Name)
		}
	}
	for _, l := range c.TOC.VisibleBlockLabels {
		if err := errors.ValidateBlockLabel(l); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "toc.visible_block_labels")
		}
	}
	for _, n := range c.TOC.VisibleIndents {
		if n < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "toc.visible_indents: negative indent %d", n)
		}
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// Engine returns a numbering engine for the configured schemes.
func (c *Config) Engine(logger *log.Logger) (*numbering.Engine, error) {
	return numbering.NewEngine(c.Schemes, logger)
}
