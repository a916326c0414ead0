package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/folio/pkg/doctree"
	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/numbering"
)

const sample = `
[toc]
collapse = "never"
visible_indents = [0, 1]
visible_block_labels = ["note"]

[cache]
url = "redis://localhost:6379/0"
ttl = "2h"

[[scheme]]
name = "legal"
skip = "one"
labels = ["contract"]

  [[scheme.level]]
  level = 1
  style = "upper-roman"
  format = "[I1.]"

  [[scheme.level]]
  level = 2
  style = "lower-alpha"
  format = "[I1.][a2)]"
  element = "heading"

[[scheme]]
name = "plain"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.TOC.Collapse != doctree.CollapseNever {
		t.Errorf("collapse = %v, want never", cfg.TOC.Collapse)
	}
	if len(cfg.TOC.VisibleIndents) != 2 || cfg.TOC.VisibleBlockLabels[0] != "note" {
		t.Errorf("toc = %+v", cfg.TOC)
	}
	if cfg.Cache.URL != "redis://localhost:6379/0" || cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if len(cfg.Schemes) != 2 {
		t.Fatalf("schemes = %d, want 2", len(cfg.Schemes))
	}
	legal := cfg.Schemes[0]
	if legal.Skip != numbering.One || legal.Labels[0] != "contract" || len(legal.Levels) != 2 {
		t.Errorf("legal = %+v", legal)
	}
	if lv := legal.Levels[1]; lv.Style != numbering.LowerAlpha || lv.Element != numbering.HeadingsOnly {
		t.Errorf("level 2 = %+v", lv)
	}
	if _, err := cfg.Engine(nil); err != nil {
		t.Errorf("Engine() error: %v", err)
	}
}

func TestParsePackageExample(t *testing.T) {
	const example = `
[toc]
collapse = "auto"
visible_indents = [0]
visible_block_labels = ["note"]

[cache]
url = "redis://localhost:6379/0"
ttl = "24h"

[[scheme]]
name = "legal"
skip = "one"
labels = ["contract"]

  [[scheme.level]]
  level = 1
  style = "upper-roman"
  format = "[I1.]"
`
	cfg, err := Parse([]byte(example))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if _, err := cfg.Engine(nil); err != nil {
		t.Errorf("Engine() error: %v", err)
	}
	if _, err := Parse([]byte(`
[[scheme]]
name = "bad"
  [[scheme.level]]
  level = 1
  format = "[I.]"
`)); !errors.Is(err, errors.ErrCodeInvalidFormat) && !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Parse(level-less group) = %v, want a format error", err)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error: %v", err)
	}
	if cfg.TOC.Collapse != doctree.CollapseAuto {
		t.Errorf("collapse = %v, want auto", cfg.TOC.Collapse)
	}
	if len(cfg.Schemes) != 1 || cfg.Schemes[0].Name != "default" {
		t.Errorf("schemes = %+v, want the default scheme", cfg.Schemes)
	}
	if cfg.Cache.TTL != DefaultCacheTTL {
		t.Errorf("ttl = %v, want %v", cfg.Cache.TTL, DefaultCacheTTL)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[toc`},
		{"unknown key", "[toc]\nfoo = 1"},
		{"bad collapse", "[toc]\ncollapse = \"sometimes\""},
		{"bad style", "[[scheme]]\n[[scheme.level]]\nlevel = 1\nstyle = \"greek\""},
		{"bad format", "[[scheme]]\n[[scheme.level]]\nlevel = 1\nformat = \"[1.\""},
		{"level zero", "[[scheme]]\n[[scheme.level]]\nlevel = 0"},
		{"duplicate level", "[[scheme]]\n[[scheme.level]]\nlevel = 1\n[[scheme.level]]\nlevel = 1"},
		{"duplicate name", "[[scheme]]\nname = \"a\"\n[[scheme]]\nname = \"a\""},
		{"bad block label", "[toc]\nvisible_block_labels = [\"1x\"]"},
		{"negative indent", "[toc]\nvisible_indents = [-1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Schemes[0].Name != "legal" {
		t.Errorf("first scheme = %q", cfg.Schemes[0].Name)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}
