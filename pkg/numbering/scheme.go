package numbering

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/folio/pkg/errors"
)

// SkipPolicy decides what a skipped level contributes to a counter path.
type SkipPolicy int

const (
	// Strip pads with 0 and drops the level from rendered labels.
	Strip SkipPolicy = iota
	// Zero pads with 0 and renders it.
	Zero
	// One pads with 1 and renders it.
	One
)

func (p SkipPolicy) String() string {
	switch p {
	case Zero:
		return "zero"
	case One:
		return "one"
	}
	return "strip"
}

// ParseSkipPolicy parses "strip", "zero" or "one".
func ParseSkipPolicy(s string) (SkipPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strip", "":
		return Strip, nil
	case "zero":
		return Zero, nil
	case "one":
		return One, nil
	}
	return Strip, fmt.Errorf("unknown skip policy %q", s)
}

func (p *SkipPolicy) UnmarshalText(text []byte) error {
	v, err := ParseSkipPolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p SkipPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// ElementFilter restricts a level format to headings or paragraphs.
// References and embedded document titles count as headings.
type ElementFilter int

const (
	AnyElement ElementFilter = iota
	HeadingsOnly
	ParagraphsOnly
)

func (f ElementFilter) String() string {
	switch f {
	case HeadingsOnly:
		return "heading"
	case ParagraphsOnly:
		return "paragraph"
	}
	return "any"
}

// ParseElementFilter parses "any", "heading" or "paragraph".
func ParseElementFilter(s string) (ElementFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any", "":
		return AnyElement, nil
	case "heading":
		return HeadingsOnly, nil
	case "paragraph":
		return ParagraphsOnly, nil
	}
	return AnyElement, fmt.Errorf("unknown element filter %q", s)
}

func (f *ElementFilter) UnmarshalText(text []byte) error {
	v, err := ParseElementFilter(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f ElementFilter) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// accepts reports whether an entry restricted to f applies to kind. Asking
// with AnyElement matches every entry.
func (f ElementFilter) accepts(kind ElementFilter) bool {
	return f == AnyElement || kind == AnyElement || f == kind
}

// LevelFormat configures one level of a scheme.
type LevelFormat struct {
	Level      int           `toml:"level" json:"level"`
	Style      NumeralStyle  `toml:"style" json:"style"`
	Format     string        `toml:"format" json:"format,omitempty"`
	BlockLabel string        `toml:"block_label" json:"block_label,omitempty"`
	Element    ElementFilter `toml:"element" json:"element"`
}

// Scheme is a named numbering scheme. Labels restricts it to documents
// carrying at least one of the labels; an empty list applies everywhere.
type Scheme struct {
	Name   string        `toml:"name" json:"name"`
	Skip   SkipPolicy    `toml:"skip" json:"skip"`
	Labels []string      `toml:"labels" json:"labels,omitempty"`
	Levels []LevelFormat `toml:"level" json:"levels"`
}

// DefaultScheme numbers every level in decimal, "1.2.3.", stripping
// skipped levels.
func DefaultScheme() Scheme {
	return Scheme{Name: "default", Skip: Strip}
}

// Validate checks the scheme's level table.
func (s Scheme) Validate() error {
	_, err := compileScheme(s)
	return err
}

type compiledLevel struct {
	LevelFormat
	format *Format
}

type compiledScheme struct {
	Scheme
	levels []compiledLevel
}

func compileScheme(s Scheme) (*compiledScheme, error) {
	cs := &compiledScheme{Scheme: s}
	type entryKey struct {
		level      int
		blockLabel string
		element    ElementFilter
	}
	seen := map[entryKey]bool{}
	for _, lf := range s.Levels {
		if lf.Level < 1 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "scheme %q: level %d must be >= 1", s.Name, lf.Level)
		}
		if lf.BlockLabel != "" {
			if err := errors.ValidateBlockLabel(lf.BlockLabel); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "scheme %q", s.Name)
			}
		}
		k := entryKey{lf.Level, lf.BlockLabel, lf.Element}
		if seen[k] {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"scheme %q: duplicate entry for level %d block label %q element %s", s.Name, lf.Level, lf.BlockLabel, lf.Element)
		}
		seen[k] = true

		f := implicitFormat(lf.Level)
		if lf.Format != "" {
			var err error
			if f, err = CompileFormat(lf.Format); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "scheme %q level %d", s.Name, lf.Level)
			}
		}
		cs.levels = append(cs.levels, compiledLevel{LevelFormat: lf, format: f})
	}
	return cs, nil
}

// appliesTo reports whether the scheme's label filter matches labels.
func (s *compiledScheme) appliesTo(labels []string) bool {
	if len(s.Labels) == 0 {
		return true
	}
	for _, l := range labels {
		if slices.Contains(s.Labels, l) {
			return true
		}
	}
	return false
}

// entry returns the level format for (level, blockLabel, kind).
func (s *compiledScheme) entry(level int, blockLabel string, kind ElementFilter) (*compiledLevel, bool) {
	for i := range s.levels {
		l := &s.levels[i]
		if l.Level == level && l.BlockLabel == blockLabel && l.Element.accepts(kind) {
			return l, true
		}
	}
	return nil, false
}

// styleFor returns the configured style of level, decimal when the scheme
// has no entry for it.
func (s *compiledScheme) styleFor(level int, blockLabel string, kind ElementFilter) NumeralStyle {
	if l, ok := s.entry(level, blockLabel, kind); ok {
		return l.Style
	}
	return Decimal
}
