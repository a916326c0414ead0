package doctree

import (
	"fmt"
	"strings"

	"github.com/matzehuels/folio/pkg/element"
	"github.com/matzehuels/folio/pkg/part"
)

// CollapseMode controls when a lone top-level heading is folded into the
// document title.
type CollapseMode int

const (
	// CollapseAuto collapses when the heading repeats the document title.
	CollapseAuto CollapseMode = iota
	// CollapseAlways collapses any lone top-level heading.
	CollapseAlways
	// CollapseNever only unwraps phantoms.
	CollapseNever
)

// String returns the config spelling of the mode.
func (m CollapseMode) String() string {
	switch m {
	case CollapseAlways:
		return "always"
	case CollapseNever:
		return "never"
	}
	return "auto"
}

// ParseCollapseMode parses "always", "auto" or "never".
func ParseCollapseMode(s string) (CollapseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return CollapseAuto, nil
	case "always":
		return CollapseAlways, nil
	case "never":
		return CollapseNever, nil
	}
	return CollapseAuto, fmt.Errorf("unknown collapse mode %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *CollapseMode) UnmarshalText(text []byte) error {
	v, err := ParseCollapseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m CollapseMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Normalize unwraps untitled phantom roots and, depending on mode, folds a
// lone top-level heading into the document title. The heading's children
// become the new top-level parts and its title, prefix, numbering flag,
// block label and fragment move onto the tree.
func (t *Tree) Normalize(mode CollapseMode) *Tree {
	parts := unwrapPhantoms(t.parts)
	b := t.ToBuilder()
	fallback := t.level

	if mode != CollapseNever && len(parts) == 1 {
		if h, ok := parts[0].Element.(element.Heading); ok && (mode == CollapseAlways || titleMatches(h, t.title)) {
			if h.Title != "" {
				b.Title(h.Title)
			}
			b.Prefix(h.Prefix).
				Numbered(h.Numbered).
				BlockLabel(h.BlockLabel).
				TitleFragment(h.Fragment)
			fallback = h.Level + 1
			parts = unwrapPhantoms(parts[0].Children)
		}
	}

	b.Parts(parts).Level(levelOf(parts, fallback))
	return b.Build()
}

// SingleFragmentTree keeps only the parts authored in fragment. Ancestors
// of kept parts that belong to other fragments become phantoms, preserving
// depth; everything else is dropped. The result is phantom-unwrapped. A
// fragment that does not occur yields a tree without parts.
func (t *Tree) SingleFragmentTree(fragment string) *Tree {
	parts := unwrapPhantoms(filterFragment(t.parts, fragment))
	b := t.ToBuilder().TitleFragment(fragment)
	if heading, ok := t.FragmentHeading(fragment); ok && heading != "" {
		b.Title(heading)
	}
	fallback := t.level
	if l, ok := t.FragmentLevel(fragment); ok {
		fallback = l
	}
	return b.Parts(parts).Level(levelOf(parts, fallback)).Build()
}

// RemovePhantoms splices every phantom out of the tree. The result no
// longer satisfies the level rule; it is meant for rendering and checks on
// the order of real elements.
func (t *Tree) RemovePhantoms() *Tree {
	parts := part.RemovePhantoms(t.parts)
	return t.ToBuilder().Parts(parts).Level(levelOf(parts, t.level)).Build()
}

func filterFragment(parts []Part, fragment string) []Part {
	var out []Part
	for _, p := range parts {
		children := filterFragment(p.Children, fragment)
		switch {
		case p.Element.Common().OriginalFragment == fragment:
			out = append(out, Part{Element: p.Element, Children: children})
		case len(children) > 0:
			out = append(out, Part{Element: element.PhantomFor(p.Element), Children: children})
		}
	}
	return out
}

func unwrapPhantoms(parts []Part) []Part {
	for len(parts) == 1 && element.IsPhantom(parts[0].Element) && parts[0].Element.Common().Title == "" {
		parts = parts[0].Children
	}
	return parts
}

func levelOf(parts []Part, fallback int) int {
	if len(parts) == 0 {
		return fallback
	}
	return parts[0].Element.Common().Level
}

func titleMatches(h element.Heading, docTitle string) bool {
	want := strings.TrimSpace(docTitle)
	if want == "" {
		return false
	}
	if strings.TrimSpace(h.Title) == want {
		return true
	}
	return h.Prefix != "" && strings.TrimSpace(h.Prefix+" "+h.Title) == want
}
