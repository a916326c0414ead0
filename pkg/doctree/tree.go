// Package doctree holds the per-document outline produced by the tree
// builder, together with the normalizations applied before a document joins
// a publication.
//
// A [Tree] is created once through a [Builder] and never changes afterwards.
// [Tree.Normalize], [Tree.SingleFragmentTree] and [Tree.RemovePhantoms] each
// return a new tree; the receiver and its parts are left untouched.
package doctree

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/folio/pkg/element"
	"github.com/matzehuels/folio/pkg/part"
)

// Part is the outline node type stored in a tree.
type Part = part.Part[element.Element]

// Tree is the immutable outline of one document.
type Tree struct {
	id     int64
	title  string
	labels string
	path   string
	level  int

	titleFragment string
	prefix        string
	blockLabel    string
	numbered      bool
	lastEdited    time.Time

	reverseReferences []int64
	parts             []Part
	fragmentHeadings  map[string]string
	fragmentLevels    map[string]int
}

// ID returns the document id.
func (t *Tree) ID() int64 { return t.id }

// Title returns the document title.
func (t *Tree) Title() string { return t.title }

// Labels returns the raw comma-separated label string.
func (t *Tree) Labels() string { return t.labels }

// LabelList splits Labels on commas, trimming blanks.
func (t *Tree) LabelList() []string {
	var out []string
	for _, l := range strings.Split(t.labels, ",") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Path returns the document's source path.
func (t *Tree) Path() string { return t.path }

// Level returns the level of the first part.
func (t *Tree) Level() int { return t.level }

// TitleFragment returns the fragment of a collapsed title heading.
func (t *Tree) TitleFragment() string { return t.titleFragment }

// Prefix returns the manual prefix of the document title.
func (t *Tree) Prefix() string { return t.prefix }

// BlockLabel returns the block label of the document title.
func (t *Tree) BlockLabel() string { return t.blockLabel }

// Numbered reports whether the document title takes an automatic number.
func (t *Tree) Numbered() bool { return t.numbered }

// LastEdited returns the last-edited hint, if one was recorded.
func (t *Tree) LastEdited() (time.Time, bool) { return t.lastEdited, !t.lastEdited.IsZero() }

// ReverseReferences returns the ids of documents referencing this one.
func (t *Tree) ReverseReferences() []int64 { return slices.Clone(t.reverseReferences) }

// Parts returns the top-level parts. The slice is shared and must not be
// modified.
func (t *Tree) Parts() []Part { return t.parts }

// IsEmpty reports whether the tree has no parts.
func (t *Tree) IsEmpty() bool { return len(t.parts) == 0 }

// FragmentHeading returns the heading text recorded for fragment.
func (t *Tree) FragmentHeading(fragment string) (string, bool) {
	s, ok := t.fragmentHeadings[fragment]
	return s, ok
}

// FragmentLevel returns the heading level recorded for fragment.
func (t *Tree) FragmentLevel(fragment string) (int, bool) {
	l, ok := t.fragmentLevels[fragment]
	return l, ok
}

// Fragments returns the indexed fragment ids in sorted order.
func (t *Tree) Fragments() []string {
	return slices.Sorted(maps.Keys(t.fragmentLevels))
}

// Headings returns the real headings in document order.
func (t *Tree) Headings() []element.Heading {
	var out []element.Heading
	for _, e := range part.Flatten(t.parts) {
		if h, ok := e.(element.Heading); ok {
			out = append(out, h)
		}
	}
	return out
}

// References returns every reference in document order.
func (t *Tree) References() []element.Reference {
	var out []element.Reference
	for _, e := range part.Flatten(t.parts) {
		if r, ok := e.(element.Reference); ok {
			out = append(out, r)
		}
	}
	return out
}

// ToBuilder returns a builder initialised with a copy of t.
func (t *Tree) ToBuilder() *Builder {
	c := *t
	c.reverseReferences = slices.Clone(t.reverseReferences)
	c.fragmentHeadings = maps.Clone(t.fragmentHeadings)
	c.fragmentLevels = maps.Clone(t.fragmentLevels)
	return &Builder{t: c, levelSet: true}
}

// Builder assembles a [Tree]. A builder must not be used after Build.
type Builder struct {
	t        Tree
	levelSet bool
}

// NewBuilder starts a tree for document id.
func NewBuilder(id int64) *Builder {
	return &Builder{t: Tree{
		id:               id,
		fragmentHeadings: map[string]string{},
		fragmentLevels:   map[string]int{},
	}}
}

func (b *Builder) Title(s string) *Builder         { b.t.title = s; return b }
func (b *Builder) Labels(s string) *Builder        { b.t.labels = s; return b }
func (b *Builder) Path(s string) *Builder          { b.t.path = s; return b }
func (b *Builder) TitleFragment(s string) *Builder { b.t.titleFragment = s; return b }
func (b *Builder) Prefix(s string) *Builder        { b.t.prefix = s; return b }
func (b *Builder) BlockLabel(s string) *Builder    { b.t.blockLabel = s; return b }
func (b *Builder) Numbered(v bool) *Builder        { b.t.numbered = v; return b }
func (b *Builder) LastEdited(ts time.Time) *Builder {
	b.t.lastEdited = ts
	return b
}

// Level sets the level explicitly. Without it, Build takes the level of the
// first part.
func (b *Builder) Level(l int) *Builder {
	b.t.level = l
	b.levelSet = true
	return b
}

// Parts sets the top-level parts.
func (b *Builder) Parts(parts []Part) *Builder {
	b.t.parts = parts
	return b
}

// AddReverseReference records that document id references this one.
// Duplicates are ignored.
func (b *Builder) AddReverseReference(id int64) *Builder {
	if !slices.Contains(b.t.reverseReferences, id) {
		b.t.reverseReferences = append(b.t.reverseReferences, id)
	}
	return b
}

// IndexFragment records the first heading of fragment. Later calls for the
// same fragment are ignored.
func (b *Builder) IndexFragment(fragment, heading string, level int) *Builder {
	if _, ok := b.t.fragmentLevels[fragment]; ok {
		return b
	}
	b.t.fragmentHeadings[fragment] = heading
	b.t.fragmentLevels[fragment] = level
	return b
}

// Build returns the finished tree.
func (b *Builder) Build() *Tree {
	t := b.t
	if len(t.parts) > 0 && !b.levelSet {
		t.level = t.parts[0].Element.Common().Level
	}
	if t.fragmentHeadings == nil {
		t.fragmentHeadings = map[string]string{}
	}
	if t.fragmentLevels == nil {
		t.fragmentLevels = map[string]int{}
	}
	return &t
}
