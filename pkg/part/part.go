// Package part provides the n-ary tree used for document outlines.
//
// A [Part] pairs one element with an ordered list of child parts. Parts are
// values: children are stored by value, and every helper in this package
// returns new slices instead of editing its input. A tree produced by the
// tree builder satisfies the level rule checked by [ValidateLevels]: every
// child sits exactly one level below its parent.
package part

import (
	"errors"
	"fmt"

	"github.com/matzehuels/folio/pkg/element"
)

// ErrLevelGap is returned by [ValidateLevels] when a child's level is not
// its parent's level plus one.
var ErrLevelGap = errors.New("child level must be parent level + 1")

// Part is one node of an outline tree.
type Part[E any] struct {
	Element  E
	Children []Part[E]
}

// New creates a part with the given children.
func New[E any](e E, children ...Part[E]) Part[E] {
	return Part[E]{Element: e, Children: children}
}

// IsLeaf reports whether p has no children.
func (p Part[E]) IsLeaf() bool { return len(p.Children) == 0 }

// Walk visits parts in pre-order. depth is 0 for the given parts. Returning
// false from fn skips the part's children.
func Walk[E any](parts []Part[E], fn func(p Part[E], depth int) bool) {
	var visit func([]Part[E], int)
	visit = func(ps []Part[E], depth int) {
		for _, p := range ps {
			if fn(p, depth) {
				visit(p.Children, depth+1)
			}
		}
	}
	visit(parts, 0)
}

// Flatten returns all elements in pre-order.
func Flatten[E any](parts []Part[E]) []E {
	var out []E
	Walk(parts, func(p Part[E], _ int) bool {
		out = append(out, p.Element)
		return true
	})
	return out
}

// Count returns the number of parts in the forest.
func Count[E any](parts []Part[E]) int {
	n := 0
	Walk(parts, func(Part[E], int) bool { n++; return true })
	return n
}

// Map returns a structurally identical forest with fn applied to every
// element.
func Map[E, F any](parts []Part[E], fn func(E) F) []Part[F] {
	if parts == nil {
		return nil
	}
	out := make([]Part[F], len(parts))
	for i, p := range parts {
		out[i] = Part[F]{Element: fn(p.Element), Children: Map(p.Children, fn)}
	}
	return out
}

// Splice removes every part whose element matches drop and puts its
// (recursively spliced) children in its place.
func Splice[E any](parts []Part[E], drop func(E) bool) []Part[E] {
	var out []Part[E]
	for _, p := range parts {
		children := Splice(p.Children, drop)
		if drop(p.Element) {
			out = append(out, children...)
			continue
		}
		out = append(out, Part[E]{Element: p.Element, Children: children})
	}
	return out
}

// Prune removes parts for which keep returns false, together with their
// subtrees. keep sees the part after its children were pruned.
func Prune[E any](parts []Part[E], keep func(Part[E]) bool) []Part[E] {
	var out []Part[E]
	for _, p := range parts {
		q := Part[E]{Element: p.Element, Children: Prune(p.Children, keep)}
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

// ValidateLevels checks that the top-level parts sit at parentLevel+1 and
// that every child is one level below its parent.
func ValidateLevels(parts []Part[element.Element], parentLevel int) error {
	for _, p := range parts {
		level := p.Element.Common().Level
		if level != parentLevel+1 {
			return fmt.Errorf("%w: %s %q at level %d under level %d",
				ErrLevelGap, p.Element.Kind(), p.Element.Common().Title, level, parentLevel)
		}
		if err := ValidateLevels(p.Children, level); err != nil {
			return err
		}
	}
	return nil
}

// Rebase shifts every element in the forest by delta levels.
func Rebase(parts []Part[element.Element], delta int) []Part[element.Element] {
	if delta == 0 {
		return parts
	}
	return Map(parts, func(e element.Element) element.Element { return element.Shift(e, delta) })
}

// RemovePhantoms splices out every phantom.
func RemovePhantoms(parts []Part[element.Element]) []Part[element.Element] {
	return Splice(parts, element.IsPhantom)
}
