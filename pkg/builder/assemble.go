// Package builder turns a document's linear event stream into a document
// tree.
//
// # Level Reconstruction
//
// Markup only says "this heading is level 4"; it never says what the
// heading is nested in. [Assemble] rebuilds the nesting with a stack of open
// parts whose height is always the current level plus one. When an item
// skips levels, phantoms are pushed for each missing level, so H1 followed
// directly by H4 becomes:
//
//	H1
//	└── phantom (2)
//	    └── phantom (3)
//	        └── H4
//
// Going back up pops the stack. Paragraphs, transclude references and
// sentinels attach below the current top without becoming open parents.
//
// # Arena
//
// Nodes are appended to an arena and refer to their children by index. The
// arena is converted into immutable [part.Part] values once the stream ends,
// so no node ever holds a pointer to its parent.
package builder

import (
	"github.com/matzehuels/folio/pkg/doctree"
	"github.com/matzehuels/folio/pkg/element"
	"github.com/matzehuels/folio/pkg/part"
)

// Item is one element of the assembly input. Level is honoured only for
// elements that open a level (headings and embed references); every other
// element is placed one level below the current top.
type Item struct {
	Element element.Element
	Level   int
}

type arenaNode struct {
	elem     element.Element
	children []int
}

type arena struct {
	nodes []arenaNode
	stack []int
}

func newArena() *arena {
	a := &arena{nodes: []arenaNode{{}}}
	a.stack = []int{0}
	return a
}

func (a *arena) top() int { return a.stack[len(a.stack)-1] }

func (a *arena) attach(e element.Element) int {
	idx := len(a.nodes)
	a.nodes = append(a.nodes, arenaNode{elem: e})
	parent := a.top()
	a.nodes[parent].children = append(a.nodes[parent].children, idx)
	return idx
}

func (a *arena) add(it Item) {
	if !element.OpensLevel(it.Element) {
		a.attach(element.WithLevel(it.Element, len(a.stack)))
		return
	}

	level := max(it.Level, 1)
	for level > len(a.stack) {
		a.stack = append(a.stack, a.attach(element.PhantomAt(len(a.stack))))
	}
	for level < len(a.stack) {
		a.stack = a.stack[:len(a.stack)-1]
	}
	a.stack = append(a.stack, a.attach(element.WithLevel(it.Element, level)))
}

func (a *arena) freeze(idx int) []doctree.Part {
	children := a.nodes[idx].children
	if len(children) == 0 {
		return nil
	}
	out := make([]doctree.Part, len(children))
	for i, c := range children {
		out[i] = part.Part[element.Element]{Element: a.nodes[c].elem, Children: a.freeze(c)}
	}
	return out
}

// Assemble builds the top-level parts for items. Every child in the result
// is exactly one level below its parent; top-level parts are at level 1.
func Assemble(items []Item) []doctree.Part {
	a := newArena()
	for _, it := range items {
		a.add(it)
	}
	a.stack = a.stack[:1]
	return a.freeze(0)
}
