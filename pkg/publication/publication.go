// Package publication aggregates document trees into one publication and
// expands embed references across document boundaries.
//
// # Copy-on-Write
//
// A [Publication] is a value: [Publication.Add], [Publication.Modify] and
// [Publication.WithRoot] return a new publication and leave the receiver
// unchanged. Document trees are shared between publications since they are
// immutable themselves; only the maps holding them are copied.
//
// # Expansion
//
// [Publication.Expand] walks the root document and replaces every embed
// reference with the referenced document, recursively, producing one
// combined outline. The walk keeps the (document, fragment) pairs of the
// current path and fails with CYCLE_DETECTED when a pair repeats, or with
// DEPTH_EXCEEDED when the path grows beyond [MaxDepth]. Transclude
// references are never followed: their content is already inlined.
package publication

import (
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/doctree"
	"github.com/matzehuels/folio/pkg/element"
	"github.com/matzehuels/folio/pkg/errors"
)

// EmbeddedParent marks, in [Publication.Transclusions], that a document is
// also embedded directly.
const EmbeddedParent int64 = -1

// ErrEmpty is returned when expanding a publication without documents.
var ErrEmpty = errors.New(errors.ErrCodeNotFound, "publication has no documents")

// Publication is an immutable set of document trees with a designated root.
type Publication struct {
	rootID        int64
	trees         map[int64]*doctree.Tree
	transclusions map[int64][]int64
	logger        *log.Logger
}

// New returns an empty publication. A nil logger uses log.Default().
func New(logger *log.Logger) *Publication {
	if logger == nil {
		logger = log.Default()
	}
	return &Publication{
		trees:         map[int64]*doctree.Tree{},
		transclusions: map[int64][]int64{},
		logger:        logger,
	}
}

// RootID returns the root document id, or 0 for an empty publication.
func (p *Publication) RootID() int64 { return p.rootID }

// Root returns the root document tree.
func (p *Publication) Root() (*doctree.Tree, bool) { return p.Tree(p.rootID) }

// Tree returns the document tree for id.
func (p *Publication) Tree(id int64) (*doctree.Tree, bool) {
	t, ok := p.trees[id]
	return t, ok
}

// Len returns the number of documents.
func (p *Publication) Len() int { return len(p.trees) }

// IDs returns the document ids in ascending order.
func (p *Publication) IDs() []int64 { return slices.Sorted(maps.Keys(p.trees)) }

// Transclusions returns the documents transcluding id. [EmbeddedParent]
// is included when id is also embedded somewhere.
func (p *Publication) Transclusions(id int64) []int64 {
	return slices.Clone(p.transclusions[id])
}

// Add returns a publication with trees added. A tree whose id is already
// present replaces the old one. Adding to an empty publication makes the
// first tree the root.
func (p *Publication) Add(trees ...*doctree.Tree) *Publication {
	return p.Modify(trees, nil)
}

// Modify returns a publication with the remove ids dropped and the add trees
// added. Removing the root is rejected: it is logged and skipped.
func (p *Publication) Modify(add []*doctree.Tree, remove []int64) *Publication {
	next := p.clone()
	for _, id := range remove {
		if id == next.rootID {
			next.logger.Warn("refusing to remove publication root",
				"code", errors.ErrCodeInvalidRootRemoval, "id", id)
			continue
		}
		delete(next.trees, id)
	}
	for _, t := range add {
		if t == nil {
			continue
		}
		if len(next.trees) == 0 {
			next.rootID = t.ID()
		}
		next.trees[t.ID()] = t
	}
	next.transclusions = indexTransclusions(next.trees)
	return next
}

// WithRoot returns a publication rooted at id.
func (p *Publication) WithRoot(id int64) (*Publication, error) {
	if _, ok := p.trees[id]; !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "document %d is not part of the publication", id)
	}
	next := p.clone()
	next.rootID = id
	return next, nil
}

func (p *Publication) clone() *Publication {
	return &Publication{
		rootID:        p.rootID,
		trees:         maps.Clone(p.trees),
		transclusions: p.transclusions,
		logger:        p.logger,
	}
}

// indexTransclusions maps every reference target to the documents that
// transclude it, plus [EmbeddedParent] when it is embedded.
func indexTransclusions(trees map[int64]*doctree.Tree) map[int64][]int64 {
	out := map[int64][]int64{}
	for _, id := range slices.Sorted(maps.Keys(trees)) {
		for _, ref := range trees[id].References() {
			parent := EmbeddedParent
			if ref.Type == element.Transclude {
				parent = id
			}
			if !slices.Contains(out[ref.TargetID], parent) {
				out[ref.TargetID] = append(out[ref.TargetID], parent)
			}
		}
	}
	return out
}

// MaxAncestorHops bounds the breadth-first search in [Publication.Ancestors].
const MaxAncestorHops = 100

// Ancestors returns the documents from which target can be reached: target
// itself, every document reachable through reverse references and
// transclusion parents, and the root. The search stops after
// [MaxAncestorHops] documents have been visited.
func (p *Publication) Ancestors(target int64) map[int64]bool {
	seen := map[int64]bool{target: true}
	if p.rootID != 0 {
		seen[p.rootID] = true
	}
	queue := []int64{target}
	for hops := 0; len(queue) > 0 && hops < MaxAncestorHops; hops++ {
		id := queue[0]
		queue = queue[1:]

		var next []int64
		if t, ok := p.trees[id]; ok {
			next = t.ReverseReferences()
		}
		for _, parent := range p.transclusions[id] {
			if parent != EmbeddedParent {
				next = append(next, parent)
			}
		}
		for _, n := range next {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}
