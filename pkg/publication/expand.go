package publication

import (
	"github.com/matzehuels/folio/pkg/doctree"
	"github.com/matzehuels/folio/pkg/element"
	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/part"
)

// Recursion limits for [Publication.Expand]. MaxDepth counts the documents
// on the current path, the root included.
const (
	MaxDepth  = 50
	WarnDepth = 10
)

// NodeKind classifies expansion nodes.
type NodeKind int

const (
	// NodeRoot is the single root of an expansion.
	NodeRoot NodeKind = iota
	// NodeDocumentRef is an embed reference replaced by its target.
	NodeDocumentRef
	// NodePart is a heading, phantom, unresolved or transclude reference,
	// or sentinel.
	NodePart
	// NodeParagraph is a paragraph.
	NodeParagraph
)

func (k NodeKind) String() string {
	switch k {
	case NodeRoot:
		return "root"
	case NodeDocumentRef:
		return "document-ref"
	case NodeParagraph:
		return "paragraph"
	}
	return "part"
}

// Node is one position in the expanded publication.
type Node struct {
	Kind NodeKind
	// Element is nil for the root and the embed reference for a
	// document-ref. Its level is the absolute level in the expansion.
	Element element.Element
	// DocumentID and Position identify the document occurrence the node
	// belongs to. For a document-ref they describe the embedded target.
	DocumentID int64
	Position   int
	Level      int
	// HostID and HostPosition identify the document occurrence holding the
	// embed reference of a document-ref.
	HostID       int64
	HostPosition int
	// Document is the (possibly fragment-narrowed) tree behind a root or
	// document-ref node.
	Document *doctree.Tree
}

// Expansion is the combined outline of a publication.
type Expansion struct {
	Root        part.Part[Node]
	occurrences map[int64]int
}

// Occurrences returns how often document id was reached during expansion.
func (x *Expansion) Occurrences(id int64) int { return x.occurrences[id] }

// Documents returns the number of distinct documents reached.
func (x *Expansion) Documents() int { return len(x.occurrences) }

// Nodes returns the number of nodes below the root.
func (x *Expansion) Nodes() int { return part.Count(x.Root.Children) }

// Walk visits every node in pre-order, the root included at depth 0.
func (x *Expansion) Walk(fn func(p part.Part[Node], depth int) bool) {
	part.Walk([]part.Part[Node]{x.Root}, fn)
}

// Expand expands the publication from its root document.
func (p *Publication) Expand() (*Expansion, error) {
	if len(p.trees) == 0 {
		return nil, ErrEmpty
	}
	return p.ExpandFrom(p.rootID, "")
}

// ExpandFrom expands the publication starting at document id, narrowed to
// fragment when it is non-empty. Top-level parts of the start document are
// placed at level 1.
func (p *Publication) ExpandFrom(id int64, fragment string) (*Expansion, error) {
	tree, ok := p.trees[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "document %d is not part of the publication", id)
	}
	if fragment != "" {
		tree = tree.SingleFragmentTree(fragment)
	}

	w := &walker{
		pub:         p,
		onPath:      map[errors.Visit]bool{},
		occurrences: map[int64]int{},
	}
	visit := errors.Visit{DocumentID: id, Fragment: fragment}
	w.enter(visit)
	children, err := w.parts(tree.Parts(), 1-topLevel(tree), id, 1)
	if err != nil {
		return nil, err
	}
	return &Expansion{
		Root: part.Part[Node]{
			Element:  Node{Kind: NodeRoot, DocumentID: id, Position: 1, Document: tree},
			Children: children,
		},
		occurrences: w.occurrences,
	}, nil
}

// walker holds the state of one expansion. It is discarded afterwards.
type walker struct {
	pub         *Publication
	path        []errors.Visit
	onPath      map[errors.Visit]bool
	occurrences map[int64]int
	warned      bool
}

func (w *walker) enter(v errors.Visit) int {
	w.path = append(w.path, v)
	w.onPath[v] = true
	w.occurrences[v.DocumentID]++
	return w.occurrences[v.DocumentID]
}

func (w *walker) leave() {
	v := w.path[len(w.path)-1]
	w.path = w.path[:len(w.path)-1]
	delete(w.onPath, v)
}

// guard checks whether v may be entered from the current path.
func (w *walker) guard(v errors.Visit) error {
	chain := append(append([]errors.Visit(nil), w.path...), v)
	if w.onPath[v] {
		return &errors.RecursionError{Code: errors.ErrCodeCycleDetected, Chain: chain}
	}
	if len(chain) > MaxDepth {
		return &errors.RecursionError{Code: errors.ErrCodeDepthExceeded, Chain: chain}
	}
	if len(chain) > WarnDepth && !w.warned {
		w.warned = true
		w.pub.logger.Warn("deeply nested embeds", "depth", len(chain), "document", v.DocumentID)
	}
	return nil
}

func (w *walker) parts(parts []doctree.Part, shift int, docID int64, pos int) ([]part.Part[Node], error) {
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]part.Part[Node], 0, len(parts))
	for _, src := range parts {
		e := element.Shift(src.Element, shift)
		level := e.Common().Level

		n := part.Part[Node]{Element: Node{Kind: NodePart, Element: e, DocumentID: docID, Position: pos, Level: level}}
		if _, ok := e.(element.Paragraph); ok {
			n.Element.Kind = NodeParagraph
		}

		if ref, ok := e.(element.Reference); ok && ref.IsEmbed() {
			embedded, err := w.embed(ref, level, docID, pos)
			if err != nil {
				return nil, err
			}
			if embedded != nil {
				n = *embedded
			}
		}

		own, err := w.parts(src.Children, shift, docID, pos)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, own...)
		out = append(out, n)
	}
	return out, nil
}

// embed expands the target of ref at level. It returns nil when the target
// is not part of the publication.
func (w *walker) embed(ref element.Reference, level int, hostID int64, hostPos int) (*part.Part[Node], error) {
	target, ok := w.pub.trees[ref.TargetID]
	if !ok {
		w.pub.logger.Warn("embed target not found",
			"code", errors.ErrCodeUnresolvedReference, "target", ref.TargetID, "title", ref.Title)
		return nil, nil
	}

	v := errors.Visit{DocumentID: ref.TargetID, Fragment: ref.TargetFragment}
	if err := w.guard(v); err != nil {
		return nil, err
	}
	pos := w.enter(v)
	defer w.leave()

	doc := target
	if ref.TargetFragment != "" {
		doc = target.SingleFragmentTree(ref.TargetFragment)
	}
	children, err := w.parts(doc.Parts(), level+1-topLevel(doc), ref.TargetID, pos)
	if err != nil {
		return nil, err
	}
	return &part.Part[Node]{
		Element: Node{
			Kind:         NodeDocumentRef,
			Element:      ref,
			DocumentID:   ref.TargetID,
			Position:     pos,
			Level:        level,
			HostID:       hostID,
			HostPosition: hostPos,
			Document:     doc,
		},
		Children: children,
	}, nil
}

func topLevel(t *doctree.Tree) int {
	if parts := t.Parts(); len(parts) > 0 {
		return parts[0].Element.Common().Level
	}
	return t.Level()
}
