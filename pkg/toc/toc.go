// Package toc turns a numbered publication expansion into a table of
// contents.
//
// [Build] produces an [Entry] tree mirroring the expansion: the root becomes
// a "publication-tree" entry, embedded documents "document-ref" entries,
// headings "part" entries, visible paragraphs "para-ref" entries, and
// phantoms "phantom" entries. Sentinels and transclusion markers are left
// out, as are phantoms with nothing visible below them.
//
// The entry tree can be written as XML ([WriteXML]), JSON ([WriteJSON]) or
// indented text ([WriteText]). [ToDOT] and [RenderSVG] draw the reference
// graph between the publication's documents.
package toc

import (
	"slices"

	"github.com/matzehuels/folio/pkg/doctree"
	"github.com/matzehuels/folio/pkg/element"
	"github.com/matzehuels/folio/pkg/numbering"
	"github.com/matzehuels/folio/pkg/part"
	"github.com/matzehuels/folio/pkg/publication"
)

// Entry kinds, also used as XML element names.
const (
	KindPublication = "publication-tree"
	KindPart        = "part"
	KindDocumentRef = "document-ref"
	KindParaRef     = "para-ref"
	KindPhantom     = "phantom"
)

// Policy controls which content the table of contents shows.
type Policy struct {
	Collapse           doctree.CollapseMode `toml:"collapse" json:"collapse"`
	VisibleIndents     []int                `toml:"visible_indents" json:"visible_indents,omitempty"`
	VisibleBlockLabels []string             `toml:"visible_block_labels" json:"visible_block_labels,omitempty"`
}

// ParagraphVisible reports whether p is listed: its indent or its block
// label must be configured as visible.
func (pol Policy) ParagraphVisible(p element.Paragraph) bool {
	if slices.Contains(pol.VisibleIndents, p.Indent) {
		return true
	}
	return p.BlockLabel != "" && slices.Contains(pol.VisibleBlockLabels, p.BlockLabel)
}

// Entry is one line of the table of contents.
type Entry struct {
	Kind         string   `json:"kind"`
	Level        int      `json:"level"`
	Title        string   `json:"title,omitempty"`
	ID           int64    `json:"id,omitempty"`
	Position     int      `json:"position,omitempty"`
	Fragment     string   `json:"fragment,omitempty"`
	Prefix       string   `json:"prefix,omitempty"`
	Canonical    string   `json:"canonical,omitempty"`
	ParentNumber string   `json:"parent_number,omitempty"`
	Children     []*Entry `json:"children,omitempty"`
}

// Count returns the number of entries below e.
func (e *Entry) Count() int {
	n := 0
	for _, c := range e.Children {
		n += 1 + c.Count()
	}
	return n
}

// Options configures [Build].
type Options struct {
	// Target, when non-zero, bounds the output to the documents from which
	// Target can be reached. Embedded documents outside that set are left
	// out with everything below them.
	Target int64
}

type expPart = part.Part[publication.Node]

// Build assembles the table of contents of exp. res may be nil, in which
// case no prefixes are shown.
func Build(pub *publication.Publication, exp *publication.Expansion, res *numbering.Result, policy Policy, opts Options) *Entry {
	b := &tocBuilder{res: res, policy: policy}
	if opts.Target != 0 && pub != nil {
		b.allowed = pub.Ancestors(opts.Target)
	}

	root := exp.Root.Element
	top := &Entry{
		Kind:     KindPublication,
		Title:    root.Document.Title(),
		ID:       root.DocumentID,
		Position: root.Position,
		Fragment: root.Document.TitleFragment(),
	}
	b.applyPrefix(top, numbering.TitleKey(root.DocumentID, root.Position))
	top.Children = b.children(exp.Root.Children)
	return top
}

type tocBuilder struct {
	res     *numbering.Result
	policy  Policy
	allowed map[int64]bool
}

func (b *tocBuilder) applyPrefix(e *Entry, k numbering.Key) {
	if b.res == nil {
		return
	}
	if p, ok := b.res.Prefix(k); ok {
		e.Prefix = p.Value
		e.Canonical = p.Canonical
		e.ParentNumber = p.ParentNumber
	}
}

func (b *tocBuilder) children(parts []expPart) []*Entry {
	var out []*Entry
	for _, p := range parts {
		out = append(out, b.entries(p)...)
	}
	return out
}

// entries returns the entries for p: one entry, none, or the entries of
// p's children when p itself is not listed.
func (b *tocBuilder) entries(p expPart) []*Entry {
	n := p.Element
	if n.Kind == publication.NodeDocumentRef {
		if b.allowed != nil && !b.allowed[n.DocumentID] {
			return nil
		}
		return []*Entry{b.documentRef(p)}
	}

	var e *Entry
	element.Switch(n.Element, element.Cases{
		Heading: func(h element.Heading) {
			e = b.entry(KindPart, n, h.Title)
		},
		Paragraph: func(para element.Paragraph) {
			if b.policy.ParagraphVisible(para) {
				e = b.entry(KindParaRef, n, para.Title)
			}
		},
		Reference: func(ref element.Reference) {
			if ref.IsEmbed() {
				e = b.entry(KindPart, n, ref.Title)
			}
		},
		Phantom: func(element.Phantom) {
			e = &Entry{Kind: KindPhantom, Level: n.Level, ID: n.DocumentID, Position: n.Position}
		},
		Default: func(element.Element) {},
	})

	children := b.children(p.Children)
	switch {
	case e == nil:
		return children
	case e.Kind == KindPhantom && len(children) == 0:
		return nil
	}
	e.Children = children
	return []*Entry{e}
}

func (b *tocBuilder) entry(kind string, n publication.Node, title string) *Entry {
	e := &Entry{
		Kind:     kind,
		Level:    n.Level,
		Title:    title,
		ID:       n.DocumentID,
		Position: n.Position,
		Fragment: n.Element.Common().Fragment,
	}
	b.applyPrefix(e, numbering.ElementKey(n.DocumentID, n.Position, n.Element))
	return e
}

func (b *tocBuilder) documentRef(p expPart) *Entry {
	n := p.Element
	ref := n.Element.(element.Reference)
	title := ref.Title
	if ref.UseTargetTitle || title == "" {
		title = n.Document.Title()
	}
	e := &Entry{
		Kind:     KindDocumentRef,
		Level:    n.Level,
		Title:    title,
		ID:       n.DocumentID,
		Position: n.Position,
		Fragment: ref.TargetFragment,
	}
	b.applyPrefix(e, numbering.ElementKey(n.HostID, n.HostPosition, ref))
	e.Children = b.children(p.Children)
	return e
}
