// Package event defines the structural events a markup parser emits for one
// document. The stream is assumed to be well-formed and in document order;
// package builder turns it into a document tree.
package event

import (
	"time"

	"github.com/matzehuels/folio/pkg/element"
)

// Event is one item of a document's event stream.
type Event interface {
	// Name returns the wire name of the event, e.g. "heading".
	Name() string
}

// DocumentStart opens the stream and identifies the document.
type DocumentStart struct {
	ID       int64
	Title    string
	Labels   string // comma-separated
	Path     string
	Numbered bool // default numbering flag of the document title
}

// FragmentStart opens a fragment. Fragments may nest.
type FragmentStart struct{ ID string }

// FragmentEnd closes the innermost fragment.
type FragmentEnd struct{ ID string }

// Heading is a section heading at an explicit level (1 = top).
type Heading struct {
	Level      int
	Title      string
	Numbered   bool
	Prefix     string
	BlockLabel string
}

// Paragraph is body content attached below the current heading.
type Paragraph struct {
	Indent     int
	Title      string
	Numbered   bool
	Prefix     string
	BlockLabel string
}

// BlockLabelStart opens a labelled block; headings and paragraphs inside it
// inherit the label.
type BlockLabelStart struct{ Label string }

// BlockLabelEnd closes the innermost labelled block.
type BlockLabelEnd struct{ Label string }

// DisplayMode selects the title shown for a reference.
type DisplayMode int

const (
	// DisplayTargetTitle shows the referenced document's title.
	DisplayTargetTitle DisplayMode = iota
	// DisplayManualTitle shows Reference.ManualTitle.
	DisplayManualTitle
)

// Reference links to another document. A transclude reference opens a run
// of already-inlined content that ends with [TransclusionEnd].
type Reference struct {
	TargetID       int64
	Type           element.RefType
	TargetFragment string
	Level          int
	DocumentType   string
	Display        DisplayMode
	ManualTitle    string
}

// TransclusionEnd closes the innermost transclusion.
type TransclusionEnd struct{}

// ReverseReference records that document TargetID links to this document.
type ReverseReference struct {
	TargetID    int64
	ForwardType element.RefType
}

// Placeholder marks a named insertion point such as "toc" or "title".
type Placeholder struct{ Label string }

// LastEdited carries a modification timestamp hint.
type LastEdited struct{ Time time.Time }

func (DocumentStart) Name() string    { return "document-start" }
func (FragmentStart) Name() string    { return "fragment-start" }
func (FragmentEnd) Name() string      { return "fragment-end" }
func (Heading) Name() string          { return "heading" }
func (Paragraph) Name() string        { return "paragraph" }
func (BlockLabelStart) Name() string  { return "block-label-start" }
func (BlockLabelEnd) Name() string    { return "block-label-end" }
func (Reference) Name() string        { return "reference" }
func (TransclusionEnd) Name() string  { return "transclusion-end" }
func (ReverseReference) Name() string { return "reverse-reference" }
func (Placeholder) Name() string      { return "placeholder" }
func (LastEdited) Name() string       { return "last-edited" }

// Placeholder names with structural meaning.
const (
	PlaceholderTOC   = "toc"
	PlaceholderTitle = "title"
)
