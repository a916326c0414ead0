package element

import "fmt"

// Kind identifies the concrete type of an [Element].
type Kind int

const (
	KindHeading Kind = iota
	KindParagraph
	KindReference
	KindPhantom
	KindDocumentTitle
	KindTocMarker
	KindTransclusionBoundary
)

var kindNames = [...]string{
	KindHeading:              "heading",
	KindParagraph:            "paragraph",
	KindReference:            "reference",
	KindPhantom:              "phantom",
	KindDocumentTitle:        "document-title",
	KindTocMarker:            "toc-marker",
	KindTransclusionBoundary: "transclusion-boundary",
}

// String returns the kind name used in logs and serialized output.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Base holds the fields shared by every element.
type Base struct {
	Level            int
	Title            string // empty when absent
	Fragment         string // fragment the element is rendered in
	OriginalFragment string // fragment the element was authored in
}

// Common returns the shared fields.
func (b Base) Common() Base { return b }

// Element is a structural node. The set of implementations is closed.
type Element interface {
	Kind() Kind
	Common() Base
	withBase(Base) Element
}

// Heading is a section heading.
type Heading struct {
	Base
	Index       int    // 1-based occurrence within OriginalFragment
	SourceIndex int    // occurrence within the transcluded source, 0 outside transclusions
	Numbered    bool   // receives an automatic number
	Prefix      string // manual prefix, used when not Numbered
	BlockLabel  string // independent numbering sequence, empty for the default
}

func (Heading) Kind() Kind                { return KindHeading }
func (h Heading) withBase(b Base) Element { h.Base = b; return h }

// Paragraph is body content that can be numbered or listed in a TOC.
type Paragraph struct {
	Base
	Index       int
	SourceIndex int
	Numbered    bool
	Prefix      string
	BlockLabel  string
	Indent      int // nesting depth below the enclosing heading, drives numbering level
}

func (Paragraph) Kind() Kind                { return KindParagraph }
func (p Paragraph) withBase(b Base) Element { p.Base = b; return p }

// RefType distinguishes the two cross-document reference kinds.
type RefType int

const (
	// Embed renders the target as if nested inline; expanded recursively.
	Embed RefType = iota
	// Transclude marks content that was already inlined upstream.
	Transclude
)

// String returns "embed" or "transclude".
func (t RefType) String() string {
	if t == Transclude {
		return "transclude"
	}
	return "embed"
}

// ParseRefType parses "embed" or "transclude".
func ParseRefType(s string) (RefType, error) {
	switch s {
	case "embed", "":
		return Embed, nil
	case "transclude":
		return Transclude, nil
	}
	return Embed, fmt.Errorf("unknown reference type %q", s)
}

// Reference links to another document.
type Reference struct {
	Base
	Index          int
	SourceIndex    int
	TargetID       int64
	Type           RefType
	TargetFragment string // empty for the whole document
	DocumentType   string
	UseTargetTitle bool // show the target's title instead of Title
}

func (Reference) Kind() Kind                { return KindReference }
func (r Reference) withBase(b Base) Element { r.Base = b; return r }

// IsEmbed reports whether the reference is expanded recursively.
func (r Reference) IsEmbed() bool { return r.Type == Embed }

// Phantom fills a skipped level. It never has a title.
type Phantom struct {
	Base
}

func (Phantom) Kind() Kind { return KindPhantom }
func (p Phantom) withBase(b Base) Element {
	b.Title = ""
	p.Base = b
	return p
}

// DocumentTitle marks where the document title is placed.
type DocumentTitle struct{ Base }

func (DocumentTitle) Kind() Kind                { return KindDocumentTitle }
func (d DocumentTitle) withBase(b Base) Element { d.Base = b; return d }

// TocMarker marks where a table of contents is placed.
type TocMarker struct{ Base }

func (TocMarker) Kind() Kind                { return KindTocMarker }
func (m TocMarker) withBase(b Base) Element { m.Base = b; return m }

// TransclusionBoundary closes a run of transcluded content.
type TransclusionBoundary struct{ Base }

func (TransclusionBoundary) Kind() Kind                { return KindTransclusionBoundary }
func (t TransclusionBoundary) withBase(b Base) Element { t.Base = b; return t }

// phantomCache interns fragment-less phantoms for common levels.
var phantomCache = func() [32]Phantom {
	var c [32]Phantom
	for i := range c {
		c[i] = Phantom{Base: Base{Level: i}}
	}
	return c
}()

// PhantomAt returns the phantom for level. Phantoms are compared by value,
// so two phantoms at the same level without fragment identity are equal.
func PhantomAt(level int) Phantom {
	if level >= 0 && level < len(phantomCache) {
		return phantomCache[level]
	}
	return Phantom{Base: Base{Level: level}}
}

// PhantomFor returns a phantom standing in for e: same level and fragment
// identity, no title.
func PhantomFor(e Element) Phantom {
	b := e.Common()
	if b.Fragment == "" && b.OriginalFragment == "" {
		return PhantomAt(b.Level)
	}
	return Phantom{Base: Base{Level: b.Level, Fragment: b.Fragment, OriginalFragment: b.OriginalFragment}}
}

// WithLevel returns a copy of e at level.
func WithLevel(e Element, level int) Element {
	b := e.Common()
	b.Level = level
	return e.withBase(b)
}

// Shift returns a copy of e moved by delta levels.
func Shift(e Element, delta int) Element {
	if delta == 0 {
		return e
	}
	return WithLevel(e, e.Common().Level+delta)
}

// WithFragment returns a copy of e rendered in fragment. The original
// fragment is kept.
func WithFragment(e Element, fragment string) Element {
	b := e.Common()
	b.Fragment = fragment
	return e.withBase(b)
}

// WithTitle returns a copy of e with title. Phantoms stay untitled.
func WithTitle(e Element, title string) Element {
	b := e.Common()
	b.Title = title
	return e.withBase(b)
}

// IsPhantom reports whether e is a phantom.
func IsPhantom(e Element) bool { return e != nil && e.Kind() == KindPhantom }

// IsSentinel reports whether e is a structural-only leaf.
func IsSentinel(e Element) bool {
	switch e.Kind() {
	case KindDocumentTitle, KindTocMarker, KindTransclusionBoundary:
		return true
	}
	return false
}

// OpensLevel reports whether e becomes an open parent in a level stack.
// Headings, phantoms and embed references do; everything else is a leaf.
func OpensLevel(e Element) bool {
	switch v := e.(type) {
	case Heading, Phantom:
		return true
	case Reference:
		return v.IsEmbed()
	}
	return false
}
