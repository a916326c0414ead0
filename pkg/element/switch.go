package element

import "fmt"

// Cases holds one handler per element type. Pass it to [Switch].
// A nil handler for a type that is actually encountered panics, which keeps
// dispatch exhaustive for the inputs a caller really sees. Use Default to
// opt out of that check.
type Cases struct {
	Heading              func(Heading)
	Paragraph            func(Paragraph)
	Reference            func(Reference)
	Phantom              func(Phantom)
	DocumentTitle        func(DocumentTitle)
	TocMarker            func(TocMarker)
	TransclusionBoundary func(TransclusionBoundary)
	Default              func(Element)
}

// Switch calls the handler in c matching the dynamic type of e.
func Switch(e Element, c Cases) {
	switch v := e.(type) {
	case Heading:
		if c.Heading != nil {
			c.Heading(v)
			return
		}
	case Paragraph:
		if c.Paragraph != nil {
			c.Paragraph(v)
			return
		}
	case Reference:
		if c.Reference != nil {
			c.Reference(v)
			return
		}
	case Phantom:
		if c.Phantom != nil {
			c.Phantom(v)
			return
		}
	case DocumentTitle:
		if c.DocumentTitle != nil {
			c.DocumentTitle(v)
			return
		}
	case TocMarker:
		if c.TocMarker != nil {
			c.TocMarker(v)
			return
		}
	case TransclusionBoundary:
		if c.TransclusionBoundary != nil {
			c.TransclusionBoundary(v)
			return
		}
	default:
		panic(fmt.Sprintf("element: unknown element type %T", e))
	}
	if c.Default == nil {
		panic(fmt.Sprintf("element: no case for %s", e.Kind()))
	}
	c.Default(e)
}

// Numbering returns the numbering attributes of e: whether it is numbered,
// its manual prefix and its block label. Only headings and paragraphs carry
// them; every other kind reports zero values.
func Numbering(e Element) (numbered bool, prefix, blockLabel string) {
	switch v := e.(type) {
	case Heading:
		return v.Numbered, v.Prefix, v.BlockLabel
	case Paragraph:
		return v.Numbered, v.Prefix, v.BlockLabel
	}
	return false, "", ""
}

// IndexOf returns the fragment occurrence index of e, or 0 for kinds that
// have none.
func IndexOf(e Element) int {
	switch v := e.(type) {
	case Heading:
		return v.Index
	case Paragraph:
		return v.Index
	case Reference:
		return v.Index
	}
	return 0
}

// SourceIndexOf returns the index of e within the document it was
// transcluded from, falling back to [IndexOf] for content authored in place.
func SourceIndexOf(e Element) int {
	var i int
	switch v := e.(type) {
	case Heading:
		i = v.SourceIndex
	case Paragraph:
		i = v.SourceIndex
	case Reference:
		i = v.SourceIndex
	}
	if i > 0 {
		return i
	}
	return IndexOf(e)
}
