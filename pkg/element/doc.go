// Package element defines the structural nodes of a document outline.
//
// # Overview
//
// A document reaches Folio as a flat stream of headings, paragraphs and
// references. Each of those becomes an [Element]: a small immutable value
// carrying a level, an optional title and its fragment identity. The set of
// element types is closed:
//
//   - [Heading]: a titled section, optionally numbered or manually prefixed
//   - [Paragraph]: numbered or indented body content that may show in a TOC
//   - [Reference]: an embed or transclude link to another document
//   - [Phantom]: a titleless filler for a skipped level
//   - [DocumentTitle], [TocMarker], [TransclusionBoundary]: structural sentinels
//
// The interface has an unexported method, so no type outside this package
// can implement it. Code that dispatches on the element type should use
// [Switch], which fails loudly when a case is missing instead of silently
// ignoring a new variant.
//
// # Fragments
//
// Every element records two fragment ids. Fragment is where the element is
// rendered; OriginalFragment is where it was authored. They differ only for
// transcluded content, which is inlined into a host fragment upstream.
//
// # Immutability
//
// Elements are plain values. The With* helpers return modified copies and
// never touch the receiver, so elements can be shared freely between trees.
package element
