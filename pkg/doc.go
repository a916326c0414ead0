// Package pkg provides the core libraries for folio, the structural modeling
// and numbering engine for cross-document publishing.
//
// # Overview
//
// A publication is a set of documents that embed and transclude each other.
// Folio turns each document's event stream into a tree of parts, assembles
// the trees into an immutable publication, expands it from its root and
// numbers every heading and paragraph under configurable schemes.
//
// # Architecture
//
// The typical data flow through folio:
//
//	Event stream (JSON)
//	         ↓
//	    [io] package (decode events)
//	         ↓
//	    [builder] package (one [doctree] tree per document)
//	         ↓
//	    [publication] package (set of trees, expansion from the root)
//	         ↓
//	    [numbering] package (prefixes keyed by occurrence)
//	         ↓
//	    [toc] package (XML, JSON, text, DOT, SVG)
//
// # Quick Start
//
//	tree, err := builder.Build(events)
//	if err != nil {
//	    return err
//	}
//	pub := publication.New(logger).Add(tree.Normalize(doctree.CollapseAuto))
//	exp, err := pub.Expand()
//	if err != nil {
//	    return err
//	}
//	eng, _ := numbering.NewEngine(nil, logger)
//	res, err := eng.Run(exp)
//	if err != nil {
//	    return err
//	}
//	entry := toc.Build(pub, exp, res, toc.Policy{}, toc.Options{})
//	return toc.WriteXML(os.Stdout, entry)
//
// # Main Packages
//
// ## Model
//
// [element] - The closed set of document elements: headings, paragraphs,
// references, placeholders and the structural sentinels.
//
// [part] - Generic tree of parts with level validation and traversal.
//
// [event] - Typed document events consumed by the tree builder.
//
// [builder] - Folds an event stream into a document tree, tracking
// fragments, block labels and transclusions.
//
// [doctree] - Immutable document tree with copy-on-write builder, phantom
// insertion, collapse modes and fragment extraction.
//
// [publication] - Immutable set of trees keyed by document id, with
// transclusion indexes, ancestry queries and expansion from the root.
//
// ## Numbering
//
// [numbering] - Numbering schemes, format strings, numeral styles and the
// engine that computes prefixes, canonical numbers and parent numbers.
//
// [toc] - Table of contents entries and their writers.
//
// ## Infrastructure
//
// [pipeline] - Complete load → number → render pipeline with caching, used
// by the CLI.
//
// [config] - TOML configuration: schemes, TOC policy and cache location.
//
// [cache] - Result cache backends (file, Redis, null) and key derivation.
//
// [observability] - Pipeline and cache hooks.
//
// [errors] - Coded errors and input validators shared by all packages.
//
// [buildinfo] - Version information injected at build time.
package pkg
