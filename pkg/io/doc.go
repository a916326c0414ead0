// Package io reads and writes document event streams as JSON.
//
// # JSON Format
//
// A file holds one or more documents, each an ordered list of events. The
// optional "root" names the publication root; when omitted the first
// document is the root.
//
//	{
//	  "root": 1,
//	  "documents": [
//	    {"events": [
//	      {"type": "document-start", "id": 1, "title": "Handbook", "labels": "manual"},
//	      {"type": "heading", "level": 1, "title": "Intro", "numbered": true},
//	      {"type": "paragraph", "indent": 0, "title": "Scope"},
//	      {"type": "reference", "target": 2, "ref": "embed", "level": 1}
//	    ]},
//	    {"events": [
//	      {"type": "document-start", "id": 2, "title": "Setup"},
//	      {"type": "heading", "level": 1, "title": "Install", "numbered": true}
//	    ]}
//	  ]
//	}
//
// A file with a top-level "events" array instead of "documents" holds a
// single document.
//
// # Event Fields
//
// Every event has a "type", which is the event's wire name (see
// [event.Event]). The remaining fields depend on the type:
//
//   - document-start: id, title, labels, path, numbered
//   - fragment-start, fragment-end: fragment
//   - heading: level, title, numbered, prefix, block_label
//   - paragraph: indent, title, numbered, prefix, block_label
//   - block-label-start, block-label-end: label
//   - reference: target, ref ("embed" or "transclude"), fragment, level,
//     document_type, manual_title; a non-empty manual_title is displayed
//     instead of the target title
//   - transclusion-end: no fields
//   - reverse-reference: target, ref
//   - placeholder: name
//   - last-edited: time (RFC 3339)
//
// Unknown types are rejected. Field validation (positive ids, fragment
// syntax) happens later in package builder.
//
// # Import and Export
//
// Use [ImportJSON] or [ReadJSON] to decode a [Bundle], and [ExportJSON] or
// [WriteJSON] to encode one. Export writes the same format back, so a
// bundle survives a round trip unchanged.
package io
