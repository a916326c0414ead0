package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/folio/pkg/element"
	"github.com/matzehuels/folio/pkg/event"
)

type file struct {
	Root      int64      `json:"root,omitempty"`
	Documents []document `json:"documents,omitempty"`
	Events    []record   `json:"events,omitempty"`
}

type document struct {
	Events []record `json:"events"`
}

// record is the flat wire form shared by every event type.
type record struct {
	Type         string     `json:"type"`
	ID           int64      `json:"id,omitempty"`
	Target       int64      `json:"target,omitempty"`
	Title        string     `json:"title,omitempty"`
	Labels       string     `json:"labels,omitempty"`
	Path         string     `json:"path,omitempty"`
	Numbered     bool       `json:"numbered,omitempty"`
	Level        int        `json:"level,omitempty"`
	Indent       int        `json:"indent,omitempty"`
	Prefix       string     `json:"prefix,omitempty"`
	BlockLabel   string     `json:"block_label,omitempty"`
	Label        string     `json:"label,omitempty"`
	Fragment     string     `json:"fragment,omitempty"`
	Ref          string     `json:"ref,omitempty"`
	DocumentType string     `json:"document_type,omitempty"`
	ManualTitle  string     `json:"manual_title,omitempty"`
	Name         string     `json:"name,omitempty"`
	Time         *time.Time `json:"time,omitempty"`
}

func toRecord(ev event.Event) record {
	rec := record{Type: ev.Name()}
	switch e := ev.(type) {
	case event.DocumentStart:
		rec.ID, rec.Title, rec.Labels, rec.Path, rec.Numbered = e.ID, e.Title, e.Labels, e.Path, e.Numbered
	case event.FragmentStart:
		rec.Fragment = e.ID
	case event.FragmentEnd:
		rec.Fragment = e.ID
	case event.Heading:
		rec.Level, rec.Title, rec.Numbered, rec.Prefix, rec.BlockLabel = e.Level, e.Title, e.Numbered, e.Prefix, e.BlockLabel
	case event.Paragraph:
		rec.Indent, rec.Title, rec.Numbered, rec.Prefix, rec.BlockLabel = e.Indent, e.Title, e.Numbered, e.Prefix, e.BlockLabel
	case event.BlockLabelStart:
		rec.Label = e.Label
	case event.BlockLabelEnd:
		rec.Label = e.Label
	case event.Reference:
		rec.Target, rec.Fragment, rec.Level, rec.DocumentType = e.TargetID, e.TargetFragment, e.Level, e.DocumentType
		rec.Ref = e.Type.String()
		if e.Display == event.DisplayManualTitle {
			rec.ManualTitle = e.ManualTitle
		}
	case event.ReverseReference:
		rec.Target = e.TargetID
		if e.ForwardType != element.Embed {
			rec.Ref = e.ForwardType.String()
		}
	case event.Placeholder:
		rec.Name = e.Label
	case event.LastEdited:
		ts := e.Time
		rec.Time = &ts
	}
	return rec
}

// WriteJSON encodes b as an indented event file. The output can be read
// back with [ReadJSON].
func WriteJSON(b *Bundle, w io.Writer) error {
	out := file{Root: b.Root, Documents: make([]document, len(b.Documents))}
	for i, events := range b.Documents {
		recs := make([]record, len(events))
		for j, ev := range events {
			recs[j] = toRecord(ev)
		}
		out.Documents[i] = document{Events: recs}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes b to a JSON file at path.
func ExportJSON(b *Bundle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(b, f)
}
