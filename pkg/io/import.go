package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/folio/pkg/element"
	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/event"
)

// Bundle is a decoded event file.
type Bundle struct {
	// Root is the publication root, 0 when the file does not name one.
	Root      int64
	Documents [][]event.Event
}

// RootID returns Root, or the id of the first document when Root is 0.
func (b *Bundle) RootID() int64 {
	if b.Root != 0 {
		return b.Root
	}
	for _, doc := range b.Documents {
		if len(doc) > 0 {
			if ds, ok := doc[0].(event.DocumentStart); ok {
				return ds.ID
			}
		}
	}
	return 0
}

// ReadJSON decodes an event file from r. Every event must carry a known
// "type"; reference types must be "embed" or "transclude" and timestamps
// RFC 3339. Errors name the document and event index at fault.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Bundle, error) {
	var data file
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode")
	}

	docs := data.Documents
	if len(data.Events) > 0 {
		docs = append([]document{{Events: data.Events}}, docs...)
	}

	b := &Bundle{Root: data.Root, Documents: make([][]event.Event, 0, len(docs))}
	for i, d := range docs {
		events := make([]event.Event, 0, len(d.Events))
		for j, rec := range d.Events {
			ev, err := rec.event()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "document %d, event %d", i+1, j+1)
			}
			events = append(events, ev)
		}
		b.Documents = append(b.Documents, events)
	}
	return b, nil
}

// ImportJSON reads the event file at path.
func ImportJSON(path string) (*Bundle, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	b, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func (rec record) event() (event.Event, error) {
	switch rec.Type {
	case "document-start":
		return event.DocumentStart{ID: rec.ID, Title: rec.Title, Labels: rec.Labels, Path: rec.Path, Numbered: rec.Numbered}, nil
	case "fragment-start":
		return event.FragmentStart{ID: rec.Fragment}, nil
	case "fragment-end":
		return event.FragmentEnd{ID: rec.Fragment}, nil
	case "heading":
		return event.Heading{Level: rec.Level, Title: rec.Title, Numbered: rec.Numbered, Prefix: rec.Prefix, BlockLabel: rec.BlockLabel}, nil
	case "paragraph":
		return event.Paragraph{Indent: rec.Indent, Title: rec.Title, Numbered: rec.Numbered, Prefix: rec.Prefix, BlockLabel: rec.BlockLabel}, nil
	case "block-label-start":
		return event.BlockLabelStart{Label: rec.Label}, nil
	case "block-label-end":
		return event.BlockLabelEnd{Label: rec.Label}, nil
	case "reference":
		typ, err := element.ParseRefType(rec.Ref)
		if err != nil {
			return nil, err
		}
		ref := event.Reference{
			TargetID:       rec.Target,
			Type:           typ,
			TargetFragment: rec.Fragment,
			Level:          rec.Level,
			DocumentType:   rec.DocumentType,
			ManualTitle:    rec.ManualTitle,
		}
		if rec.ManualTitle != "" {
			ref.Display = event.DisplayManualTitle
		}
		return ref, nil
	case "transclusion-end":
		return event.TransclusionEnd{}, nil
	case "reverse-reference":
		typ, err := element.ParseRefType(rec.Ref)
		if err != nil {
			return nil, err
		}
		return event.ReverseReference{TargetID: rec.Target, ForwardType: typ}, nil
	case "placeholder":
		return event.Placeholder{Label: rec.Name}, nil
	case "last-edited":
		if rec.Time == nil {
			return nil, fmt.Errorf("last-edited without time")
		}
		return event.LastEdited{Time: *rec.Time}, nil
	case "":
		return nil, fmt.Errorf("missing event type")
	}
	return nil, fmt.Errorf("unknown event type %q", rec.Type)
}
