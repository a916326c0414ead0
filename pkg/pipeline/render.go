package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/folio/pkg/publication"
	"github.com/matzehuels/folio/pkg/toc"
)

// Render writes entry and the document graph of pub in every format of
// opts.Formats.
func Render(ctx context.Context, pub *publication.Publication, entry *toc.Entry, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string

	for _, format := range opts.Formats {
		var buf bytes.Buffer
		var err error

		switch format {
		case FormatXML:
			err = toc.WriteXML(&buf, entry)
		case FormatJSON:
			err = toc.WriteJSON(&buf, entry)
		case FormatText:
			err = toc.WriteText(&buf, entry, toc.TextOptions{Styled: opts.Styled, ShowIDs: opts.ShowIDs})
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = toc.ToDOT(pub)
			}
			if format == FormatDOT {
				buf.WriteString(dot)
				break
			}
			var svg []byte
			svg, err = toc.RenderSVG(ctx, dot)
			buf.Write(svg)
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = buf.Bytes()
	}
	return artifacts, nil
}
