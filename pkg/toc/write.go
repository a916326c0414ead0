package toc

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MarshalXML writes e as an element named after its kind, with its fields
// as attributes and its children nested.
func (e *Entry) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Kind}}
	add := func(name, value string) {
		if value != "" {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: value})
		}
	}
	add("level", strconv.Itoa(e.Level))
	add("title", e.Title)
	if e.ID != 0 {
		add("id", strconv.FormatInt(e.ID, 10))
	}
	if e.Position != 0 {
		add("position", strconv.Itoa(e.Position))
	}
	add("fragment", e.Fragment)
	add("prefix", e.Prefix)
	add("canonical", e.Canonical)
	add("parent-number", e.ParentNumber)

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range e.Children {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// WriteXML writes the entry tree as indented XML.
func WriteXML(w io.Writer, e *Entry) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteJSON writes the entry tree as indented JSON.
func WriteJSON(w io.Writer, e *Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

var (
	stylePrefix   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleDocument = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true)
	styleMeta     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TextOptions configures [WriteText].
type TextOptions struct {
	// Styled enables terminal colors.
	Styled bool
	// ShowIDs appends the document id and occurrence to each line.
	ShowIDs bool
}

// WriteText writes the entry tree as an indented outline, one entry per
// line. Phantoms contribute indentation only.
func WriteText(w io.Writer, e *Entry, opts TextOptions) error {
	render := func(s lipgloss.Style, text string) string {
		if !opts.Styled {
			return text
		}
		return s.Render(text)
	}

	var sb strings.Builder
	var write func(e *Entry, depth int)
	write = func(e *Entry, depth int) {
		if e.Kind != KindPhantom {
			sb.WriteString(strings.Repeat("  ", depth))
			if e.Prefix != "" {
				sb.WriteString(render(stylePrefix, e.Prefix) + " ")
			}
			title := e.Title
			if title == "" {
				title = "(untitled)"
			}
			switch e.Kind {
			case KindDocumentRef, KindPublication:
				sb.WriteString(render(styleDocument, title))
			default:
				sb.WriteString(render(styleTitle, title))
			}
			if opts.ShowIDs {
				sb.WriteString(" " + render(styleMeta, fmt.Sprintf("[%d#%d]", e.ID, e.Position)))
			}
			sb.WriteByte('\n')
		}
		for _, c := range e.Children {
			write(c, depth+1)
		}
	}
	write(e, 0)

	_, err := io.WriteString(w, sb.String())
	return err
}
