package toc

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/folio/pkg/element"
	"github.com/matzehuels/folio/pkg/publication"
)

// ToDOT converts the reference graph of pub to Graphviz DOT. Every document
// is a node labelled with its id and title; the root is drawn bold. Embed
// references are solid edges, transclude references dashed ones. References
// to documents outside the publication point to a dotted placeholder node.
func ToDOT(pub *publication.Publication) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	missing := map[int64]bool{}
	for _, id := range pub.IDs() {
		t, _ := pub.Tree(id)
		attrs := fmt.Sprintf("label=%q", strconv.FormatInt(id, 10)+"\n"+t.Title())
		if id == pub.RootID() {
			attrs += ", penwidth=2"
		}
		fmt.Fprintf(&buf, "  \"%d\" [%s];\n", id, attrs)
	}

	buf.WriteString("\n")
	for _, id := range pub.IDs() {
		t, _ := pub.Tree(id)
		for _, ref := range t.References() {
			if _, ok := pub.Tree(ref.TargetID); !ok {
				missing[ref.TargetID] = true
			}
			fmt.Fprintf(&buf, "  \"%d\" -> \"%d\" [%s];\n", id, ref.TargetID, edgeAttrs(ref))
		}
	}

	for _, id := range slices.Sorted(maps.Keys(missing)) {
		fmt.Fprintf(&buf, "  \"%d\" [label=\"%d\\n(missing)\", style=\"rounded,dotted\"];\n", id, id)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeAttrs(ref element.Reference) string {
	attrs := "label=" + strconv.Quote(ref.Type.String())
	if ref.TargetFragment != "" {
		attrs = "label=" + strconv.Quote(ref.Type.String()+" #"+ref.TargetFragment)
	}
	if ref.Type == element.Transclude {
		attrs += ", style=dashed"
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// viewBox starts at the origin, so the image scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
