package publication

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/doctree"
	"github.com/matzehuels/folio/pkg/element"
	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/part"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func heading(level int, title, fragment string) element.Heading {
	return element.Heading{Base: element.Base{Level: level, Title: title, Fragment: fragment, OriginalFragment: fragment}, Numbered: true}
}

func embed(level int, target int64, fragment string) element.Reference {
	return element.Reference{Base: element.Base{Level: level}, TargetID: target, Type: element.Embed, TargetFragment: fragment}
}

func transclude(level int, target int64) element.Reference {
	return element.Reference{Base: element.Base{Level: level}, TargetID: target, Type: element.Transclude}
}

func doc(id int64, parts ...doctree.Part) *doctree.Tree {
	return doctree.NewBuilder(id).Title("doc").Parts(parts).Build()
}

func leaf(e element.Element, children ...doctree.Part) doctree.Part {
	return part.New(e, children...)
}

func TestAddFirstTreeIsRoot(t *testing.T) {
	empty := New(quietLogger())
	pub := empty.Add(doc(4), doc(2))

	if pub.RootID() != 4 {
		t.Errorf("RootID() = %d, want 4", pub.RootID())
	}
	if empty.Len() != 0 {
		t.Error("Add modified the receiver")
	}
	if ids := pub.IDs(); len(ids) != 2 || ids[0] != 2 || ids[1] != 4 {
		t.Errorf("IDs() = %v, want [2 4]", ids)
	}
}

func TestModifyRejectsRootRemoval(t *testing.T) {
	var buf bytes.Buffer
	pub := New(log.New(&buf)).Add(doc(1), doc(2), doc(3))

	next := pub.Modify(nil, []int64{1, 3})

	if _, ok := next.Tree(1); !ok {
		t.Error("root was removed")
	}
	if _, ok := next.Tree(3); ok {
		t.Error("document 3 should be removed")
	}
	if _, ok := pub.Tree(3); !ok {
		t.Error("Modify changed the receiver")
	}
	if !strings.Contains(buf.String(), string(errors.ErrCodeInvalidRootRemoval)) {
		t.Errorf("expected root removal warning, got %q", buf.String())
	}
}

func TestWithRoot(t *testing.T) {
	pub := New(quietLogger()).Add(doc(1), doc(2))

	next, err := pub.WithRoot(2)
	if err != nil {
		t.Fatalf("WithRoot(2) error: %v", err)
	}
	if next.RootID() != 2 || pub.RootID() != 1 {
		t.Errorf("roots = %d, %d, want 2, 1", next.RootID(), pub.RootID())
	}
	if _, err := pub.WithRoot(9); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("WithRoot(9) error = %v, want NOT_FOUND", err)
	}
}

func TestTransclusions(t *testing.T) {
	pub := New(quietLogger()).Add(
		doc(1, leaf(heading(1, "a", "")), leaf(transclude(1, 3)), leaf(embed(1, 3, ""))),
		doc(2, leaf(transclude(1, 3))),
		doc(3),
	)
	got := pub.Transclusions(3)
	want := []int64{1, EmbeddedParent, 2}
	if len(got) != len(want) {
		t.Fatalf("Transclusions(3) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Transclusions(3) = %v, want %v", got, want)
			break
		}
	}
}

func TestExpandEmptyPublication(t *testing.T) {
	if _, err := New(quietLogger()).Expand(); err != ErrEmpty {
		t.Errorf("Expand() error = %v, want ErrEmpty", err)
	}
}

func TestExpandRebasesEmbeddedParts(t *testing.T) {
	pub := New(quietLogger()).Add(
		doc(1,
			leaf(heading(2, "intro", ""),
				leaf(embed(3, 2, ""),
					leaf(heading(4, "after embed", "")),
				),
			),
		),
		doc(2, leaf(heading(1, "x", ""), leaf(heading(2, "x.1", "")))),
	)

	exp, err := pub.Expand()
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}

	intro := exp.Root.Children[0]
	if intro.Element.Level != 1 {
		t.Errorf("root parts start at %d, want 1", intro.Element.Level)
	}
	ref := intro.Children[0]
	if ref.Element.Kind != NodeDocumentRef || ref.Element.Level != 2 || ref.Element.DocumentID != 2 {
		t.Fatalf("ref = %+v", ref.Element)
	}
	if len(ref.Children) != 2 {
		t.Fatalf("ref children = %d, want target part + own child", len(ref.Children))
	}
	x := ref.Children[0]
	if x.Element.Level != 3 || x.Element.DocumentID != 2 || x.Element.Element.Common().Title != "x" {
		t.Errorf("target part = %+v", x.Element)
	}
	if x.Children[0].Element.Level != 4 {
		t.Errorf("x.1 level = %d, want 4", x.Children[0].Element.Level)
	}
	own := ref.Children[1]
	if own.Element.DocumentID != 1 || own.Element.Level != 3 {
		t.Errorf("own child = %+v, want host document at level 3", own.Element)
	}

	var levelErr bool
	exp.Walk(func(p part.Part[Node], _ int) bool {
		for _, c := range p.Children {
			if c.Element.Level != p.Element.Level+1 {
				levelErr = true
			}
		}
		return true
	})
	if levelErr {
		t.Error("expansion breaks the level rule")
	}
}

func TestExpandOccurrences(t *testing.T) {
	pub := New(quietLogger()).Add(
		doc(1, leaf(embed(1, 2, "")), leaf(embed(1, 2, ""))),
		doc(2, leaf(heading(1, "x", ""))),
	)

	exp, err := pub.Expand()
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	if exp.Occurrences(2) != 2 || exp.Occurrences(1) != 1 {
		t.Errorf("occurrences = %d, %d", exp.Occurrences(1), exp.Occurrences(2))
	}
	for i, c := range exp.Root.Children {
		if c.Element.Position != i+1 {
			t.Errorf("embed %d position = %d, want %d", i, c.Element.Position, i+1)
		}
		if got := c.Children[0].Element.Position; got != i+1 {
			t.Errorf("embedded part %d position = %d, want %d", i, got, i+1)
		}
	}
}

func TestExpandCycle(t *testing.T) {
	pub := New(quietLogger()).Add(
		doc(1, leaf(heading(1, "a", "")), leaf(embed(1, 2, ""))),
		doc(2, leaf(embed(1, 1, ""))),
	)

	for _, start := range []int64{1, 2} {
		p, _ := pub.WithRoot(start)
		_, err := p.Expand()
		if !errors.Is(err, errors.ErrCodeCycleDetected) {
			t.Fatalf("from %d: error = %v, want CYCLE_DETECTED", start, err)
		}
		rec, ok := err.(*errors.RecursionError)
		if !ok {
			t.Fatalf("from %d: error type %T", start, err)
		}
		ids := rec.IDs()
		if len(ids) != 3 || ids[0] != start || ids[2] != start {
			t.Errorf("from %d: chain = %v", start, ids)
		}
	}
}

func TestExpandSelfEmbed(t *testing.T) {
	pub := New(quietLogger()).Add(doc(1, leaf(embed(1, 1, ""))))
	if _, err := pub.Expand(); !errors.Is(err, errors.ErrCodeCycleDetected) {
		t.Errorf("Expand() error = %v, want CYCLE_DETECTED", err)
	}
}

func TestExpandDifferentFragmentsNoCycle(t *testing.T) {
	back := embed(2, 1, "y")
	back.Fragment, back.OriginalFragment = "x", "x"
	pub := New(quietLogger()).Add(
		doc(1,
			leaf(heading(1, "a", "a"), leaf(embed(2, 2, "x"))),
			leaf(heading(1, "y", "y")),
		),
		doc(2,
			leaf(heading(1, "x", "x"), leaf(back)),
		),
	)

	exp, err := pub.Expand()
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	if exp.Occurrences(1) != 2 || exp.Occurrences(2) != 1 {
		t.Errorf("occurrences = %d, %d, want 2, 1", exp.Occurrences(1), exp.Occurrences(2))
	}
}

// chain returns n documents where document i embeds document i+1.
func chain(n int) *Publication {
	pub := New(quietLogger())
	for i := 1; i <= n; i++ {
		parts := []doctree.Part{leaf(heading(1, "h", ""))}
		if i < n {
			parts = append(parts, leaf(embed(1, int64(i+1), "")))
		}
		pub = pub.Add(doc(int64(i), parts...))
	}
	return pub
}

func TestExpandDepth(t *testing.T) {
	if _, err := chain(MaxDepth).Expand(); err != nil {
		t.Errorf("chain of %d: %v", MaxDepth, err)
	}
	_, err := chain(MaxDepth + 1).Expand()
	if !errors.Is(err, errors.ErrCodeDepthExceeded) {
		t.Fatalf("chain of %d: error = %v, want DEPTH_EXCEEDED", MaxDepth+1, err)
	}
	if rec := err.(*errors.RecursionError); len(rec.Chain) != MaxDepth+1 {
		t.Errorf("chain length = %d, want %d", len(rec.Chain), MaxDepth+1)
	}
}

func TestExpandWarnsWhenDeep(t *testing.T) {
	var buf bytes.Buffer
	pub := chain(WarnDepth + 3)
	pub.logger = log.New(&buf)

	if _, err := pub.Expand(); err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	if n := strings.Count(buf.String(), "deeply nested embeds"); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
}

func TestExpandUnresolvedEmbed(t *testing.T) {
	var buf bytes.Buffer
	pub := New(log.New(&buf)).Add(doc(1, leaf(embed(1, 42, ""))))

	exp, err := pub.Expand()
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	n := exp.Root.Children[0]
	if n.Element.Kind != NodePart || !n.IsLeaf() {
		t.Errorf("unresolved embed = %+v, want plain leaf", n.Element)
	}
	if !strings.Contains(buf.String(), "embed target not found") {
		t.Error("expected warning for unresolved embed")
	}
}

func TestExpandDoesNotFollowTransclusion(t *testing.T) {
	pub := New(quietLogger()).Add(
		doc(1, leaf(transclude(1, 2))),
		doc(2, leaf(embed(1, 1, ""))),
	)
	exp, err := pub.Expand()
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	if exp.Occurrences(2) != 0 {
		t.Error("transclude target was expanded")
	}
}

func TestExpandFromFragment(t *testing.T) {
	pub := New(quietLogger()).Add(doc(1,
		leaf(heading(1, "a", "a")),
		leaf(heading(1, "b", "b"), leaf(heading(2, "b.1", "b"))),
	))

	exp, err := pub.ExpandFrom(1, "b")
	if err != nil {
		t.Fatalf("ExpandFrom() error: %v", err)
	}
	if exp.Nodes() != 2 {
		t.Errorf("Nodes() = %d, want 2", exp.Nodes())
	}
	if _, err := pub.ExpandFrom(7, ""); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("ExpandFrom(7) error = %v, want NOT_FOUND", err)
	}
}

func TestAncestors(t *testing.T) {
	child := doctree.NewBuilder(3).AddReverseReference(2).Build()
	mid := doctree.NewBuilder(2).AddReverseReference(1).Build()
	pub := New(quietLogger()).Add(
		doc(1, leaf(embed(1, 2, ""))),
		mid,
		child,
		doc(4, leaf(transclude(1, 3))),
		doc(5),
	)

	got := pub.Ancestors(3)
	for _, id := range []int64{1, 2, 3, 4} {
		if !got[id] {
			t.Errorf("Ancestors(3) missing %d", id)
		}
	}
	if got[5] {
		t.Error("Ancestors(3) should not include unrelated document 5")
	}
	if !pub.Ancestors(5)[1] {
		t.Error("root is always an ancestor")
	}
}

func TestAncestorsStopsAfterMaxHops(t *testing.T) {
	const chain = MaxAncestorHops + 50
	trees := []*doctree.Tree{doc(1000)}
	for id := int64(1); id <= chain; id++ {
		trees = append(trees, doctree.NewBuilder(id).AddReverseReference(id+1).Build())
	}
	pub := New(quietLogger()).Add(trees...)

	got := pub.Ancestors(1)
	// Each hop visits one document and discovers the next one in the chain.
	last := int64(MaxAncestorHops + 1)
	if !got[last] {
		t.Errorf("Ancestors(1) missing %d", last)
	}
	if got[last+1] {
		t.Errorf("Ancestors(1) includes %d beyond the hop limit", last+1)
	}
	if !got[1000] {
		t.Error("root is always an ancestor")
	}
	if len(got) != MaxAncestorHops+2 {
		t.Errorf("len(Ancestors(1)) = %d, want %d", len(got), MaxAncestorHops+2)
	}
}
