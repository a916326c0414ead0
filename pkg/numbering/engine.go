// Package numbering computes hierarchical prefixes ("1.2.", "II.b)",
// "Annex C") for the headings, paragraphs and embedded documents of an
// expanded publication.
//
// # Counters
//
// A run keeps one counter stack for unlabelled content and one per block
// label. Advancing the counter at level L truncates deeper entries, so
// lower levels restart whenever a higher level advances. When L skips
// levels, the gap is padded according to the scheme's [SkipPolicy].
//
// # Schemes
//
// Each element is labelled by the first [Scheme] whose document-label
// filter matches the owning document and which has a [LevelFormat] for the
// element's level, block label and kind. A matching scheme without such an
// entry falls back to the decimal format "[1.][2.]...". When a format omits
// an ancestor level, the omitted part is rendered separately into
// [Prefix.ParentNumber] from the nearest ancestor level whose format does
// cover it.
//
// # Results
//
// Prefixes are stored per document occurrence (see [Key]). Content inside
// a transclusion is also stored under the transclusion source, so callers
// rendering the source document can find the number it received in the
// host.
package numbering

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/element"
	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/part"
	"github.com/matzehuels/folio/pkg/publication"
)

const implicitLevels = 16

// Engine numbers expanded publications. An Engine holds only compiled
// configuration; every Run uses fresh counters, so one engine may number
// many publications, also concurrently.
type Engine struct {
	schemes  []*compiledScheme
	fallback *compiledScheme
	implicit []*Format
	logger   *log.Logger
}

// NewEngine compiles schemes. A nil logger uses log.Default().
func NewEngine(schemes []Scheme, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.Default()
	}
	e := &Engine{logger: logger}
	for _, s := range schemes {
		cs, err := compileScheme(s)
		if err != nil {
			return nil, err
		}
		e.schemes = append(e.schemes, cs)
	}
	fallback, err := compileScheme(DefaultScheme())
	if err != nil {
		return nil, err
	}
	e.fallback = fallback
	for l := 1; l <= implicitLevels; l++ {
		e.implicit = append(e.implicit, implicitFormat(l))
	}
	return e, nil
}

func (e *Engine) implicitFormat(level int) *Format {
	if level >= 1 && level <= len(e.implicit) {
		return e.implicit[level-1]
	}
	return implicitFormat(level)
}

// applicable returns the schemes whose label filter matches labels, in
// configuration order.
func (e *Engine) applicable(labels []string) []*compiledScheme {
	var out []*compiledScheme
	for _, s := range e.schemes {
		if s.appliesTo(labels) {
			out = append(out, s)
		}
	}
	return out
}

// choose selects the scheme and format for one element.
func (e *Engine) choose(schemes []*compiledScheme, level int, blockLabel string, kind ElementFilter) (*compiledScheme, *Format) {
	for _, s := range schemes {
		if l, ok := s.entry(level, blockLabel, kind); ok {
			return s, l.format
		}
	}
	if len(schemes) > 0 {
		return schemes[0], e.implicitFormat(level)
	}
	return e.fallback, e.implicitFormat(level)
}

// parentNumber renders the deepest ancestor level that f omits, using the
// format of the nearest ancestor level covering it. At each ancestor level
// the element's own scheme is tried before the other applicable schemes.
func (e *Engine) parentNumber(own *compiledScheme, schemes []*compiledScheme, f *Format, path []int, stripped []bool, blockLabel string) string {
	omitted := 0
	for k := len(path) - 1; k >= 1; k-- {
		if !stripped[k-1] && !f.Covers(k) {
			omitted = k
			break
		}
	}
	if omitted == 0 {
		return ""
	}

	candidates := append([]*compiledScheme{own}, schemes...)
	for k := len(path) - 1; k >= omitted; k-- {
		for _, s := range candidates {
			l, ok := s.entry(k, blockLabel, AnyElement)
			if !ok || !l.format.Covers(omitted) {
				continue
			}
			return l.format.Render(path[:k], stripped[:k], func(level int) NumeralStyle {
				return s.styleFor(level, blockLabel, AnyElement)
			})
		}
	}
	return ""
}

// Run numbers exp.
func (e *Engine) Run(exp *publication.Expansion) (*Result, error) {
	if exp == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil expansion")
	}
	r := &run{
		eng:      e,
		counters: newCounters(),
		res:      newResult(e.logger),
		transOcc: map[int64]int{},
	}
	r.walk(exp.Root, nil)
	e.logger.Debug("numbered publication",
		"root", exp.Root.Element.DocumentID,
		"prefixes", r.res.Len(),
		"transcluded", r.res.TranscludedLen())
	return r.res, nil
}

type transclusion struct {
	source     int64
	occurrence int
}

// scope is the state of one document occurrence during a run.
type scope struct {
	labels  []string
	schemes []*compiledScheme
	trans   []transclusion
}

type run struct {
	eng      *Engine
	counters *counters
	res      *Result
	transOcc map[int64]int
}

type node = part.Part[publication.Node]

func (r *run) newScope(labels []string) *scope {
	return &scope{labels: labels, schemes: r.eng.applicable(labels)}
}

func (r *run) walk(p node, sc *scope) {
	n := p.Element
	switch n.Kind {
	case publication.NodeRoot:
		sc = r.newScope(n.Document.LabelList())
		if manual := n.Document.Prefix(); manual != "" {
			r.res.store(TitleKey(n.DocumentID, n.Position), Prefix{Value: manual})
		}
	case publication.NodeDocumentRef:
		r.documentRef(p, sc)
		return
	default:
		r.element(n, sc)
	}
	for _, c := range p.Children {
		r.walk(c, sc)
	}
}

// documentRef numbers the title slot of an embedded document and walks the
// embedded content in a scope of its own.
func (r *run) documentRef(p node, host *scope) {
	n := p.Element
	target := n.Document
	inner := r.newScope(target.LabelList())
	titleKey := TitleKey(n.DocumentID, n.Position)
	refKey := ElementKey(n.HostID, n.HostPosition, n.Element)

	var title *Prefix
	switch {
	case target.Numbered():
		pfx := r.number(n.Level, target.BlockLabel(), HeadingsOnly, inner)
		title = &pfx
	case target.Prefix() != "":
		title = &Prefix{Value: target.Prefix(), Level: n.Level}
	}
	if title != nil {
		r.res.store(titleKey, *title)
		r.res.store(refKey, *title)
		r.recordTransclusion(host, n.Element, *title)
	}

	for _, c := range p.Children {
		r.walk(c, inner)
	}

	if title == nil {
		if pfx, ok := r.firstHeading(p.Children, n.DocumentID, n.Position); ok {
			r.res.store(refKey, pfx)
		}
	}
}

func (r *run) element(n publication.Node, sc *scope) {
	element.Switch(n.Element, element.Cases{
		Heading: func(h element.Heading) {
			r.label(n, sc, h.Numbered, h.Prefix, h.BlockLabel, n.Level, HeadingsOnly)
		},
		Paragraph: func(p element.Paragraph) {
			r.label(n, sc, p.Numbered, p.Prefix, p.BlockLabel, n.Level+p.Indent, ParagraphsOnly)
		},
		Reference: func(ref element.Reference) {
			if ref.Type != element.Transclude {
				return
			}
			r.transOcc[ref.TargetID]++
			sc.trans = append(sc.trans, transclusion{source: ref.TargetID, occurrence: r.transOcc[ref.TargetID]})
		},
		TransclusionBoundary: func(element.TransclusionBoundary) {
			if len(sc.trans) > 0 {
				sc.trans = sc.trans[:len(sc.trans)-1]
			}
		},
		Default: func(element.Element) {},
	})
}

// label computes and stores the prefix of a heading or paragraph.
func (r *run) label(n publication.Node, sc *scope, numbered bool, manual, blockLabel string, level int, kind ElementFilter) {
	var pfx Prefix
	switch {
	case numbered:
		pfx = r.number(level, blockLabel, kind, sc)
	case manual != "":
		pfx = Prefix{Value: manual, Level: level}
	default:
		return
	}
	r.res.store(ElementKey(n.DocumentID, n.Position, n.Element), pfx)
	if frag := n.Element.Common().OriginalFragment; frag != "" {
		r.res.storeFirst(FragmentKey(n.DocumentID, n.Position, frag), pfx)
	}
	r.recordTransclusion(sc, n.Element, pfx)
}

// recordTransclusion stores pfx under the key e has in the source document
// of the innermost open transclusion.
func (r *run) recordTransclusion(sc *scope, e element.Element, pfx Prefix) {
	if sc == nil || len(sc.trans) == 0 {
		return
	}
	t := sc.trans[len(sc.trans)-1]
	key := Key{DocumentID: t.source, Position: t.occurrence, Fragment: e.Common().OriginalFragment, Index: element.SourceIndexOf(e)}
	r.res.transcluded[key] = pfx
}

// number advances the counter for level and renders the prefix.
func (r *run) number(level int, blockLabel string, kind ElementFilter, sc *scope) Prefix {
	rel := r.counters.relative(blockLabel, level)
	scheme, f := r.eng.choose(sc.schemes, rel, blockLabel, kind)

	c := r.counters.stack(blockLabel)
	c.increment(rel, scheme.Skip)
	path, stripped := c.path()

	return Prefix{
		Value: f.Render(path, stripped, func(l int) NumeralStyle {
			return scheme.styleFor(l, blockLabel, kind)
		}),
		Canonical:    canonical(path),
		Level:        level,
		ParentNumber: r.eng.parentNumber(scheme, sc.schemes, f, path, stripped, blockLabel),
	}
}

// firstHeading returns the prefix of the first numbered heading of the
// given document occurrence below parts.
func (r *run) firstHeading(parts []node, id int64, pos int) (Prefix, bool) {
	var (
		found Prefix
		ok    bool
	)
	part.Walk(parts, func(p node, _ int) bool {
		if ok {
			return false
		}
		n := p.Element
		h, isHeading := n.Element.(element.Heading)
		if !isHeading || !h.Numbered || n.DocumentID != id || n.Position != pos {
			return true
		}
		found, ok = r.res.prefixes[ElementKey(id, pos, h)]
		return !ok
	})
	return found, ok
}
