package builder

import (
	"time"

	"github.com/matzehuels/folio/pkg/doctree"
	"github.com/matzehuels/folio/pkg/element"
	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/event"
)

// state tracks the open scopes while a stream is consumed.
type state struct {
	started bool
	tree    *doctree.Builder
	items   []Item

	fragments    []string
	blockLabels  []string
	transclusion []int // fragment stack height at each open transclusion
	indexes      map[string]int
	sourceIdx    []map[string]int // per open transclusion, indexes local to the source
	lastEdited   time.Time
}

// Build consumes the event stream of one document and returns its tree.
//
// Fragments, block labels and transclusions are scopes that nest; elements
// take the innermost fragment as their original fragment. Inside a
// transclusion the rendered fragment is the host's fragment as it was when
// the transclusion opened. Element indexes count headings, paragraphs and
// references together, per original fragment, starting at 1. Elements inside
// a transclusion also get a source index that restarts at 1 in every
// transclusion and matches the index the element has in its source document.
//
// Scopes still open at the end of the stream are closed implicitly. The
// returned tree is not normalized.
func Build(events []event.Event) (*doctree.Tree, error) {
	s := &state{indexes: map[string]int{}}
	for i, ev := range events {
		if err := s.apply(ev); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "event %d (%s)", i, ev.Name())
		}
	}
	if !s.started {
		return nil, errors.New(errors.ErrCodeInvalidInput, "event stream has no document-start")
	}
	for range s.transclusion {
		s.closeTransclusion()
	}
	return s.tree.Parts(Assemble(s.items)).Build(), nil
}

func (s *state) apply(ev event.Event) error {
	if _, ok := ev.(event.DocumentStart); !ok && !s.started {
		return errors.New(errors.ErrCodeInvalidInput, "%s before document-start", ev.Name())
	}

	switch ev := ev.(type) {
	case event.DocumentStart:
		if s.started {
			return errors.New(errors.ErrCodeInvalidInput, "second document-start")
		}
		if err := errors.ValidateDocumentID(ev.ID); err != nil {
			return err
		}
		s.started = true
		s.tree = doctree.NewBuilder(ev.ID).
			Title(ev.Title).
			Labels(ev.Labels).
			Path(ev.Path).
			Numbered(ev.Numbered)

	case event.FragmentStart:
		if err := errors.ValidateFragment(ev.ID); err != nil {
			return err
		}
		s.fragments = append(s.fragments, ev.ID)

	case event.FragmentEnd:
		if len(s.fragments) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "fragment-end %q without open fragment", ev.ID)
		}
		s.fragments = s.fragments[:len(s.fragments)-1]

	case event.BlockLabelStart:
		if err := errors.ValidateBlockLabel(ev.Label); err != nil {
			return err
		}
		s.blockLabels = append(s.blockLabels, ev.Label)

	case event.BlockLabelEnd:
		if len(s.blockLabels) > 0 {
			s.blockLabels = s.blockLabels[:len(s.blockLabels)-1]
		}

	case event.Heading:
		if err := errors.ValidateBlockLabel(ev.BlockLabel); err != nil {
			return err
		}
		base := s.base(max(ev.Level, 1), ev.Title)
		index, source := s.nextIndex(base.OriginalFragment)
		h := element.Heading{
			Base:        base,
			Index:       index,
			SourceIndex: source,
			Numbered:    ev.Numbered,
			Prefix:      ev.Prefix,
			BlockLabel:  s.blockLabel(ev.BlockLabel),
		}
		if base.OriginalFragment != "" {
			s.tree.IndexFragment(base.OriginalFragment, ev.Title, base.Level)
		}
		s.items = append(s.items, Item{Element: h, Level: base.Level})

	case event.Paragraph:
		if err := errors.ValidateBlockLabel(ev.BlockLabel); err != nil {
			return err
		}
		base := s.base(0, ev.Title)
		index, source := s.nextIndex(base.OriginalFragment)
		s.items = append(s.items, Item{Element: element.Paragraph{
			Base:        base,
			Index:       index,
			SourceIndex: source,
			Numbered:    ev.Numbered,
			Prefix:      ev.Prefix,
			BlockLabel:  s.blockLabel(ev.BlockLabel),
			Indent:      max(ev.Indent, 0),
		}})

	case event.Reference:
		if err := errors.ValidateDocumentID(ev.TargetID); err != nil {
			return err
		}
		if ev.TargetFragment != "" {
			if err := errors.ValidateFragment(ev.TargetFragment); err != nil {
				return err
			}
		}
		title := ""
		if ev.Display == event.DisplayManualTitle {
			title = ev.ManualTitle
		}
		base := s.base(max(ev.Level, 1), title)
		index, source := s.nextIndex(base.OriginalFragment)
		s.items = append(s.items, Item{Element: element.Reference{
			Base:           base,
			Index:          index,
			SourceIndex:    source,
			TargetID:       ev.TargetID,
			Type:           ev.Type,
			TargetFragment: ev.TargetFragment,
			DocumentType:   ev.DocumentType,
			UseTargetTitle: ev.Display == event.DisplayTargetTitle,
		}, Level: base.Level})
		if ev.Type == element.Transclude {
			s.transclusion = append(s.transclusion, len(s.fragments))
			s.sourceIdx = append(s.sourceIdx, map[string]int{})
		}

	case event.TransclusionEnd:
		if len(s.transclusion) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "transclusion-end without open transclusion")
		}
		s.closeTransclusion()

	case event.ReverseReference:
		s.tree.AddReverseReference(ev.TargetID)

	case event.Placeholder:
		switch ev.Label {
		case event.PlaceholderTOC:
			s.items = append(s.items, Item{Element: element.TocMarker{Base: s.base(0, "")}})
		case event.PlaceholderTitle:
			s.items = append(s.items, Item{Element: element.DocumentTitle{Base: s.base(0, "")}})
		}

	case event.LastEdited:
		if ev.Time.After(s.lastEdited) {
			s.lastEdited = ev.Time
			s.tree.LastEdited(ev.Time)
		}

	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown event %T", ev)
	}
	return nil
}

// closeTransclusion pops the innermost transclusion, discarding fragments the
// transcluded content left open, and emits its boundary sentinel.
func (s *state) closeTransclusion() {
	height := s.transclusion[len(s.transclusion)-1]
	s.transclusion = s.transclusion[:len(s.transclusion)-1]
	s.sourceIdx = s.sourceIdx[:len(s.sourceIdx)-1]
	if height < len(s.fragments) {
		s.fragments = s.fragments[:height]
	}
	s.items = append(s.items, Item{Element: element.TransclusionBoundary{Base: s.base(0, "")}})
}

func (s *state) base(level int, title string) element.Base {
	return element.Base{
		Level:            level,
		Title:            title,
		Fragment:         s.hostFragment(),
		OriginalFragment: s.currentFragment(),
	}
}

func (s *state) currentFragment() string {
	if len(s.fragments) == 0 {
		return ""
	}
	return s.fragments[len(s.fragments)-1]
}

// hostFragment is the fragment of the outermost transclusion's host, or the
// current fragment outside transclusions.
func (s *state) hostFragment() string {
	if len(s.transclusion) == 0 {
		return s.currentFragment()
	}
	h := min(s.transclusion[0], len(s.fragments))
	if h == 0 {
		return ""
	}
	return s.fragments[h-1]
}

func (s *state) blockLabel(explicit string) string {
	if explicit != "" || len(s.blockLabels) == 0 {
		return explicit
	}
	return s.blockLabels[len(s.blockLabels)-1]
}

// nextIndex advances the host index of fragment and, inside a transclusion,
// the index local to the innermost transcluded source.
func (s *state) nextIndex(fragment string) (index, source int) {
	s.indexes[fragment]++
	if n := len(s.sourceIdx); n > 0 {
		s.sourceIdx[n-1][fragment]++
		source = s.sourceIdx[n-1][fragment]
	}
	return s.indexes[fragment], source
}
