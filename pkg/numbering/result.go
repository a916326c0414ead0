package numbering

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/element"
)

// Prefix is the computed label of one element.
type Prefix struct {
	Value        string `json:"value"`
	Canonical    string `json:"canonical,omitempty"`
	Level        int    `json:"level"`
	ParentNumber string `json:"parent_number,omitempty"`
}

// Key addresses a prefix: a document occurrence, optionally narrowed to a
// fragment and the element index within it.
type Key struct {
	DocumentID int64
	Position   int
	Fragment   string
	Index      int
}

// TitleKey addresses the title of a document occurrence.
func TitleKey(id int64, position int) Key {
	return Key{DocumentID: id, Position: position}
}

// FragmentKey addresses the first prefix recorded in a fragment.
func FragmentKey(id int64, position int, fragment string) Key {
	return Key{DocumentID: id, Position: position, Fragment: fragment}
}

// ElementKey addresses element e of a document occurrence.
func ElementKey(id int64, position int, e element.Element) Key {
	return Key{DocumentID: id, Position: position, Fragment: e.Common().OriginalFragment, Index: element.IndexOf(e)}
}

// String renders the key as "id-position[-fragment[-index]]".
func (k Key) String() string {
	switch {
	case k.Index > 0:
		return fmt.Sprintf("%d-%d-%s-%d", k.DocumentID, k.Position, k.Fragment, k.Index)
	case k.Fragment != "":
		return fmt.Sprintf("%d-%d-%s", k.DocumentID, k.Position, k.Fragment)
	}
	return fmt.Sprintf("%d-%d", k.DocumentID, k.Position)
}

func compareKeys(a, b Key) int {
	return cmp.Or(
		cmp.Compare(a.DocumentID, b.DocumentID),
		cmp.Compare(a.Position, b.Position),
		cmp.Compare(a.Fragment, b.Fragment),
		cmp.Compare(a.Index, b.Index),
	)
}

// Result holds the prefixes of one numbering run. Origin prefixes are keyed
// by the document occurrence where the element appears; transcluded
// prefixes are keyed by the transclusion source.
type Result struct {
	prefixes    map[Key]Prefix
	transcluded map[Key]Prefix
	logger      *log.Logger
}

func newResult(logger *log.Logger) *Result {
	return &Result{prefixes: map[Key]Prefix{}, transcluded: map[Key]Prefix{}, logger: logger}
}

// Prefix returns the prefix stored under k.
func (r *Result) Prefix(k Key) (Prefix, bool) {
	p, ok := r.prefixes[k]
	if !ok {
		r.logger.Debug("no prefix", "key", k.String())
	}
	return p, ok
}

// TranscludedPrefix returns the prefix of transcluded content stored under
// k, where k names the transclusion source.
func (r *Result) TranscludedPrefix(k Key) (Prefix, bool) {
	p, ok := r.transcluded[k]
	if !ok {
		r.logger.Debug("no transcluded prefix", "key", k.String())
	}
	return p, ok
}

// Len returns the number of origin prefixes.
func (r *Result) Len() int { return len(r.prefixes) }

// TranscludedLen returns the number of transcluded prefixes.
func (r *Result) TranscludedLen() int { return len(r.transcluded) }

// Keys returns the origin keys in sorted order.
func (r *Result) Keys() []Key { return slices.SortedFunc(maps.Keys(r.prefixes), compareKeys) }

// TranscludedKeys returns the transcluded keys in sorted order.
func (r *Result) TranscludedKeys() []Key {
	return slices.SortedFunc(maps.Keys(r.transcluded), compareKeys)
}

// Equal reports whether both results hold the same prefixes.
func (r *Result) Equal(o *Result) bool {
	return maps.Equal(r.prefixes, o.prefixes) && maps.Equal(r.transcluded, o.transcluded)
}

func (r *Result) store(k Key, p Prefix) { r.prefixes[k] = p }

func (r *Result) storeFirst(k Key, p Prefix) {
	if _, ok := r.prefixes[k]; !ok {
		r.prefixes[k] = p
	}
}
