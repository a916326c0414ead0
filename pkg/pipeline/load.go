package pipeline

import (
	"bytes"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/builder"
	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/doctree"
	"github.com/matzehuels/folio/pkg/errors"
	folioio "github.com/matzehuels/folio/pkg/io"
	"github.com/matzehuels/folio/pkg/publication"
)

// Input is the loaded publication together with the hash of its sources.
type Input struct {
	Publication *publication.Publication
	Hash        string
}

// ReadBundles reads the event files and appends extra bundles. It also
// returns the raw bytes of every input for hashing.
func ReadBundles(files []string, extra []*folioio.Bundle) ([]*folioio.Bundle, [][]byte, error) {
	var bundles []*folioio.Bundle
	var raw [][]byte
	for _, path := range files {
		if err := errors.ValidatePath(path); err != nil {
			return nil, nil, err
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "event file %s", path)
		}
		if err != nil {
			return nil, nil, err
		}
		b, err := folioio.ReadJSON(bytes.NewReader(data))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		bundles = append(bundles, b)
		raw = append(raw, data)
	}
	for _, b := range extra {
		var buf bytes.Buffer
		if err := folioio.WriteJSON(b, &buf); err != nil {
			return nil, nil, err
		}
		bundles = append(bundles, b)
		raw = append(raw, buf.Bytes())
	}
	return bundles, raw, nil
}

// BuildTrees builds and normalizes one tree per document. Duplicate
// document ids are rejected.
func BuildTrees(bundles []*folioio.Bundle, collapse doctree.CollapseMode) ([]*doctree.Tree, error) {
	var trees []*doctree.Tree
	seen := map[int64]bool{}
	for _, b := range bundles {
		for i, events := range b.Documents {
			t, err := builder.Build(events)
			if err != nil {
				return nil, fmt.Errorf("document %d: %w", i+1, err)
			}
			if seen[t.ID()] {
				return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate document id %d", t.ID())
			}
			seen[t.ID()] = true
			trees = append(trees, t.Normalize(collapse))
		}
	}
	return trees, nil
}

// rootOf picks the publication root: the explicit id, else the first
// bundle naming one.
func rootOf(explicit int64, bundles []*folioio.Bundle) int64 {
	if explicit != 0 {
		return explicit
	}
	for _, b := range bundles {
		if id := b.RootID(); id != 0 {
			return id
		}
	}
	return 0
}

// Load reads, builds and assembles the publication described by opts.
func Load(opts Options, logger *log.Logger) (*Input, error) {
	bundles, raw, err := ReadBundles(opts.Files, opts.Bundles)
	if err != nil {
		return nil, err
	}
	trees, err := BuildTrees(bundles, opts.Config.TOC.Collapse)
	if err != nil {
		return nil, err
	}
	if len(trees) == 0 {
		return nil, publication.ErrEmpty
	}

	pub := publication.New(logger).Add(trees...)
	if root := rootOf(opts.RootID, bundles); root != 0 && root != pub.RootID() {
		if pub, err = pub.WithRoot(root); err != nil {
			return nil, err
		}
	}
	return &Input{Publication: pub, Hash: cache.HashAll(raw...)}, nil
}
