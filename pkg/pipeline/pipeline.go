// Package pipeline runs the complete events → trees → publication →
// numbering → table of contents chain for folio.
//
// # Stages
//
//  1. Load: read event files and build one normalized document tree each
//  2. TOC: expand the publication, number it and assemble the TOC entries
//  3. Render: write the TOC and the document graph in the requested formats
//
// The TOC and render stages are cached. Keys cover the raw input bytes,
// the configuration and every option that affects the output, so a cached
// result is only reused for identical inputs.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Files:   []string{"handbook.json"},
//	    Formats: []string{pipeline.FormatXML},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	xml := result.Artifacts["xml"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/config"
	folioio "github.com/matzehuels/folio/pkg/io"
	"github.com/matzehuels/folio/pkg/numbering"
	"github.com/matzehuels/folio/pkg/publication"
	"github.com/matzehuels/folio/pkg/toc"
)

// =============================================================================
// Formats
// =============================================================================

// Output formats.
const (
	FormatXML  = "xml"
	FormatJSON = "json"
	FormatText = "text"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatXML, FormatJSON, FormatText, FormatDOT, FormatSVG}

// DefaultFormat is rendered when Options.Formats is empty.
const DefaultFormat = FormatXML

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Files are event files (see package io). Bundles are appended after
	// the documents read from Files.
	Files   []string
	Bundles []*folioio.Bundle

	// RootID selects the publication root. Zero uses the root named by the
	// first input, or its first document.
	RootID int64

	// Target bounds the TOC to the documents from which Target is
	// reachable. Zero means the whole publication.
	Target int64

	// Config supplies numbering schemes and TOC policy. Nil uses
	// config.Default().
	Config *config.Config

	Formats []string
	Styled  bool // terminal colors in text output
	ShowIDs bool // document ids in text output
	Refresh bool // ignore cached results

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Files) == 0 && len(o.Bundles) == 0 {
		return fmt.Errorf("at least one event file is required")
	}
	if o.RootID < 0 || o.Target < 0 {
		return fmt.Errorf("document ids must be positive")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Config == nil {
		o.Config = config.Default()
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// BuildID identifies the run in logs.
	BuildID string

	// Publication holds the normalized document trees.
	Publication *publication.Publication

	// Expansion and Numbering are nil when the TOC came from the cache.
	Expansion *publication.Expansion
	Numbering *numbering.Result

	// TOC is the table of contents entry tree.
	TOC *toc.Entry

	// InputHash is the content hash of all event inputs.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Documents  int
	Entries    int
	Prefixes   int
	LoadTime   time.Duration
	TOCTime    time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TOCHit    bool // TOC entry tree came from cache
	RenderHit bool // all artifacts came from cache
}
