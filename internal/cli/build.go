package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/config"
	"github.com/matzehuels/folio/pkg/pipeline"
	"github.com/matzehuels/folio/pkg/publication"
)

// buildFlags holds the command-line flags for the build command.
type buildFlags struct {
	inputFlags
	target  int64
	formats string
	output  string
	styled  bool
	showIDs bool
	refresh bool
	pick    bool
	noCache bool
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [events.json...]",
		Short: "Number a publication and write its table of contents",
		Long: `Number a publication and write its table of contents.

The build command reads one or more event files, builds a document tree per
document, expands the publication from its root and numbers every heading
and paragraph under the configured schemes.

With a single format and no --output the result is written to stdout.
With several formats one file per format is written next to the first
input (or next to --output).

Results are cached; use --refresh to recompute them.`,
		Example: `  folio build handbook.json
  folio build handbook.json chapters.json --root 1 -f xml,text -o out/handbook
  folio build handbook.json -f text --styled --pick`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().Int64Var(&flags.target, "target", 0, "only show documents on a path to this document")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.ValidFormats, ", ")+" (comma-separated, default xml)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&flags.styled, "styled", false, "colorize text output")
	cmd.Flags().BoolVar(&flags.showIDs, "show-ids", false, "show document ids in text output")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.pick, "pick", false, "choose the target document interactively")

	return cmd
}

// runBuild executes the pipeline and writes its artifacts.
func (c *CLI) runBuild(ctx context.Context, files []string, flags *buildFlags) error {
	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Files:   files,
		RootID:  flags.root,
		Target:  flags.target,
		Config:  cfg,
		Formats: parseFormats(flags.formats),
		Styled:  flags.styled,
		ShowIDs: flags.showIDs,
		Refresh: flags.refresh,
		Logger:  c.Logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	if flags.pick {
		target, ok, err := c.pickTarget(files, flags.root, cfg)
		if err != nil {
			return err
		}
		if !ok {
			printInfo("No document selected")
			return nil
		}
		opts.Target = target
	}

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, c.spinnerOutput(), "Numbering publication...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return fmt.Errorf("build: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     files[0],
		output:    flags.output,
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	prog.done("Built publication")
	if root, ok := result.Publication.Root(); ok {
		printSuccess("Numbered %s", StyleHighlight.Render(root.Title()))
	}
	printStats(result.Stats.Documents, result.Stats.Entries, result.CacheInfo.TOCHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// pickTarget loads the documents and lets the user choose one.
func (c *CLI) pickTarget(files []string, root int64, cfg *config.Config) (int64, bool, error) {
	bundles, _, err := pipeline.ReadBundles(files, nil)
	if err != nil {
		return 0, false, err
	}
	trees, err := pipeline.BuildTrees(bundles, cfg.TOC.Collapse)
	if err != nil {
		return 0, false, err
	}
	if len(trees) == 0 {
		return 0, false, publication.ErrEmpty
	}
	if root == 0 {
		root = bundles[0].RootID()
	}

	final, err := tea.NewProgram(NewDocumentListModel(documentItems(trees, root))).Run()
	if err != nil {
		return 0, false, fmt.Errorf("document picker: %w", err)
	}
	m := final.(DocumentListModel)
	if m.Selected == nil {
		return 0, false, nil
	}
	return m.Selected.ID, true, nil
}

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes each artifact and returns the paths of the files
// written. A single format without an output path goes to stdout.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if len(p.formats) == 1 && (p.output == "" || p.output == "-") {
		out, _ := openOutput("-")
		_, err := out.Write(p.artifacts[p.formats[0]])
		return nil, err
	}

	var paths []string
	if len(p.formats) == 1 {
		paths = []string{p.output}
	} else {
		base := basePath(p.output, p.input)
		for _, f := range p.formats {
			paths = append(paths, base+"."+extension(f))
		}
	}

	for i, f := range p.formats {
		if err := writeFile(paths[i], p.artifacts[f]); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
