package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/pipeline"
	"github.com/matzehuels/folio/pkg/toc"
)

// graphCommand creates the graph command for drawing the reference graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags  inputFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "graph [events.json...]",
		Short: "Draw the reference graph between documents",
		Long: `Draw the reference graph between documents.

Each document is a node; embed references are solid edges and transclude
references dashed ones. The root is drawn bold and references to documents
that were not loaded point to dotted placeholder nodes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != pipeline.FormatDOT && format != pipeline.FormatSVG {
				return fmt.Errorf("invalid format: %q (must be one of: dot, svg)", format)
			}
			return c.runGraph(cmd.Context(), args, flags, format, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, files []string, flags inputFlags, format, output string) error {
	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}
	opts := pipeline.Options{Files: files, RootID: flags.root, Config: cfg, Logger: c.Logger}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	in, err := pipeline.Load(opts, c.Logger)
	if err != nil {
		return err
	}

	data := []byte(toc.ToDOT(in.Publication))
	if format == pipeline.FormatSVG {
		if data, err = toc.RenderSVG(ctx, string(data)); err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	}

	if output == "" {
		output = "-"
	}
	if err := writeFile(output, data); err != nil {
		return err
	}
	if output != "-" {
		printSuccess("Drew %d documents", in.Publication.Len())
		printFile(output)
	}
	return nil
}
