package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Folio numbers publications assembled from many documents",
		Long:         `Folio assembles a publication from documents that embed each other, numbers its headings and paragraphs under configurable schemes, and writes the resulting table of contents.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.prefixesCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
