package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/numbering"
	"github.com/matzehuels/folio/pkg/pipeline"
)

// prefixesCommand creates the prefixes command.
func (c *CLI) prefixesCommand() *cobra.Command {
	var (
		flags       inputFlags
		asJSON      bool
		transcluded bool
	)

	cmd := &cobra.Command{
		Use:   "prefixes [events.json...]",
		Short: "List every computed prefix",
		Long: `List every computed prefix.

Prefixes are keyed by document id and occurrence, optionally narrowed to a
fragment and the element index within it. With --transcluded the prefixes
recorded for transcluded elements are listed instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPrefixes(cmd.Context(), args, flags, asJSON, transcluded)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&transcluded, "transcluded", false, "list transcluded prefixes")

	return cmd
}

// prefixRow is one listed prefix.
type prefixRow struct {
	Key string `json:"key"`
	numbering.Prefix
}

func (c *CLI) runPrefixes(ctx context.Context, files []string, flags inputFlags, asJSON, transcluded bool) error {
	res, err := c.numberFiles(ctx, files, flags)
	if err != nil {
		return err
	}

	rows := prefixRows(res, transcluded)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	if len(rows) == 0 {
		printInfo("No prefixes")
		return nil
	}
	fmt.Println(prefixTable(rows))
	return nil
}

// numberFiles loads the publication from files and numbers it without
// touching the cache.
func (c *CLI) numberFiles(ctx context.Context, files []string, flags inputFlags) (*numbering.Result, error) {
	cfg, err := loadConfig(flags.config)
	if err != nil {
		return nil, err
	}
	opts := pipeline.Options{Files: files, RootID: flags.root, Config: cfg, Logger: c.Logger}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	in, err := pipeline.Load(opts, c.Logger)
	if err != nil {
		return nil, err
	}
	_, res, err := pipeline.NewRunner(nil, nil, c.Logger).Number(ctx, in.Publication, cfg)
	return res, err
}

// prefixRows lists the prefixes of res in key order.
func prefixRows(res *numbering.Result, transcluded bool) []prefixRow {
	keys, lookup := res.Keys(), res.Prefix
	if transcluded {
		keys, lookup = res.TranscludedKeys(), res.TranscludedPrefix
	}
	rows := make([]prefixRow, 0, len(keys))
	for _, k := range keys {
		p, _ := lookup(k)
		rows = append(rows, prefixRow{Key: k.String(), Prefix: p})
	}
	return rows
}

func prefixTable(rows []prefixRow) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.Key, fmt.Sprint(r.Level), r.Value, r.Canonical, r.ParentNumber}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Level", "Prefix", "Canonical", "Parent").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 2:
				return StyleNumber
			case col == 0:
				return StyleValue
			}
			return StyleDim
		}).
		Render()
}
