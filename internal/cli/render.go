package cli

import (
	"strings"

	"github.com/spf13/cobra"

	dciio "github.com/matzehuels/dci/pkg/io"
	"github.com/matzehuels/dci/pkg/pipeline"
	"github.com/matzehuels/dci/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string
	formats  string
	pipeline pipeline.Options
}

// renderCommand creates the render command, which turns a saved JSON
// result back into text, DOT or SVG without searching again.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [result file]",
		Short: "Render a saved search result",
		Example: `  dci render result.json -f svg
  dci render result.json -f dot --index 2 -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.pipeline.Formats = parseFormats(opts.formats)
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output path or base path ("-" for stdout)`)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: "+strings.Join(render.Names(), ", ")+" (comma-separated)")
	cmd.Flags().StringVar(&opts.pipeline.Title, "title", "", "diagram title for dot and svg")
	cmd.Flags().IntVar(&opts.pipeline.Index, "index", 0, "render only the n-th graph (counting from 1)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := opts.pipeline.ValidateAndSetDefaults(); err != nil {
		return err
	}

	variables, graphs, err := dciio.ImportJSON(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %d graphs over %d variables", len(graphs), len(variables))

	artifacts, err := pipeline.Render(ctx, variables, graphs, opts.pipeline)
	if err != nil {
		return err
	}

	written, err := writeArtifacts(cmd.OutOrStdout(), artifacts, opts.pipeline.Formats, opts.output, input)
	if err != nil {
		return err
	}
	for _, path := range written {
		logger.Infof("Generated %s", path)
	}
	return nil
}
