package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/dci/pkg/errors"
	dciio "github.com/matzehuels/dci/pkg/io"
	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/pipeline"
)

// browseCommand creates the browse command, an interactive pager over the
// graphs of a saved result or of a fresh search.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags  cacheFlags
		static bool
	)

	cmd := &cobra.Command{
		Use:   "browse [result or problem file]",
		Short: "Page through the graphs of a search interactively",
		Long: `Browse opens a terminal view of every consistent graph. The file may be a
JSON result written by "dci search -f json" or a problem file, which is
searched first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			variables, graphs, err := c.loadGraphs(ctx, args[0], flags)
			if err != nil {
				return err
			}
			if static {
				printGraphTable(cmd.OutOrStdout(), variables, graphs)
				return nil
			}
			p := tea.NewProgram(NewGraphBrowserModel(variables, graphs), tea.WithContext(ctx), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&static, "static", false, "print the summary table and exit")
	flags.register(cmd)

	return cmd
}

// loadGraphs reads a result file, or searches a problem file when path is
// not a result.
func (c *CLI) loadGraphs(ctx context.Context, path string, flags cacheFlags) ([]string, []*pag.Graph, error) {
	logger := loggerFromContext(ctx)

	if format, err := dciio.FormatOf(path); err == nil && format == dciio.FormatJSON {
		variables, graphs, err := dciio.ImportJSON(path)
		if err == nil {
			return variables, graphs, nil
		}
		if !errs.Is(err, errs.ErrCodeInvalidFormat) {
			return nil, nil, err
		}
		logger.Debug("not a result file, loading as problem", "path", path)
	}

	problem, err := dciio.Load(path)
	if err != nil {
		return nil, nil, err
	}
	runner, err := c.newRunner(ctx, flags)
	if err != nil {
		return nil, nil, err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, c.status, "Searching...")
	spinner.Start()
	sr, err := runner.SearchWithCacheInfo(ctx, problem, pipeline.Options{})
	spinner.Stop()
	if err != nil {
		return nil, nil, err
	}
	return sr.Variables, sr.Graphs, nil
}
