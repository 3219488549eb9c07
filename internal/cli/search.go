package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	dciio "github.com/matzehuels/dci/pkg/io"
	"github.com/matzehuels/dci/pkg/pipeline"
	"github.com/matzehuels/dci/pkg/render"
)

// searchOpts holds the command-line flags for the search command.
type searchOpts struct {
	output  string
	formats string
	cache   cacheFlags
	summary bool

	depth         int
	workers       int
	completeRules bool
	maxTrekLength int

	pipeline pipeline.Options
}

// searchCommand creates the search command, which runs a problem file
// through the search and render stages.
func (c *CLI) searchCommand() *cobra.Command {
	var opts searchOpts

	cmd := &cobra.Command{
		Use:   "search [problem file]",
		Short: "Find every PAG consistent with a set of local models",
		Long: `Search reads a problem file (TOML, YAML or JSON) describing local models
and writes every PAG over the union of their variables that agrees with all
of them.

Flags override the options set in the file.`,
		Example: `  dci search models.toml
  dci search models.yaml -f json,svg -o out/result
  dci search models.toml --depth 2 --complete-rules --refresh`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.pipeline.Formats = parseFormats(opts.formats)
			applySearchFlags(cmd, &opts)
			return c.runSearch(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output path or base path ("-" for stdout)`)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: "+strings.Join(render.Names(), ", ")+" (comma-separated)")
	cmd.Flags().IntVar(&opts.depth, "depth", -1, "bound on conditioning set size (-1 for none)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "trek worker pool size (0 for one per CPU)")
	cmd.Flags().BoolVar(&opts.completeRules, "complete-rules", false, "apply orientation rules R5 to R10")
	cmd.Flags().IntVar(&opts.maxTrekLength, "max-trek-length", -1, "bound on nodes per trek (-1 for none)")
	cmd.Flags().BoolVar(&opts.pipeline.Exhaustive, "exhaustive", false, "check every collider set without pruning")
	cmd.Flags().BoolVar(&opts.pipeline.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().StringVar(&opts.pipeline.Title, "title", "", "diagram title for dot and svg")
	cmd.Flags().BoolVar(&opts.pipeline.Underlines, "underlines", false, "annotate underlined triples in dot and svg")
	cmd.Flags().IntVar(&opts.pipeline.Index, "index", 0, "render only the n-th graph (counting from 1)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print a table of the graphs instead of writing artifacts")
	opts.cache.register(cmd)

	return cmd
}

// applySearchFlags copies only the search flags the user set, so unset
// flags keep the problem file's values.
func applySearchFlags(cmd *cobra.Command, opts *searchOpts) {
	flags := cmd.Flags()
	if flags.Changed("depth") {
		opts.pipeline.Search.Depth = &opts.depth
	}
	if flags.Changed("workers") {
		opts.pipeline.Search.Workers = &opts.workers
	}
	if flags.Changed("complete-rules") {
		opts.pipeline.Search.CompleteRules = &opts.completeRules
	}
	if flags.Changed("max-trek-length") {
		opts.pipeline.Search.MaxTrekLength = &opts.maxTrekLength
	}
}

func (c *CLI) runSearch(cmd *cobra.Command, input string, opts searchOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	problem, err := dciio.Load(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d models", input, len(problem.Specs))

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := c.executeWithSpinner(ctx, runner, problem, opts.pipeline)
	if err != nil {
		return err
	}
	prog.done("search finished",
		"graphs", len(result.Graphs),
		"variables", len(result.Variables),
		"cached", result.CacheInfo.SearchHit)

	if s := result.Stats.Search; s != nil {
		logger.Debug("search stats",
			"skeletons", s.Skeletons,
			"candidates", s.Candidates,
			"pruned", s.Pruned,
			"peak_memory", s.PeakMemory)
	}

	if opts.summary {
		printGraphTable(cmd.OutOrStdout(), result.Variables, result.Graphs)
		printStats(len(result.Variables), len(result.Graphs), result.CacheInfo.SearchHit)
		return nil
	}

	written, err := writeArtifacts(cmd.OutOrStdout(), result.Artifacts, opts.pipeline.Formats, opts.output, input)
	if err != nil {
		return err
	}
	if len(result.Graphs) == 0 {
		logger.Warn("no graph agrees with every model")
	}
	if len(written) == 0 {
		return nil
	}
	printSuccess("Wrote %d files", len(written))
	for _, path := range written {
		printFile(path)
	}
	printStats(len(result.Variables), len(result.Graphs), result.CacheInfo.SearchHit)
	for i, f := range opts.pipeline.Formats {
		if f == string(render.FormatJSON) {
			printNextStep("Browse the result", "dci browse "+written[i])
		}
	}
	return nil
}

// executeWithSpinner runs the pipeline while showing a spinner.
func (c *CLI) executeWithSpinner(ctx context.Context, runner *pipeline.Runner, problem *dciio.Problem, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinnerWithContext(ctx, c.status, "Searching...")
	spinner.Start()
	result, err := runner.Execute(ctx, problem, opts)
	if err != nil && spinner.Cancelled() {
		spinner.StopWithError("Search cancelled")
		return nil, err
	}
	spinner.Stop()
	return result, err
}
