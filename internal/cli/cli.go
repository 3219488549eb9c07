package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dci/pkg/buildinfo"
	"github.com/matzehuels/dci/pkg/cache"
	"github.com/matzehuels/dci/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "dci"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// status receives spinners and other transient output.
	status io.Writer
}

// New creates a new CLI instance whose logs and status lines go to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "dci merges overlapping causal models into consistent PAGs",
		Long: `dci reads a set of local causal models over overlapping variable sets and
finds every partial ancestral graph over the union of their variables that
agrees with all of them.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.searchCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the command tree under ctx.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the cache backend for commands that run searches.
type cacheFlags struct {
	noCache  bool
	location string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable result caching")
	cmd.Flags().StringVar(&f.location, "cache", "", "cache location: directory, redis:// or mongodb:// URL (default: user cache dir)")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache.Instrument(cc), nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	location := f.location
	if location == "" {
		dir, err := cache.DefaultDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		location = dir
	}
	return cache.Open(ctx, location)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{string(pipeline.DefaultFormat)}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
