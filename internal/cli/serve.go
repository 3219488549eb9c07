package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dci/internal/api"
)

// serveCommand creates the serve command, which exposes the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		flags cacheFlags
		cfg   api.Config
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve searches over HTTP",
		Example: `  dci serve --addr :8080
  dci serve --cache redis://localhost:6379/0 --timeout 2m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, flags)
			if err != nil {
				return err
			}
			defer runner.Close()

			return api.New(runner, c.Logger, cfg).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 5*time.Minute, "per-request search timeout")
	cmd.Flags().Int64Var(&cfg.MaxBodyBytes, "max-body", 1<<20, "maximum request body size in bytes")
	flags.register(cmd)

	return cmd
}
