package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	rxio "github.com/javasync/RxIo"
	"github.com/javasync/RxIo/internal/config"
)

var readallCmd = &cobra.Command{
	Use:   "readall FILE...",
	Short: "Read whole files concurrently and print them in order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, cfg *config.Config) error {
			contents, err := readAll(ctx, args, cfg.ReadOptions)
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout(), false, len(args) > 1)
			for i, path := range args {
				p.header(path)
				p.raw([]byte(contents[i]))
			}
			return p.flush()
		})
	},
}

func init() {
	readFlags.addReadFlags(readallCmd.Flags())
}

// readAll reads every path at once. The first failure cancels the others.
func readAll(ctx context.Context, paths []string, opts rxio.Options) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	contents := make([]string, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			s, err := rxio.ReadAllContext(ctx, path, opts).Await(ctx)
			contents[i] = s
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}
