package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	rxio "github.com/javasync/RxIo"
	"github.com/javasync/RxIo/internal/config"
	"github.com/javasync/RxIo/internal/io/dlog"
)

var catNumbers bool

var catCmd = &cobra.Command{
	Use:   "cat FILE...",
	Short: "Stream the lines of files with batched demand",
	Long: `cat subscribes to every file in turn and requests its lines in batches.
Reading pauses while the requested lines are printed, so memory stays bounded
regardless of the file size.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, cfg *config.Config) error {
			p := newPrinter(cmd.OutOrStdout(), catNumbers, len(args) > 1)
			defer p.flush()
			for _, path := range args {
				p.header(path)
				if err := catFile(ctx, p, path, cfg); err != nil {
					return err
				}
			}
			return p.flush()
		})
	},
}

func init() {
	readFlags.addReadFlags(catCmd.Flags())
	readFlags.addStreamFlags(catCmd.Flags())
	catCmd.Flags().BoolVarP(&catNumbers, "number", "n", false, "Number the output lines")
}

// catFile prints the lines of path, requesting cfg.CatBatch lines whenever
// the previous batch has been printed.
func catFile(ctx context.Context, p *printer, path string, cfg *config.Config) error {
	var (
		sub      rxio.Subscription
		received int64
		done     = make(chan error, 1)
		batch    = cfg.CatBatch
	)

	rxio.LinesContext(ctx, path, cfg.ReadOptions).Subscribe(
		rxio.DoOnSubscribe(func(s rxio.Subscription) {
			sub = s
			s.Request(batch)
		}).DoOnNext(func(line string) {
			p.line(line)
			if received++; received%batch == 0 {
				sub.Request(batch)
			}
		}).DoOnError(func(err error) {
			done <- err
		}).DoOnComplete(func() {
			done <- nil
		}))

	select {
	case err := <-done:
		dlog.Logger().Debug("Finished file", zap.String("path", path), zap.Int64("lines", received), zap.Error(err))
		return err
	case <-ctx.Done():
		sub.Cancel()
		return ctx.Err()
	}
}
