package cmd

import (
	"bufio"
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	rxio "github.com/javasync/RxIo"
	"github.com/javasync/RxIo/internal/config"
	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/io/dlog"
)

var writeCmd = &cobra.Command{
	Use:   "write FILE",
	Short: "Write the lines of standard input to FILE asynchronously",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, cfg *config.Config) error {
			return writeLines(ctx, cmd, args[0], cfg)
		})
	},
}

func init() {
	readFlags.addWriteFlags(writeCmd.Flags())
}

func writeLines(ctx context.Context, cmd *cobra.Command, path string, cfg *config.Config) error {
	w, err := rxio.NewWriter(path, cfg.WriteFlags)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	var last *rxio.Future[int64]
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		last = w.WriteLine(scanner.Text())
	}
	// Close waits for every queued write.
	_, closeErr := w.Close().Await(context.WithoutCancel(ctx))
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading standard input")
	}
	if closeErr != nil {
		return closeErr
	}
	if last != nil {
		if _, err := last.Result(); err != nil {
			return err
		}
	}
	dlog.Logger().Info("Wrote file", zap.String("path", path), zap.Int64("bytes", w.Position()))
	return ctx.Err()
}
