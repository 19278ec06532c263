package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/javasync/RxIo/internal/config"
	"github.com/javasync/RxIo/internal/io/dlog"
	"github.com/javasync/RxIo/internal/io/signal"
	"github.com/javasync/RxIo/internal/profiling"
	"github.com/javasync/RxIo/internal/version"
)

// global flags shared by every subcommand
var (
	logLevel    string
	plain       bool
	displayVer  bool
	profFlags   profiling.Flags
	readFlags   readOptionFlags
	exitOnError = func(code int) { os.Exit(code) }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rxio",
	Short: "Non-blocking line reader and asynchronous file writer",
	Long: `rxio reads files line by line on background goroutines and hands the
lines out at the pace the consumer asks for them. It can also read whole
files concurrently and write standard input to a file asynchronously.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if displayVer {
			fmt.Fprintln(cmd.OutOrStdout(), version.PaintedString(decorated(cmd.OutOrStdout())))
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	pf.BoolVar(&plain, "plain", false, "Plain output without decoration")
	profiling.AddFlags(pf, &profFlags)
	rootCmd.Flags().BoolVar(&displayVer, "version", false, "Display version")

	rootCmd.AddCommand(catCmd, readallCmd, writeCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rxio:", err)
		exitOnError(1)
	}
}

// run sets up configuration, logging, profiling and signal handling
// around fn. ctx passed to fn is cancelled on Ctrl+C or SIGTERM.
func run(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config) error) error {
	cfg, err := config.Setup(func(c *config.Config) error {
		if cmd.Flags().Changed("log-level") {
			c.LogLevel = logLevel
		}
		return readFlags.apply(cmd, c)
	})
	if err != nil {
		return err
	}

	logger, err := dlog.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	dlog.SetLogger(logger)
	defer func() {
		_ = logger.Sync()
		dlog.SetLogger(nil)
	}()

	profiler := profiling.NewProfiler(profFlags.ToConfig("rxio_" + cmd.Name()))
	defer profiler.Stop()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	hints := signal.InterruptChWithCancel(ctx, cancel)
	go func() {
		select {
		case hint := <-hints:
			fmt.Fprintln(cmd.ErrOrStderr(), hint)
		case <-ctx.Done():
		}
	}()

	logger.Debug("Running command", zap.String("command", cmd.Name()),
		zap.Int("chunkSize", cfg.ChunkSize), zap.Stringer("errors", cfg.ErrorPolicy),
		zap.Stringer("decode", cfg.DecodePolicy))
	err = fn(ctx, cfg)
	profiler.LogMetrics(cmd.Name())
	return err
}

// decorated reports whether output goes to a terminal and may be styled.
func decorated(w io.Writer) bool {
	if plain {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
