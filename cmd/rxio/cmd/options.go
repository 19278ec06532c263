package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/javasync/RxIo/internal/config"
	"github.com/javasync/RxIo/internal/io/emit"
	"github.com/javasync/RxIo/internal/io/fs"
	"github.com/javasync/RxIo/internal/io/line"
)

// readOptionFlags are the command line overrides of the read options.
type readOptionFlags struct {
	chunkSize  int
	highWater  int
	charset    string
	decode     string
	errors     string
	decompress bool
	openFlags  string
	writeFlags string
	batch      int64
}

func (f *readOptionFlags) addReadFlags(flags *pflag.FlagSet) {
	def := config.Default()
	flags.IntVar(&f.chunkSize, "chunk-size", def.ChunkSize, "Bytes read per chunk")
	flags.StringVar(&f.charset, "charset", def.Charset, "Text encoding of the input")
	flags.StringVar(&f.decode, "decode", def.DecodePolicy.String(), "Malformed input handling (replace, strict)")
	flags.BoolVar(&f.decompress, "decompress", false, "Decompress .zst and .gz input")
	flags.StringVar(&f.openFlags, "open", "read", "Open flags, comma separated")
}

func (f *readOptionFlags) addStreamFlags(flags *pflag.FlagSet) {
	def := config.Default()
	flags.IntVar(&f.highWater, "high-water", def.HighWater, "Buffered lines at which reading pauses")
	flags.StringVar(&f.errors, "errors", def.ErrorPolicy.String(), "Read error delivery (drain, immediate)")
	flags.Int64Var(&f.batch, "batch", def.CatBatch, "Lines requested at a time")
}

func (f *readOptionFlags) addWriteFlags(flags *pflag.FlagSet) {
	flags.StringVar(&f.writeFlags, "flags", "create_new,write", "Open flags of the output file, comma separated")
}

// apply copies every flag the user set into c.
func (f *readOptionFlags) apply(cmd *cobra.Command, c *config.Config) error {
	changed := cmd.Flags().Changed
	var err error
	if changed("chunk-size") {
		c.ChunkSize = f.chunkSize
	}
	if changed("high-water") {
		c.HighWater = f.highWater
	}
	if changed("charset") {
		c.Charset = f.charset
	}
	if changed("decompress") {
		c.Decompress = f.decompress
	}
	if changed("batch") {
		c.CatBatch = f.batch
	}
	if changed("decode") {
		if c.DecodePolicy, err = line.ParseDecodePolicy(f.decode); err != nil {
			return err
		}
	}
	if changed("errors") {
		if c.ErrorPolicy, err = emit.ParseErrorPolicy(f.errors); err != nil {
			return err
		}
	}
	if changed("open") {
		if c.Flags, err = fs.ParseOpenFlags(f.openFlags); err != nil {
			return err
		}
	}
	if changed("flags") {
		if c.WriteFlags, err = fs.ParseOpenFlags(f.writeFlags); err != nil {
			return err
		}
	}
	return nil
}
