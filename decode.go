package rxio

import (
	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/io/line"
)

func decodeAll(path string, data []byte, opts Options) (string, error) {
	opts = opts.WithDefaults()
	dec, err := line.NewDecoder(opts.Charset, opts.DecodePolicy)
	if err != nil {
		return "", err
	}
	text, err := dec.Decode(data)
	if err != nil {
		return "", errors.Wrapf(err, "decoding %s", path)
	}
	return text, nil
}
