package rxio

import (
	"context"

	"github.com/javasync/RxIo/internal/future"
	"github.com/javasync/RxIo/internal/io/fs"
)

// ReadAll reads the whole file at path and decodes it with the charset
// and decode policy of opts. Lines are not split.
func ReadAll(path string, opts Options) *Future[string] {
	return ReadAllContext(context.Background(), path, opts)
}

// ReadAllContext is ReadAll stopping early when ctx is done.
func ReadAllContext(ctx context.Context, path string, opts Options) *Future[string] {
	return future.Go(func() (string, error) {
		data, err := fs.ReadAllFile(ctx, path, opts)
		if err != nil {
			return "", err
		}
		return decodeAll(path, data, opts)
	})
}

// ReadAllBytes reads the whole file at path.
func ReadAllBytes(path string, opts Options) *Future[[]byte] {
	return ReadAllBytesContext(context.Background(), path, opts)
}

// ReadAllBytesContext is ReadAllBytes stopping early when ctx is done.
func ReadAllBytesContext(ctx context.Context, path string, opts Options) *Future[[]byte] {
	return future.Go(func() ([]byte, error) {
		return fs.ReadAllFile(ctx, path, opts)
	})
}
