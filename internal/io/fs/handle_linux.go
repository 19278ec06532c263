//go:build linux

package fs

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/javasync/RxIo/internal/io/dlog"
	"go.uber.org/zap"
)

// adviseSequential tells the kernel the file is read front to back, which
// doubles the readahead window.
func adviseSequential(fd *os.File) {
	if err := unix.Fadvise(int(fd.Fd()), 0, 0, unix.FADV_SEQUENTIAL); err != nil {
		dlog.Logger().Debug("fadvise failed", zap.String("path", fd.Name()), zap.Error(err))
	}
}
