//go:build !linux

package fs

import "os"

func adviseSequential(*os.File) {}
