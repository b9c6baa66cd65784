package ioutils

import (
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
)

// FreeSpace returns the bytes available on the filesystem holding dir. A
// dir that does not exist yet is measured at its nearest existing ancestor.
func FreeSpace(dir string) (uint64, error) {
	path := filepath.Clean(dir)
	for {
		if _, err := os.Stat(path); err == nil {
			break
		}
		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}

	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}
