//go:build !unix

package chart

import (
	"fmt"
	"os"
)

func openFileSecure(absPath, _, _ string) (*os.File, error) {
	if info, err := os.Lstat(absPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("export path %s is a symlink", absPath)
	}
	file, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open export file %s: %w", absPath, err)
	}
	return file, nil
}
