//go:build unix

package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// openFileSecure creates or truncates name inside dir without following a symlink
// planted at the final path component.
func openFileSecure(absPath, dir, name string) (*os.File, error) {
	if name != filepath.Clean(name) || name == "." || name == ".." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid output filename %q", name)
	}

	// #nosec G304 -- dir comes from filepath.Abs of the user supplied output path
	dirHandle, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open directory %s: %w", dir, err)
	}
	defer dirHandle.Close()

	flags := unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC | unix.O_CLOEXEC | unix.O_NOFOLLOW
	fd, err := unix.Openat(int(dirHandle.Fd()), name, flags, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open export file %s: %w", absPath, err)
	}

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("stat export file %s: %w", absPath, err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFREG {
		unix.Close(fd)
		return nil, fmt.Errorf("export path %s is not a regular file", absPath)
	}

	return os.NewFile(uintptr(fd), absPath), nil
}
