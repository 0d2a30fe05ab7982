package source

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sigar "github.com/cloudfoundry/gosigar"
	"lukechampine.com/blake3"
)

// ErrNoSpace is returned by Store when the cache filesystem cannot hold a body.
var ErrNoSpace = errors.New("not enough free space in cache directory")

// Cache keeps downloaded bodies on disk, keyed by the BLAKE3 digest of their URL.
// A nil *Cache is valid and never hits.
type Cache struct {
	dir string
}

// freeBytes reports the space available to unprivileged users at dir.
var freeBytes = func(dir string) (uint64, error) {
	usage := sigar.FileSystemUsage{}
	if err := usage.Get(dir); err != nil {
		return 0, err
	}
	// gosigar reports in KiB.
	return usage.Avail * 1024, nil
}

// NewCache creates dir if needed and returns a cache rooted there.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache directory is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache directory %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// DefaultDir is the per-user cache directory.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "trackchart"), nil
}

// Path returns the file a body fetched from url is cached in.
func (c *Cache) Path(url string) string {
	sum := blake3.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".csv")
}

// Load returns the cached body of url.
func (c *Cache) Load(url string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	body, err := os.ReadFile(c.Path(url))
	if err != nil {
		return nil, false
	}
	return body, true
}

// Store writes body for url. The file is written next to its final name and renamed
// into place so readers never see a partial body.
func (c *Cache) Store(url string, body []byte) error {
	if c == nil {
		return nil
	}

	avail, err := freeBytes(c.dir)
	if err != nil {
		return fmt.Errorf("query free space: %w", err)
	}
	if uint64(len(body)) >= avail {
		return fmt.Errorf("%w: need %s, have %s", ErrNoSpace,
			sigar.FormatSize(uint64(len(body))), sigar.FormatSize(avail))
	}

	tmp, err := os.CreateTemp(c.dir, ".fetch-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path(url)); err != nil {
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}
