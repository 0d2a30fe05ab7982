// Package config holds the settings trackchart starts with. Values come from
// Default, an optional YAML file and finally the command line.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ting0602/trackchart/internal/pipeline"
	"github.com/ting0602/trackchart/internal/source"
)

// DefaultDataURL is the public copy of the tracks table.
const DefaultDataURL = "http://vis.lab.djosix.com:2023/data/spotify_tracks.csv"

const DefaultLogFile = "trackchart.log"

var (
	ErrNoData             = errors.New("no data location configured")
	ErrInvalidGrouping    = errors.New("invalid grouping")
	ErrInvalidDirection   = errors.New("invalid sort direction")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidConcurrency = errors.New("fetch concurrency must not be negative")
)

// Range is an optional inclusive filter window.
type Range struct {
	Enabled bool `yaml:"enabled"`
	Lower   int  `yaml:"lower"`
	Upper   int  `yaml:"upper"`
}

type Config struct {
	// Data lists the CSV locations, URLs or file paths. Later sources are merged
	// into earlier ones.
	Data []string `yaml:"data"`

	// CacheDir holds downloaded bodies. Empty selects the user cache directory.
	CacheDir         string        `yaml:"cache_dir,omitempty"`
	NoCache          bool          `yaml:"no_cache,omitempty"`
	FetchConcurrency int           `yaml:"fetch_concurrency,omitempty"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout,omitempty"`

	Grouping   string `yaml:"grouping"`
	Direction  string `yaml:"direction"`
	Popularity Range  `yaml:"popularity"`
	Rows       Range  `yaml:"rows"`
	BarWidth   int    `yaml:"bar_width"`

	LogFile  string `yaml:"log_file,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	s := pipeline.DefaultState()
	return Config{
		Data:             []string{DefaultDataURL},
		FetchConcurrency: source.DefaultConcurrency,
		FetchTimeout:     source.DefaultTimeout,
		Grouping:         string(s.Grouping),
		Direction:        string(s.Direction),
		Popularity: Range{
			Enabled: s.Filter.PopularityOn,
			Lower:   s.Filter.PopularityLower,
			Upper:   s.Filter.PopularityUpper,
		},
		Rows: Range{
			Enabled: s.Filter.RowsOn,
			Lower:   s.Filter.RowLower,
			Upper:   s.Filter.RowUpper,
		},
		BarWidth: s.BarWidth,
		LogFile:  DefaultLogFile,
		LogLevel: "info",
	}
}

// Load reads a YAML file over Default and validates the result. Unknown keys are
// rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	// #nosec G304
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate normalises c in place. Enumerations are rewritten to their canonical
// names and ranges are clamped; only values that cannot be repaired are errors.
func (c *Config) Validate() error {
	data := c.Data[:0]
	for _, loc := range c.Data {
		if loc = strings.TrimSpace(loc); loc != "" {
			data = append(data, loc)
		}
	}
	c.Data = data
	if len(c.Data) == 0 {
		return ErrNoData
	}

	key, err := pipeline.ParseGroupKey(c.Grouping)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidGrouping, c.Grouping)
	}
	c.Grouping = string(key)

	dir, err := pipeline.ParseDirection(c.Direction)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, c.Direction)
	}
	c.Direction = string(dir)

	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
		}
	}

	if c.FetchConcurrency < 0 {
		return ErrInvalidConcurrency
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = source.DefaultTimeout
	}

	c.Popularity.Lower, c.Popularity.Upper = pipeline.ClampPopularity(c.Popularity.Lower, c.Popularity.Upper)
	c.Rows.Lower, c.Rows.Upper = pipeline.ClampRows(c.Rows.Lower, c.Rows.Upper)
	c.BarWidth = pipeline.ClampBarWidth(c.BarWidth)
	return nil
}

// State returns the initial pipeline state described by c. Call Validate first.
func (c Config) State() pipeline.State {
	return pipeline.State{
		Filter: pipeline.Filter{
			PopularityOn:    c.Popularity.Enabled,
			PopularityLower: c.Popularity.Lower,
			PopularityUpper: c.Popularity.Upper,
			RowsOn:          c.Rows.Enabled,
			RowLower:        c.Rows.Lower,
			RowUpper:        c.Rows.Upper,
		},
		Grouping:  pipeline.GroupKey(c.Grouping),
		Direction: pipeline.Direction(c.Direction),
		BarWidth:  c.BarWidth,
	}
}

// Cache opens the download cache, or returns nil when caching is off.
func (c Config) Cache() (*source.Cache, error) {
	if c.NoCache {
		return nil, nil
	}
	dir := c.CacheDir
	if dir == "" {
		d, err := source.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("locate cache directory: %w", err)
		}
		dir = d
	}
	return source.NewCache(dir)
}

// ParseRange reads "lo,hi" as used by the -popularity and -rows flags.
func ParseRange(s string) (lo, hi int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("range %q: want lo,hi", s)
	}
	if _, err := fmt.Sscan(strings.TrimSpace(parts[0]), &lo); err != nil {
		return 0, 0, fmt.Errorf("range %q: lower bound: %w", s, err)
	}
	if _, err := fmt.Sscan(strings.TrimSpace(parts[1]), &hi); err != nil {
		return 0, 0, fmt.Errorf("range %q: upper bound: %w", s, err)
	}
	return lo, hi, nil
}
