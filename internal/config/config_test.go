package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ting0602/trackchart/internal/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trackchart.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultMatchesInitialState(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default does not validate: %v", err)
	}
	if got, want := cfg.State(), pipeline.DefaultState(); got != want {
		t.Errorf("State() = %+v, want %+v", got, want)
	}
	if cfg.Data[0] != DefaultDataURL {
		t.Errorf("Data = %v", cfg.Data)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
data:
  - ./a.csv
  - " "
  - https://example.com/b.csv
grouping: artist
direction: ASC
popularity:
  enabled: false
  lower: 120
  upper: -4
rows:
  enabled: true
  lower: 500
  upper: 100
bar_width: 0
fetch_timeout: 5s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Data) != 2 || cfg.Data[1] != "https://example.com/b.csv" {
		t.Errorf("Data = %q", cfg.Data)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %s", cfg.FetchTimeout)
	}

	s := cfg.State()
	if s.Grouping != pipeline.GroupByArtist || s.Direction != pipeline.Ascending {
		t.Errorf("grouping/direction = %s/%s", s.Grouping, s.Direction)
	}
	f := s.Filter
	if f.PopularityOn || f.PopularityLower != 0 || f.PopularityUpper != 100 {
		t.Errorf("popularity filter = %+v", f)
	}
	if !f.RowsOn || f.RowLower != 100 || f.RowUpper != 500 {
		t.Errorf("row filter = %+v", f)
	}
	if s.BarWidth != 1 {
		t.Errorf("BarWidth = %d, want 1", s.BarWidth)
	}
	// Keys not in the file keep their defaults.
	if cfg.LogFile != DefaultLogFile {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.State() != pipeline.DefaultState() {
		t.Errorf("empty file should keep defaults, got %+v", cfg.State())
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := Load(writeConfig(t, "colour: red\n")); err == nil {
		t.Error("unknown key should be rejected")
	}

	cases := []struct {
		body string
		want error
	}{
		{"data: []\n", ErrNoData},
		{"grouping: genre\n", ErrInvalidGrouping},
		{"direction: sideways\n", ErrInvalidDirection},
		{"log_level: loud\n", ErrInvalidLogLevel},
		{"fetch_concurrency: -1\n", ErrInvalidConcurrency},
	}
	for _, tc := range cases {
		if _, err := Load(writeConfig(t, tc.body)); !errors.Is(err, tc.want) {
			t.Errorf("Load(%q) error = %v, want %v", tc.body, err, tc.want)
		}
	}
}

func TestCache(t *testing.T) {
	cfg := Default()
	cfg.NoCache = true
	if c, err := cfg.Cache(); c != nil || err != nil {
		t.Errorf("NoCache: got %v, %v", c, err)
	}

	cfg.NoCache = false
	cfg.CacheDir = filepath.Join(t.TempDir(), "c")
	c, err := cfg.Cache()
	if err != nil || c == nil {
		t.Fatalf("Cache() = %v, %v", c, err)
	}
	if filepath.Dir(c.Path("u")) != cfg.CacheDir {
		t.Errorf("cache path %s not under %s", c.Path("u"), cfg.CacheDir)
	}
}

func TestParseRange(t *testing.T) {
	lo, hi, err := ParseRange(" 10, 90")
	if err != nil || lo != 10 || hi != 90 {
		t.Errorf("ParseRange = %d, %d, %v", lo, hi, err)
	}
	for _, bad := range []string{"", "10", "a,b", "1,2,3"} {
		if _, _, err := ParseRange(bad); err == nil {
			t.Errorf("ParseRange(%q) should fail", bad)
		}
	}
}
