package chart

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ting0602/trackchart/internal/pipeline"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts json or csv.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown export format %q (use json or csv)", s)
}

type exportTrack struct {
	ID         string  `json:"track_id"`
	Name       string  `json:"track_name"`
	Popularity float64 `json:"popularity"`
	URL        string  `json:"url"`
}

type exportGroup struct {
	Key            string        `json:"key"`
	Count          int           `json:"count"`
	MeanPopularity float64       `json:"mean_popularity"`
	Color          string        `json:"color"`
	Tracks         []exportTrack `json:"tracks"`
}

type exportSummary struct {
	Grouping   pipeline.GroupKey  `json:"grouping"`
	Direction  pipeline.Direction `json:"direction"`
	Filter     pipeline.Filter    `json:"filter"`
	Overflow   bool               `json:"overflow"`
	TrackCount int                `json:"track_count"`
	GroupCount int                `json:"group_count"`
	Groups     []exportGroup      `json:"groups"`
}

// Export writes res to path in the given format.
func Export(path string, format Format, res pipeline.Result, s pipeline.State) error {
	switch format {
	case FormatJSON:
		return WriteJSON(path, res, s)
	case FormatCSV:
		return WriteCSV(path, res)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// WriteJSON writes the ordered groups of res, with their members, to a JSON file.
func WriteJSON(path string, res pipeline.Result, s pipeline.State) error {
	summary := collectExportSummary(res, s)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	file, err := secureOutputFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write JSON file %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes one line per group member, groups in chart order.
func WriteCSV(path string, res pipeline.Result) error {
	file, err := secureOutputFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"group", "count", "mean_popularity", "track_id", "track_name", "popularity"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, g := range res.Groups {
		count := strconv.Itoa(g.Count)
		mean := strconv.FormatFloat(g.Rounded, 'f', 1, 64)
		for _, m := range g.Members {
			row := []string{g.Key, count, mean, m.ID, m.Name, formatRaw(m.Popularity)}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush CSV writer: %w", err)
	}
	return nil
}

func collectExportSummary(res pipeline.Result, s pipeline.State) exportSummary {
	colors := CountScale(res.MaxCount)
	groups := make([]exportGroup, 0, len(res.Groups))
	for _, g := range res.Groups {
		item := exportGroup{
			Key:            g.Key,
			Count:          g.Count,
			MeanPopularity: g.Rounded,
			Color:          colors.Color(g.Count),
			Tracks:         make([]exportTrack, 0, len(g.Members)),
		}
		for _, m := range g.Members {
			item.Tracks = append(item.Tracks, exportTrack{
				ID:         m.ID,
				Name:       m.Name,
				Popularity: m.Popularity,
				URL:        TrackURL(m.ID),
			})
		}
		groups = append(groups, item)
	}

	return exportSummary{
		Grouping:   s.Grouping,
		Direction:  s.Direction,
		Filter:     s.Filter,
		Overflow:   res.Overflow,
		TrackCount: len(res.Records),
		GroupCount: len(groups),
		Groups:     groups,
	}
}

func secureOutputFile(path string) (*os.File, error) {
	if path == "" {
		return nil, errors.New("output path is empty")
	}

	clean := filepath.Clean(path)
	abs, err := filepath.Abs(clean)
	if err != nil {
		return nil, fmt.Errorf("resolve output path %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err == nil {
		if info.IsDir() {
			return nil, fmt.Errorf("output path %s is a directory", abs)
		}
	}

	dirPath := filepath.Dir(abs)
	base := filepath.Base(abs)

	return openFileSecure(abs, dirPath, base)
}
