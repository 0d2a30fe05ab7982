package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ting0602/trackchart/internal/track"
)

// ErrMissingIDColumn is returned when a source has no track_id column.
var ErrMissingIDColumn = errors.New("dataset: missing " + track.ColID + " column")

// Read parses a single CSV source with the default merge policy.
func Read(r io.Reader) (*Dataset, error) {
	b := NewBuilder(DefaultMergePolicy)
	if err := b.ReadCSV(r); err != nil {
		return nil, err
	}
	return b.Dataset(), nil
}

// ReadAll parses every source in order into one dataset, as if the sources were a
// single table. Each source carries its own header line.
func ReadAll(sources [][]byte) (*Dataset, error) {
	b := NewBuilder(DefaultMergePolicy)
	for i, src := range sources {
		if err := b.ReadCSV(bytes.NewReader(src)); err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
	}
	return b.Dataset(), nil
}

// ReadCSV reads a header line followed by data rows. Short rows read their missing
// columns as empty strings; a malformed CSV aborts the whole read.
func (b *Builder) ReadCSV(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return ErrMissingIDColumn
		}
		return fmt.Errorf("read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	hasID := false
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[i] = h
		if h == track.ColID {
			hasID = true
		}
	}
	if !hasID {
		return ErrMissingIDColumn
	}

	for {
		fields, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read CSV row: %w", err)
		}
		row := make(track.Row, len(columns))
		for i, col := range columns {
			if i < len(fields) {
				row[col] = fields[i]
			}
		}
		b.Add(row)
	}
}
