package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"walsets/internal/models"
)

var metadataHeader = []string{"name", "latitude", "longitude", "family", "genus"}

// WriteIndicatorCSV writes the wide binary table, one row per entity. When
// langs is non-nil the language metadata is left-joined in by entity id;
// entities without metadata get empty cells.
func WriteIndicatorCSV(w io.Writer, t *IndicatorTable, langs map[string]models.Language) error {
	cw := csv.NewWriter(w)

	header := []string{"entity"}
	if langs != nil {
		header = append(header, metadataHeader...)
	}
	header = append(header, t.Labels...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for i, entity := range t.Entities {
		row = row[:0]
		row = append(row, entity)
		if langs != nil {
			if lang, ok := langs[entity]; ok {
				row = append(row,
					lang.Name,
					strconv.FormatFloat(lang.Latitude, 'f', -1, 64),
					strconv.FormatFloat(lang.Longitude, 'f', -1, 64),
					lang.Family,
					lang.Genus,
				)
			} else {
				row = append(row, "", "", "", "", "")
			}
		}
		for _, bits := range t.Bits {
			row = append(row, strconv.Itoa(int(bits[i])))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteIntersectionsCSV writes one row per intersection, the combination
// joined with "&" the way upset tooling labels its bars.
func WriteIntersectionsCSV(w io.Writer, counts []models.IntersectionCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"combination", "degree", "count"}); err != nil {
		return err
	}
	for _, c := range counts {
		err := cw.Write([]string{
			strings.Join(c.Combination, "&"),
			strconv.Itoa(len(c.Combination)),
			strconv.Itoa(c.Count),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// IndicatorRow is the JSON shape of one entity row.
type IndicatorRow struct {
	Entity   string           `json:"entity"`
	Language *models.Language `json:"language,omitempty"`
	Cells    map[string]uint8 `json:"cells"`
}

// IndicatorRows materializes the table as row objects for JSON output and
// the API. offset/limit slice the rows; limit <= 0 means all remaining.
func IndicatorRows(t *IndicatorTable, langs map[string]models.Language, offset, limit int) []IndicatorRow {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.Entities) {
		offset = len(t.Entities)
	}
	end := len(t.Entities)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	rows := make([]IndicatorRow, 0, end-offset)
	for i := offset; i < end; i++ {
		r := IndicatorRow{Entity: t.Entities[i], Cells: make(map[string]uint8, len(t.Labels))}
		for col, label := range t.Labels {
			r.Cells[label] = t.Bits[col][i]
		}
		if lang, ok := langs[t.Entities[i]]; ok {
			r.Language = &lang
		}
		rows = append(rows, r)
	}
	return rows
}

// WriteIndicatorJSON writes the table as {columns, rows}.
func WriteIndicatorJSON(w io.Writer, t *IndicatorTable, langs map[string]models.Language) error {
	doc := struct {
		Columns []string       `json:"columns"`
		Rows    []IndicatorRow `json:"rows"`
	}{
		Columns: t.Labels,
		Rows:    IndicatorRows(t, langs, 0, 0),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteIntersectionsJSON writes the ordered intersection counts.
func WriteIntersectionsJSON(w io.Writer, counts []models.IntersectionCount) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(counts)
}

// WriteArtifacts writes all four artifacts into dir, creating it if needed.
// Artifacts are staged as temp files and renamed into place only after every
// write succeeds, so a failed run leaves no partial output behind.
func WriteArtifacts(dir string, res *Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func(io.Writer) error
	}{
		{"indicator.csv", func(w io.Writer) error { return WriteIndicatorCSV(w, res.Table, res.Languages) }},
		{"indicator.json", func(w io.Writer) error { return WriteIndicatorJSON(w, res.Table, res.Languages) }},
		{"intersections.csv", func(w io.Writer) error { return WriteIntersectionsCSV(w, res.Intersections) }},
		{"intersections.json", func(w io.Writer) error { return WriteIntersectionsJSON(w, res.Intersections) }},
	}

	staged := make([]string, 0, len(steps))
	cleanup := func() {
		for _, path := range staged {
			os.Remove(path)
		}
	}

	for _, s := range steps {
		path := filepath.Join(dir, s.name+".tmp")
		f, err := os.Create(path)
		if err != nil {
			cleanup()
			return err
		}
		staged = append(staged, path)
		if err := s.fn(f); err != nil {
			f.Close()
			cleanup()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			cleanup()
			return err
		}
	}

	for i, s := range steps {
		if err := os.Rename(staged[i], filepath.Join(dir, s.name)); err != nil {
			cleanup()
			return err
		}
	}

	log.Printf("Artifacts written to %s", dir)
	return nil
}
