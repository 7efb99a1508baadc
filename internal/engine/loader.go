package engine

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"walsets/internal/models"
)

// openSource opens a URL over HTTP or anything else as a local path.
// The caller's context bounds the fetch.
func openSource(ctx context.Context, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return resp.Body, nil
	}
	return os.Open(source)
}

// readCSV reads all records and resolves the wanted header columns to
// indexes. Header names are matched case-insensitively; a wanted name not in
// the header falls back to its position in `wanted`.
func readCSV(ctx context.Context, source string, wanted ...string) ([][]string, []int, error) {
	rc, err := openSource(ctx, source)
	if err != nil {
		return nil, nil, &DataSourceError{Source: source, Err: err}
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1 // ragged metadata rows are tolerated, short rows are skipped below
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, &DataSourceError{Source: source, Err: err}
	}
	if len(records) == 0 {
		return nil, nil, &DataSourceError{Source: source, Err: fmt.Errorf("empty input")}
	}

	header := records[0]
	idx := make([]int, len(wanted))
	for i, name := range wanted {
		idx[i] = i // positional fallback
		for j, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				idx[i] = j
				break
			}
		}
	}
	return records[1:], idx, nil
}

// LoadObservations fetches the long-form values table
// {entity_id, parameter_id, value}. An empty value cell survives as an empty
// Value, to be recoded into the parameter's missing label downstream.
func LoadObservations(ctx context.Context, source string) ([]models.Observation, error) {
	start := time.Now()

	rows, idx, err := readCSV(ctx, source, "entity_id", "parameter_id", "value")
	if err != nil {
		return nil, err
	}

	field := func(row []string, i int) string {
		if len(row) > idx[i] {
			return strings.TrimSpace(row[idx[i]])
		}
		return ""
	}

	obs := make([]models.Observation, 0, len(rows))
	for _, row := range rows {
		o := models.Observation{
			Entity:    field(row, 0),
			Parameter: field(row, 1),
			Value:     field(row, 2),
		}
		if o.Entity == "" || o.Parameter == "" {
			continue
		}
		obs = append(obs, o)
	}

	log.Printf("Observations loaded. Rows: %d. Time: %v", len(obs), time.Since(start))
	return obs, nil
}

// LoadLanguages fetches the optional entity metadata table
// {entity_id, name, latitude, longitude, family, genus} keyed by entity id.
func LoadLanguages(ctx context.Context, source string) (map[string]models.Language, error) {
	start := time.Now()

	rows, idx, err := readCSV(ctx, source, "entity_id", "name", "latitude", "longitude", "family", "genus")
	if err != nil {
		return nil, err
	}

	field := func(row []string, i int) string {
		if len(row) > idx[i] {
			return strings.TrimSpace(row[idx[i]])
		}
		return ""
	}

	langs := make(map[string]models.Language, len(rows))
	for _, row := range rows {
		id := field(row, 0)
		if id == "" {
			continue
		}
		lang := models.Language{
			ID:     id,
			Name:   field(row, 1),
			Family: field(row, 4),
			Genus:  field(row, 5),
		}
		// Unparseable coordinates stay at 0; the join is for display only.
		lang.Latitude, _ = strconv.ParseFloat(field(row, 2), 64)
		lang.Longitude, _ = strconv.ParseFloat(field(row, 3), 64)
		langs[id] = lang
	}

	log.Printf("Languages loaded. Rows: %d. Time: %v", len(langs), time.Since(start))
	return langs, nil
}

// LoadCodes fetches the optional external code table
// {parameter_id, code, label} as parameter -> code -> label.
func LoadCodes(ctx context.Context, source string) (map[string]map[string]string, error) {
	rows, idx, err := readCSV(ctx, source, "parameter_id", "code", "label")
	if err != nil {
		return nil, err
	}

	field := func(row []string, i int) string {
		if len(row) > idx[i] {
			return strings.TrimSpace(row[idx[i]])
		}
		return ""
	}

	codes := make(map[string]map[string]string)
	for _, row := range rows {
		param := field(row, 0)
		code := field(row, 1)
		label := field(row, 2)
		if param == "" || code == "" || label == "" {
			continue
		}
		if codes[param] == nil {
			codes[param] = make(map[string]string)
		}
		codes[param][code] = label
	}
	return codes, nil
}

// FilterParameters keeps only observations for the declared parameters.
func FilterParameters(obs []models.Observation, params []models.Parameter) []models.Observation {
	declared := make(map[string]bool, len(params))
	for _, p := range params {
		declared[p.ID] = true
	}

	kept := make([]models.Observation, 0, len(obs))
	for _, o := range obs {
		if declared[o.Parameter] {
			kept = append(kept, o)
		}
	}
	return kept
}
