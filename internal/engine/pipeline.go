package engine

import (
	"context"
	"log"
	"time"

	"walsets/internal/config"
	"walsets/internal/models"
)

// Result is the pipeline's full output, the unit the exporters and the API
// consume.
type Result struct {
	Table         *IndicatorTable            `json:"-"`
	Languages     map[string]models.Language `json:"-"`
	Sets          []string                   `json:"sets"`
	Intersections []models.IntersectionCount `json:"intersections"`
}

// Run executes the whole batch pipeline:
// load -> filter -> recode -> binarize -> aggregate.
// Each stage consumes the previous stage's value and returns a new one; the
// first error aborts the run.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	start := time.Now()

	obs, err := LoadObservations(ctx, cfg.Sources.Values)
	if err != nil {
		return nil, err
	}
	obs = FilterParameters(obs, cfg.Parameters)

	params := cfg.Parameters
	if cfg.Sources.Codes != "" {
		codes, err := LoadCodes(ctx, cfg.Sources.Codes)
		if err != nil {
			return nil, err
		}
		params = mergeCodes(params, codes)
	}

	var langs map[string]models.Language
	if cfg.Sources.Languages != "" {
		if langs, err = LoadLanguages(ctx, cfg.Sources.Languages); err != nil {
			return nil, err
		}
	}

	labeled, err := Recode(obs, params)
	if err != nil {
		return nil, err
	}

	order := make([]string, len(params))
	for i, p := range params {
		order[i] = p.ID
	}
	table, err := Binarize(labeled, order)
	if err != nil {
		return nil, err
	}

	intersections, err := Aggregate(table, cfg.Sets)
	if err != nil {
		return nil, err
	}

	log.Printf("Pipeline complete. Entities: %d, Columns: %d, Intersections: %d. Time: %v",
		table.Rows(), len(table.Labels), len(intersections), time.Since(start))

	return &Result{
		Table:         table,
		Languages:     langs,
		Sets:          cfg.Sets,
		Intersections: intersections,
	}, nil
}

// mergeCodes overlays an external code table under the configured parameters.
// Config-inline codes win on conflict.
func mergeCodes(params []models.Parameter, codes map[string]map[string]string) []models.Parameter {
	merged := make([]models.Parameter, len(params))
	for i, p := range params {
		ext := codes[p.ID]
		if len(ext) == 0 {
			merged[i] = p
			continue
		}
		m := make(map[string]string, len(ext)+len(p.Codes))
		for code, label := range ext {
			m[code] = label
		}
		for code, label := range p.Codes {
			m[code] = label
		}
		merged[i] = models.Parameter{ID: p.ID, Missing: p.Missing, Codes: m}
	}
	return merged
}
