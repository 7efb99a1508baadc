package engine

import "walsets/internal/models"

// Recode resolves each observation's raw code to a label through its
// parameter's code table. Absent or unmapped codes get the parameter's
// missing label. After the 1:1 pass, gaps are filled: every seen entity ends
// up with at least one LabeledObservation per declared parameter, so no
// entity ever leaves a parameter with all label bits at zero.
//
// Returns *UnknownParameterError when an observation names a parameter that
// was never declared. Pure function over its inputs.
func Recode(obs []models.Observation, params []models.Parameter) ([]models.LabeledObservation, error) {
	byID := make(map[string]models.Parameter, len(params))
	for _, p := range params {
		byID[p.ID] = p
	}

	// 1. Resolve codes 1:1, tracking entity first-seen order and coverage.
	labeled := make([]models.LabeledObservation, 0, len(obs))
	entities := make([]string, 0)
	covered := make(map[string]map[string]bool) // entity -> parameter -> seen

	for _, o := range obs {
		p, ok := byID[o.Parameter]
		if !ok {
			return nil, &UnknownParameterError{Parameter: o.Parameter}
		}

		label := p.Missing
		if o.Value != "" {
			if l, ok := p.Codes[o.Value]; ok {
				label = l
			}
		}
		labeled = append(labeled, models.LabeledObservation{
			Entity:    o.Entity,
			Parameter: o.Parameter,
			Label:     label,
		})

		if covered[o.Entity] == nil {
			entities = append(entities, o.Entity)
			covered[o.Entity] = make(map[string]bool, len(params))
		}
		covered[o.Entity][o.Parameter] = true
	}

	// 2. Gap fill: synthesize the missing label for every entity x parameter
	// pair without an observation, entities in first-seen order, parameters
	// in declared order.
	for _, e := range entities {
		for _, p := range params {
			if !covered[e][p.ID] {
				labeled = append(labeled, models.LabeledObservation{
					Entity:    e,
					Parameter: p.ID,
					Label:     p.Missing,
				})
			}
		}
	}

	return labeled, nil
}
