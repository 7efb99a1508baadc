package engine

import "walsets/internal/models"

// Binarize pivots the labeled stream long-to-wide: one row per entity, one
// 0/1 column per distinct (parameter, label) pair. paramOrder fixes the
// column ordering across parameters; parameters appearing in the stream but
// not in paramOrder are appended in first-seen order. Within a parameter,
// labels keep first-seen order.
//
// Returns *IncompleteEntityError when an entity carries two different labels
// for one parameter (dual-valued source rows that upstream filtering should
// have removed). A repeated identical label is tolerated: the bit is already
// set.
func Binarize(labeled []models.LabeledObservation, paramOrder []string) (*IndicatorTable, error) {
	// 1. First pass: row order, per-parameter label order, cell assignments.
	entities := make([]string, 0)
	rowOf := make(map[string]int)

	paramSeen := make(map[string]bool, len(paramOrder))
	orderedParams := make([]string, 0, len(paramOrder))
	labelsOf := make(map[string][]string)             // parameter -> labels, first-seen
	cells := make(map[[2]string]string, len(labeled)) // (entity, parameter) -> label

	for _, lo := range labeled {
		if _, ok := rowOf[lo.Entity]; !ok {
			rowOf[lo.Entity] = len(entities)
			entities = append(entities, lo.Entity)
		}
		if !paramSeen[lo.Parameter] {
			paramSeen[lo.Parameter] = true
			orderedParams = append(orderedParams, lo.Parameter)
		}

		key := [2]string{lo.Entity, lo.Parameter}
		if prev, ok := cells[key]; ok {
			if prev != lo.Label {
				return nil, &IncompleteEntityError{Entity: lo.Entity, Parameter: lo.Parameter}
			}
			continue
		}
		cells[key] = lo.Label

		known := false
		for _, l := range labelsOf[lo.Parameter] {
			if l == lo.Label {
				known = true
				break
			}
		}
		if !known {
			labelsOf[lo.Parameter] = append(labelsOf[lo.Parameter], lo.Label)
		}
	}

	// 2. Column order: declared parameters first, then stragglers first-seen.
	declared := make(map[string]bool, len(paramOrder))
	columnsBy := make([]string, 0, len(orderedParams))
	for _, p := range paramOrder {
		if paramSeen[p] && !declared[p] {
			declared[p] = true
			columnsBy = append(columnsBy, p)
		}
	}
	for _, p := range orderedParams {
		if !declared[p] {
			columnsBy = append(columnsBy, p)
		}
	}

	t := &IndicatorTable{Entities: entities}
	colOf := make(map[[2]string]int)
	for _, p := range columnsBy {
		for _, l := range labelsOf[p] {
			colOf[[2]string{p, l}] = len(t.Labels)
			t.Labels = append(t.Labels, l)
			t.Parameters = append(t.Parameters, p)
			t.Bits = append(t.Bits, make([]uint8, len(entities)))
		}
	}

	// 3. Fill bits.
	for key, label := range cells {
		col := colOf[[2]string{key[1], label}]
		t.Bits[col][rowOf[key[0]]] = 1
	}

	return t, nil
}
