package engine

import (
	"sort"

	"walsets/internal/models"
)

// Aggregate groups indicator rows by their exact bit vector over the chosen
// set columns and counts each distinct combination. Rows outside every chosen
// set are excluded, matching the usual upset/Euler convention. The result is
// ordered by count descending, ties by combination size ascending, then by
// the caller-declared set order applied lexicographically.
//
// An empty sets sequence yields an empty result. A set name with no matching
// column returns *UnknownParameterError. Pure, no I/O.
func Aggregate(t *IndicatorTable, sets []string) ([]models.IntersectionCount, error) {
	if len(sets) == 0 {
		return nil, nil
	}

	// 1. Resolve set columns.
	cols := make([][]uint8, len(sets))
	for i, s := range sets {
		c := t.Column(s)
		if c == nil {
			return nil, &UnknownParameterError{Parameter: s}
		}
		cols[i] = c
	}

	// 2. Group rows by bit vector. The vector itself is the map key.
	counts := make(map[string]int)
	key := make([]byte, len(sets))
	for row := 0; row < t.Rows(); row++ {
		any := false
		for i, c := range cols {
			key[i] = c[row]
			if c[row] == 1 {
				any = true
			}
		}
		if any {
			counts[string(key)]++
		}
	}

	// 3. Order: count desc, cardinality asc, then earlier-declared sets
	// first. Comparing key strings descending gives the last rule, since an
	// earlier set's inclusion flips a more significant byte.
	type group struct {
		key   string
		size  int
		count int
	}
	groups := make([]group, 0, len(counts))
	for k, n := range counts {
		size := 0
		for i := 0; i < len(k); i++ {
			size += int(k[i])
		}
		groups = append(groups, group{key: k, size: size, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		if groups[i].size != groups[j].size {
			return groups[i].size < groups[j].size
		}
		return groups[i].key > groups[j].key
	})

	// 4. Build result.
	out := make([]models.IntersectionCount, 0, len(groups))
	for _, g := range groups {
		comb := make([]string, 0, g.size)
		for i := 0; i < len(g.key); i++ {
			if g.key[i] == 1 {
				comb = append(comb, sets[i])
			}
		}
		out = append(out, models.IntersectionCount{Combination: comb, Count: g.count})
	}
	return out, nil
}
