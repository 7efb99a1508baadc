package engine

// IndicatorTable holds the one-hot pivot in Struct-of-Arrays format:
// one bit slice per label column, all of length len(Entities).
type IndicatorTable struct {
	// Row order, first-seen
	Entities []string

	// Column order: declared parameter order, then first-seen label order
	// within each parameter. Parameters[i] is the parameter Labels[i]
	// belongs to.
	Labels     []string
	Parameters []string

	// Bits[i][row] == 1 when entity `row` carries Labels[i]
	Bits [][]uint8
}

// Rows reports the number of entity rows.
func (t *IndicatorTable) Rows() int { return len(t.Entities) }

// Column returns the bit slice for a label, or nil when no column has that
// label.
func (t *IndicatorTable) Column(label string) []uint8 {
	for i, l := range t.Labels {
		if l == label {
			return t.Bits[i]
		}
	}
	return nil
}
