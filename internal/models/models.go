package models

// Observation is one long-form data point: an entity's raw coded value for a
// parameter. An empty Value means the source carried no code for the pair.
type Observation struct {
	Entity    string `json:"entity"`
	Parameter string `json:"parameter"`
	Value     string `json:"value,omitempty"`
}

// Parameter declares one typological dimension: its code table and the
// namespaced label substituted when an entity has no value for it.
// Declaration order in the config is the column order of the indicator table.
type Parameter struct {
	ID      string            `yaml:"id" json:"id"`
	Missing string            `yaml:"missing" json:"missing"`
	Codes   map[string]string `yaml:"codes" json:"codes,omitempty"`
}

// LabeledObservation is an Observation with its code resolved to a label.
type LabeledObservation struct {
	Entity    string `json:"entity"`
	Parameter string `json:"parameter"`
	Label     string `json:"label"`
}

// Language is display metadata joined onto indicator rows by entity id.
type Language struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Family    string  `json:"family"`
	Genus     string  `json:"genus"`
}

// IntersectionCount is one bar of an upset plot: the entities belonging to
// exactly the listed sets and to none of the other chosen sets.
type IntersectionCount struct {
	Combination []string `json:"combination"`
	Count       int      `json:"count"`
}
