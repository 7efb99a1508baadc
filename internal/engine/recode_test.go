package engine

import (
	"errors"
	"testing"

	"walsets/internal/models"
)

var wordOrderParams = []models.Parameter{
	{ID: "81A", Missing: "woNA", Codes: map[string]string{"1": "SOV", "2": "SVO"}},
	{ID: "87A", Missing: "adjNA", Codes: map[string]string{"1": "ADJN", "2": "NADJ"}},
}

func TestRecode(t *testing.T) {
	// 1. Setup: L1 fully coded, L2 has an empty value for 87A,
	// L3 has no 87A observation at all, L4 carries an unmapped code.
	obs := []models.Observation{
		{Entity: "L1", Parameter: "81A", Value: "1"},
		{Entity: "L1", Parameter: "87A", Value: "2"},
		{Entity: "L2", Parameter: "81A", Value: "2"},
		{Entity: "L2", Parameter: "87A", Value: ""},
		{Entity: "L3", Parameter: "81A", Value: "1"},
		{Entity: "L4", Parameter: "81A", Value: "9"},
	}

	// 2. Run
	labeled, err := Recode(obs, wordOrderParams)
	if err != nil {
		t.Fatal(err)
	}

	// 3. Assertions
	// Every entity must end up with exactly one label per parameter:
	// 4 entities x 2 parameters = 8 labeled observations.
	if len(labeled) != 8 {
		t.Fatalf("Expected 8 labeled observations, got %d", len(labeled))
	}

	got := make(map[string]string)
	for _, lo := range labeled {
		got[lo.Entity+"/"+lo.Parameter] = lo.Label
	}

	want := map[string]string{
		"L1/81A": "SOV", "L1/87A": "NADJ",
		"L2/81A": "SVO", "L2/87A": "adjNA", // empty value -> missing label
		"L3/81A": "SOV", "L3/87A": "adjNA", // gap filled
		"L4/81A": "woNA", "L4/87A": "adjNA", // unmapped code -> missing label
	}
	for k, label := range want {
		if got[k] != label {
			t.Errorf("%s: expected %q, got %q", k, label, got[k])
		}
	}
}

func TestRecodeUnknownParameter(t *testing.T) {
	obs := []models.Observation{
		{Entity: "L1", Parameter: "99Z", Value: "1"},
	}

	_, err := Recode(obs, wordOrderParams)

	var upe *UnknownParameterError
	if !errors.As(err, &upe) {
		t.Fatalf("Expected UnknownParameterError, got %v", err)
	}
	if upe.Parameter != "99Z" {
		t.Errorf("Expected parameter 99Z in error, got %q", upe.Parameter)
	}
}
