package engine

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestWriteSQLite(t *testing.T) {
	res := exportFixture()
	path := filepath.Join(t.TempDir(), "walsets.db")

	if err := WriteSQLite(path, res); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT count(*) FROM indicator`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Expected 2 indicator rows, got %d", n)
	}

	var name string
	var sov int
	err = db.QueryRow(`SELECT name, "SOV" FROM indicator WHERE entity = 'L1'`).Scan(&name, &sov)
	if err != nil {
		t.Fatal(err)
	}
	if name != "Japanese" || sov != 1 {
		t.Errorf("L1 row incorrect: name=%q SOV=%d", name, sov)
	}

	if err := db.QueryRow(`SELECT count(*) FROM intersections`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Expected 2 intersection rows, got %d", n)
	}

	// A second write replaces, not appends.
	if err := WriteSQLite(path, res); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow(`SELECT count(*) FROM indicator`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Rewrite appended rows: got %d", n)
	}
}
