package engine

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// WriteSQLite writes both artifacts into a sqlite database at path for
// downstream SQL exploration. Existing tables are replaced; the whole write
// is one transaction.
func WriteSQLite(path string, res *Result) error {
	start := time.Now()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Indicator table: metadata columns plus one INTEGER column per label.
	cols := []string{
		`"entity" TEXT PRIMARY KEY`,
		`"name" TEXT`, `"latitude" REAL`, `"longitude" REAL`,
		`"family" TEXT`, `"genus" TEXT`,
	}
	for _, label := range res.Table.Labels {
		cols = append(cols, fmt.Sprintf("%s INTEGER NOT NULL", quoteIdent(label)))
	}
	stmts := []string{
		`DROP TABLE IF EXISTS indicator`,
		`DROP TABLE IF EXISTS intersections`,
		fmt.Sprintf("CREATE TABLE indicator (%s)", strings.Join(cols, ", ")),
		`CREATE TABLE intersections (combination TEXT NOT NULL, degree INTEGER NOT NULL, count INTEGER NOT NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
	}

	placeholders := strings.TrimRight(strings.Repeat("?, ", 6+len(res.Table.Labels)), ", ")
	insert, err := tx.Prepare("INSERT INTO indicator VALUES (" + placeholders + ")")
	if err != nil {
		return err
	}
	defer insert.Close()

	args := make([]any, 0, 6+len(res.Table.Labels))
	for i, entity := range res.Table.Entities {
		args = args[:0]
		lang := res.Languages[entity]
		args = append(args, entity, lang.Name, lang.Latitude, lang.Longitude, lang.Family, lang.Genus)
		for _, bits := range res.Table.Bits {
			args = append(args, int(bits[i]))
		}
		if _, err := insert.Exec(args...); err != nil {
			return fmt.Errorf("sqlite insert %s: %w", entity, err)
		}
	}

	for _, c := range res.Intersections {
		_, err := tx.Exec(`INSERT INTO intersections VALUES (?, ?, ?)`,
			strings.Join(c.Combination, "&"), len(c.Combination), c.Count)
		if err != nil {
			return fmt.Errorf("sqlite insert intersection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Sqlite sink written to %s. Time: %v", path, time.Since(start))
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
