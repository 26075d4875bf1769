package database

import (
	"database/sql"
	"errors"
	"fmt"

	"newsreel/internal/models"
)

// RecordGeneration appends one finished run to the history.
func (db *DB) RecordGeneration(g models.Generation) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO generations (status, progress, filename, mime_type, slide_count, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Status, g.Progress, g.Filename, g.MimeType, g.SlideCount, g.Error,
		formatTime(g.StartedAt), formatTime(g.FinishedAt))
	if err != nil {
		return 0, fmt.Errorf("insert generation: %w", err)
	}
	return res.LastInsertId()
}

// ListGenerations returns up to limit runs, newest first.
func (db *DB) ListGenerations(limit int) ([]models.Generation, error) {
	rows, err := db.conn.Query(`
		SELECT id, status, progress, filename, mime_type, slide_count, error, started_at, finished_at
		FROM generations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gens []models.Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	return gens, rows.Err()
}

// LatestGeneration returns the most recent run, or sql.ErrNoRows wrapped
// when history is empty.
func (db *DB) LatestGeneration() (models.Generation, error) {
	row := db.conn.QueryRow(`
		SELECT id, status, progress, filename, mime_type, slide_count, error, started_at, finished_at
		FROM generations ORDER BY id DESC LIMIT 1`)
	g, err := scanGeneration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return g, fmt.Errorf("no generations recorded: %w", err)
	}
	return g, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row rowScanner) (models.Generation, error) {
	var g models.Generation
	var started, finished string
	err := row.Scan(&g.ID, &g.Status, &g.Progress, &g.Filename, &g.MimeType,
		&g.SlideCount, &g.Error, &started, &finished)
	if err != nil {
		return g, err
	}
	g.StartedAt, _ = parseTime(started)
	g.FinishedAt, _ = parseTime(finished)
	return g, nil
}
