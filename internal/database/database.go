package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	conn *sql.DB
	path string
}

func New(path string) (*DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(2)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func (db *DB) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id         TEXT    PRIMARY KEY,
			position   INTEGER NOT NULL,
			title      TEXT    NOT NULL,
			content    TEXT    NOT NULL,
			image_url  TEXT    NOT NULL DEFAULT '',
			url        TEXT    NOT NULL,
			author     TEXT    NOT NULL,
			date       TEXT    NOT NULL DEFAULT '',
			fetched_at TEXT    NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS generations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			status      TEXT    NOT NULL,
			progress    INTEGER NOT NULL DEFAULT 0,
			filename    TEXT    NOT NULL DEFAULT '',
			mime_type   TEXT    NOT NULL DEFAULT '',
			slide_count INTEGER NOT NULL DEFAULT 0,
			error       TEXT    NOT NULL DEFAULT '',
			started_at  TEXT    NOT NULL,
			finished_at TEXT    NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_position ON articles(position)`,
		`CREATE INDEX IF NOT EXISTS idx_generations_started ON generations(started_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}
