package database

import (
	"fmt"
	"time"

	"newsreel/internal/models"
)

// ReplaceArticles swaps the cached batch for a fresh one atomically. Feed
// order is preserved via the position column.
func (db *DB) ReplaceArticles(articles []models.Article) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM articles`); err != nil {
		return fmt.Errorf("clear articles: %w", err)
	}

	now := formatTime(time.Now())
	for i, a := range articles {
		_, err := tx.Exec(`
			INSERT INTO articles (id, position, title, content, image_url, url, author, date, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, i, a.Title, a.Content, a.ImageURL, a.URL, a.Author, a.Date, now)
		if err != nil {
			return fmt.Errorf("insert article %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// ListArticles returns the cached batch in feed order.
func (db *DB) ListArticles() ([]models.Article, error) {
	rows, err := db.conn.Query(`
		SELECT id, title, content, image_url, url, author, date
		FROM articles ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.ImageURL, &a.URL, &a.Author, &a.Date); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ArticleCount reports the size of the cached batch.
func (db *DB) ArticleCount() (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&n)
	return n, err
}
