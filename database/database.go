// Package database provides database connectivity and schema management.
package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3" // Import sqlite3 driver
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
func NewDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

// InitSchema initializes the database schema
func (db *DB) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS watched_movies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tmdb_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		poster_path TEXT,
		overview TEXT,
		release_date DATETIME,
		director TEXT,
		genres TEXT,
		rating REAL,
		runtime INTEGER,
		actors TEXT,
		watched_date DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_watched_movies_tmdb_id ON watched_movies(tmdb_id);
	CREATE INDEX IF NOT EXISTS idx_watched_movies_watched_date ON watched_movies(watched_date);

	CREATE TABLE IF NOT EXISTS watchlist_movies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tmdb_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		poster_path TEXT,
		overview TEXT,
		release_date DATETIME,
		director TEXT,
		genres TEXT,
		rating REAL,
		runtime INTEGER,
		actors TEXT,
		added_date DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_watchlist_movies_tmdb_id ON watchlist_movies(tmdb_id);
	CREATE INDEX IF NOT EXISTS idx_watchlist_movies_added_date ON watchlist_movies(added_date);

	CREATE TABLE IF NOT EXISTS reviews (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		watched_movie_id INTEGER NOT NULL,
		comment TEXT NOT NULL,
		user_rating INTEGER,
		created_date DATETIME NOT NULL,
		updated_date DATETIME,
		FOREIGN KEY (watched_movie_id) REFERENCES watched_movies (id) ON DELETE CASCADE
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_watched_movie_id ON reviews(watched_movie_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Println("Database schema initialized")
	return nil
}
