// Package repository provides data access layer for the movie tracker.
package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"movietracker/database"
	"movietracker/models"
)

// MovieRepository handles database operations for watched and watchlist movies
type MovieRepository struct {
	db *database.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *database.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// GetWatchedMovies retrieves all watched movies, newest first, with their
// reviews attached when present
func (r *MovieRepository) GetWatchedMovies() ([]models.WatchedMovie, error) {
	query := `
		SELECT w.id, w.tmdb_id, w.title, w.poster_path, w.overview, w.release_date,
			   w.director, w.genres, w.rating, w.runtime, w.actors, w.watched_date,
			   r.id, r.comment, r.user_rating, r.created_date, r.updated_date
		FROM watched_movies w
		LEFT JOIN reviews r ON r.watched_movie_id = w.id
		ORDER BY w.watched_date DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query watched movies: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Failed to close rows: %v", err)
		}
	}()

	var movies []models.WatchedMovie
	for rows.Next() {
		movie, err := scanWatchedMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return movies, nil
}

// GetWatchedMovieByID retrieves a watched movie and its review by ID.
// Returns nil without error when no such movie exists.
func (r *MovieRepository) GetWatchedMovieByID(id int) (*models.WatchedMovie, error) {
	query := `
		SELECT w.id, w.tmdb_id, w.title, w.poster_path, w.overview, w.release_date,
			   w.director, w.genres, w.rating, w.runtime, w.actors, w.watched_date,
			   r.id, r.comment, r.user_rating, r.created_date, r.updated_date
		FROM watched_movies w
		LEFT JOIN reviews r ON r.watched_movie_id = w.id
		WHERE w.id = ?
	`

	movie, err := scanWatchedMovie(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return movie, nil
}

// GetWatchlistMovies retrieves all watchlist movies, newest first
func (r *MovieRepository) GetWatchlistMovies() ([]models.WatchlistMovie, error) {
	query := `
		SELECT id, tmdb_id, title, poster_path, overview, release_date,
			   director, genres, rating, runtime, actors, added_date
		FROM watchlist_movies
		ORDER BY added_date DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist movies: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Failed to close rows: %v", err)
		}
	}()

	var movies []models.WatchlistMovie
	for rows.Next() {
		movie, err := scanWatchlistMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return movies, nil
}

// GetWatchlistMovieByID retrieves a watchlist movie by ID.
// Returns nil without error when no such movie exists.
func (r *MovieRepository) GetWatchlistMovieByID(id int) (*models.WatchlistMovie, error) {
	query := `
		SELECT id, tmdb_id, title, poster_path, overview, release_date,
			   director, genres, rating, runtime, actors, added_date
		FROM watchlist_movies
		WHERE id = ?
	`

	movie, err := scanWatchlistMovie(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return movie, nil
}

// AddWatchedMovie inserts a new watched movie
func (r *MovieRepository) AddWatchedMovie(movie *models.WatchedMovie) error {
	actors, err := marshalActors(movie.Actors)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(insertWatchedQuery,
		movie.TmdbID, movie.Title, nullString(movie.PosterPath), nullString(movie.Overview),
		nullTime(movie.ReleaseDate), nullString(movie.Director), nullString(movie.Genres),
		nullFloat64(movie.Rating), nullInt(movie.Runtime), actors, movie.WatchedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to add watched movie: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	movie.ID = int(id)
	return nil
}

// AddWatchlistMovie inserts a new watchlist movie
func (r *MovieRepository) AddWatchlistMovie(movie *models.WatchlistMovie) error {
	query := `
		INSERT INTO watchlist_movies (tmdb_id, title, poster_path, overview, release_date,
									  director, genres, rating, runtime, actors, added_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	actors, err := marshalActors(movie.Actors)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(query,
		movie.TmdbID, movie.Title, nullString(movie.PosterPath), nullString(movie.Overview),
		nullTime(movie.ReleaseDate), nullString(movie.Director), nullString(movie.Genres),
		nullFloat64(movie.Rating), nullInt(movie.Runtime), actors, movie.AddedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to add watchlist movie: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	movie.ID = int(id)
	return nil
}

// UpdateWatchlistMovie updates the catalog-derived fields of a watchlist entry
func (r *MovieRepository) UpdateWatchlistMovie(movie *models.WatchlistMovie) error {
	query := `
		UPDATE watchlist_movies
		SET title = ?, poster_path = ?, overview = ?, release_date = ?,
			director = ?, genres = ?, rating = ?, runtime = ?, actors = ?
		WHERE id = ?
	`

	actors, err := marshalActors(movie.Actors)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(query,
		movie.Title, nullString(movie.PosterPath), nullString(movie.Overview),
		nullTime(movie.ReleaseDate), nullString(movie.Director), nullString(movie.Genres),
		nullFloat64(movie.Rating), nullInt(movie.Runtime), actors, movie.ID,
	); err != nil {
		return fmt.Errorf("failed to update watchlist movie: %w", err)
	}

	return nil
}

// RemoveWatchlistMovie deletes a watchlist entry. Removing a missing entry
// is a no-op.
func (r *MovieRepository) RemoveWatchlistMovie(id int) error {
	if _, err := r.db.Exec(`DELETE FROM watchlist_movies WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove watchlist movie: %w", err)
	}
	return nil
}

// MoveToWatched inserts the watched movie and removes the watchlist entry in
// a single transaction, so a failure between the two rolls back rather than
// leaving the movie in both collections.
func (r *MovieRepository) MoveToWatched(movie *models.WatchedMovie, watchlistID int) error {
	actors, err := marshalActors(movie.Actors)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			log.Printf("Failed to roll back transaction: %v", err)
		}
	}()

	result, err := tx.Exec(insertWatchedQuery,
		movie.TmdbID, movie.Title, nullString(movie.PosterPath), nullString(movie.Overview),
		nullTime(movie.ReleaseDate), nullString(movie.Director), nullString(movie.Genres),
		nullFloat64(movie.Rating), nullInt(movie.Runtime), actors, movie.WatchedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to add watched movie: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM watchlist_movies WHERE id = ?`, watchlistID); err != nil {
		return fmt.Errorf("failed to remove watchlist movie: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit move to watched: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	movie.ID = int(id)
	return nil
}

const insertWatchedQuery = `
	INSERT INTO watched_movies (tmdb_id, title, poster_path, overview, release_date,
								director, genres, rating, runtime, actors, watched_date)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanWatchedMovie(s scanner) (*models.WatchedMovie, error) {
	var movie models.WatchedMovie
	var posterPath, overview, director, genres, actors sql.NullString
	var releaseDate sql.NullTime
	var rating sql.NullFloat64
	var runtime sql.NullInt64
	var reviewID, userRating sql.NullInt64
	var comment sql.NullString
	var createdDate, updatedDate sql.NullTime

	err := s.Scan(
		&movie.ID, &movie.TmdbID, &movie.Title,
		&posterPath, &overview, &releaseDate,
		&director, &genres, &rating, &runtime, &actors, &movie.WatchedDate,
		&reviewID, &comment, &userRating, &createdDate, &updatedDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan watched movie: %w", err)
	}

	if posterPath.Valid {
		movie.PosterPath = posterPath.String
	}
	if overview.Valid {
		movie.Overview = overview.String
	}
	if releaseDate.Valid {
		d := releaseDate.Time
		movie.ReleaseDate = &d
	}
	if director.Valid {
		movie.Director = director.String
	}
	if genres.Valid {
		movie.Genres = genres.String
	}
	if rating.Valid {
		movie.Rating = rating.Float64
	}
	if runtime.Valid {
		movie.Runtime = int(runtime.Int64)
	}
	if actors.Valid {
		movie.Actors = unmarshalActors(actors.String)
	}

	if reviewID.Valid {
		review := &models.Review{
			ID:             int(reviewID.Int64),
			WatchedMovieID: movie.ID,
			Comment:        comment.String,
			CreatedDate:    createdDate.Time,
		}
		if userRating.Valid {
			ur := int(userRating.Int64)
			review.UserRating = &ur
		}
		if updatedDate.Valid {
			ud := updatedDate.Time
			review.UpdatedDate = &ud
		}
		movie.Review = review
	}

	return &movie, nil
}

func scanWatchlistMovie(s scanner) (*models.WatchlistMovie, error) {
	var movie models.WatchlistMovie
	var posterPath, overview, director, genres, actors sql.NullString
	var releaseDate sql.NullTime
	var rating sql.NullFloat64
	var runtime sql.NullInt64

	err := s.Scan(
		&movie.ID, &movie.TmdbID, &movie.Title,
		&posterPath, &overview, &releaseDate,
		&director, &genres, &rating, &runtime, &actors, &movie.AddedDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan watchlist movie: %w", err)
	}

	if posterPath.Valid {
		movie.PosterPath = posterPath.String
	}
	if overview.Valid {
		movie.Overview = overview.String
	}
	if releaseDate.Valid {
		d := releaseDate.Time
		movie.ReleaseDate = &d
	}
	if director.Valid {
		movie.Director = director.String
	}
	if genres.Valid {
		movie.Genres = genres.String
	}
	if rating.Valid {
		movie.Rating = rating.Float64
	}
	if runtime.Valid {
		movie.Runtime = int(runtime.Int64)
	}
	if actors.Valid {
		movie.Actors = unmarshalActors(actors.String)
	}

	return &movie, nil
}

// Actors are stored as a JSON array in a single text column.
func marshalActors(actors []string) (sql.NullString, error) {
	if len(actors) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(actors)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal actors: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalActors(data string) []string {
	var actors []string
	if err := json.Unmarshal([]byte(data), &actors); err != nil {
		log.Printf("Failed to unmarshal actors %q: %v", data, err)
		return nil
	}
	return actors
}

// Helper functions for handling null values
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(i int) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(i), Valid: true}
}

func nullFloat64(f float64) sql.NullFloat64 {
	if f == 0.0 {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
