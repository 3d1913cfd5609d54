// Package models defines the data structures used throughout the application.
package models

import "time"

// Movie is the catalog projection of a TMDB entry. It is constructed from
// catalog responses and never persisted directly.
type Movie struct {
	TmdbID      int        `json:"tmdb_id"`
	Title       string     `json:"title"`
	PosterPath  string     `json:"poster_path,omitempty"`
	Overview    string     `json:"overview,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Director    string     `json:"director,omitempty"`
	Genres      string     `json:"genres,omitempty"`
	Rating      float64    `json:"rating,omitempty"`
	Runtime     int        `json:"runtime,omitempty"` // in minutes
	Actors      []string   `json:"actors,omitempty"`  // billed order, at most 5
}

// WatchedMovie is a movie the user has seen, with its watch timestamp and an
// optional one-to-one review.
type WatchedMovie struct {
	ID          int        `json:"id"`
	TmdbID      int        `json:"tmdb_id"`
	Title       string     `json:"title"`
	PosterPath  string     `json:"poster_path,omitempty"`
	Overview    string     `json:"overview,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Director    string     `json:"director,omitempty"`
	Genres      string     `json:"genres,omitempty"`
	Rating      float64    `json:"rating,omitempty"`
	Runtime     int        `json:"runtime,omitempty"`
	Actors      []string   `json:"actors,omitempty"`
	WatchedDate time.Time  `json:"watched_date"`
	Review      *Review    `json:"review,omitempty"`
}

// WatchlistMovie is a movie the user intends to watch. No review relation.
type WatchlistMovie struct {
	ID          int        `json:"id"`
	TmdbID      int        `json:"tmdb_id"`
	Title       string     `json:"title"`
	PosterPath  string     `json:"poster_path,omitempty"`
	Overview    string     `json:"overview,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Director    string     `json:"director,omitempty"`
	Genres      string     `json:"genres,omitempty"`
	Rating      float64    `json:"rating,omitempty"`
	Runtime     int        `json:"runtime,omitempty"`
	Actors      []string   `json:"actors,omitempty"`
	AddedDate   time.Time  `json:"added_date"`
}

// FromMovie copies the descriptive fields of a catalog projection. The
// watched timestamp is left zero; the service layer stamps it.
func (w *WatchedMovie) FromMovie(m Movie) {
	w.TmdbID = m.TmdbID
	w.Title = m.Title
	w.PosterPath = m.PosterPath
	w.Overview = m.Overview
	w.ReleaseDate = m.ReleaseDate
	w.Director = m.Director
	w.Genres = m.Genres
	w.Rating = m.Rating
	w.Runtime = m.Runtime
	w.Actors = m.Actors
}

// AsMovie projects the watchlist entry back onto its catalog fields.
func (w *WatchlistMovie) AsMovie() Movie {
	return Movie{
		TmdbID:      w.TmdbID,
		Title:       w.Title,
		PosterPath:  w.PosterPath,
		Overview:    w.Overview,
		ReleaseDate: w.ReleaseDate,
		Director:    w.Director,
		Genres:      w.Genres,
		Rating:      w.Rating,
		Runtime:     w.Runtime,
		Actors:      w.Actors,
	}
}

// FromMovie copies the descriptive fields of a catalog projection. The added
// timestamp is left zero; the service layer stamps it.
func (w *WatchlistMovie) FromMovie(m Movie) {
	w.TmdbID = m.TmdbID
	w.Title = m.Title
	w.PosterPath = m.PosterPath
	w.Overview = m.Overview
	w.ReleaseDate = m.ReleaseDate
	w.Director = m.Director
	w.Genres = m.Genres
	w.Rating = m.Rating
	w.Runtime = m.Runtime
	w.Actors = m.Actors
}
