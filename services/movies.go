package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"movietracker/models"
	"movietracker/repository"
)

// ErrValidation marks input rejected at the service boundary. Callers branch
// on it with errors.Is to map rejections to bad-request responses.
var ErrValidation = errors.New("invalid input")

// MovieService owns the lifecycle of watched movies, watchlist movies and
// reviews. All timestamps are stamped here; callers cannot supply them.
type MovieService struct {
	movieRepo  *repository.MovieRepository
	reviewRepo *repository.ReviewRepository
}

// NewMovieService creates a new movie service
func NewMovieService(movieRepo *repository.MovieRepository, reviewRepo *repository.ReviewRepository) *MovieService {
	return &MovieService{movieRepo: movieRepo, reviewRepo: reviewRepo}
}

// GetWatchedMovies returns all watched movies, newest first
func (s *MovieService) GetWatchedMovies() ([]models.WatchedMovie, error) {
	return s.movieRepo.GetWatchedMovies()
}

// GetWatchedMovieByID returns a watched movie, or nil when absent
func (s *MovieService) GetWatchedMovieByID(id int) (*models.WatchedMovie, error) {
	return s.movieRepo.GetWatchedMovieByID(id)
}

// GetWatchlistMovies returns all watchlist movies, newest first
func (s *MovieService) GetWatchlistMovies() ([]models.WatchlistMovie, error) {
	return s.movieRepo.GetWatchlistMovies()
}

// WatchedTitles returns the titles of all watched movies, newest first.
// This is the recommendation agent's prompt input.
func (s *MovieService) WatchedTitles() ([]string, error) {
	movies, err := s.movieRepo.GetWatchedMovies()
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(movies))
	for _, movie := range movies {
		titles = append(titles, movie.Title)
	}
	return titles, nil
}

// AddToWatched stamps the watched timestamp and persists the movie
func (s *MovieService) AddToWatched(movie *models.WatchedMovie) error {
	if err := validateMovieFields(movie.Title, movie.PosterPath, movie.Overview, movie.Genres, movie.Director, movie.Actors); err != nil {
		return err
	}
	movie.WatchedDate = time.Now().UTC()
	return s.movieRepo.AddWatchedMovie(movie)
}

// AddToWatchlist stamps the added timestamp and persists the movie
func (s *MovieService) AddToWatchlist(movie *models.WatchlistMovie) error {
	if err := validateMovieFields(movie.Title, movie.PosterPath, movie.Overview, movie.Genres, movie.Director, movie.Actors); err != nil {
		return err
	}
	movie.AddedDate = time.Now().UTC()
	return s.movieRepo.AddWatchlistMovie(movie)
}

// MoveToWatched moves a watchlist entry to the watched collection, copying
// its descriptive fields and stamping a new watched timestamp. A missing
// watchlist ID is a no-op. The insert and delete run as one transaction, so
// the movie never exists in both collections.
func (s *MovieService) MoveToWatched(watchlistID int) error {
	entry, err := s.movieRepo.GetWatchlistMovieByID(watchlistID)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}

	watched := &models.WatchedMovie{}
	watched.FromMovie(entry.AsMovie())
	watched.WatchedDate = time.Now().UTC()

	if err := s.movieRepo.MoveToWatched(watched, watchlistID); err != nil {
		return fmt.Errorf("watchlist transition failed for id %d: %w", watchlistID, err)
	}
	return nil
}

// RemoveFromWatchlist deletes a watchlist entry; missing IDs are a no-op
func (s *MovieService) RemoveFromWatchlist(id int) error {
	return s.movieRepo.RemoveWatchlistMovie(id)
}

// GetReviewByMovieID returns the review for a watched movie, or nil
func (s *MovieService) GetReviewByMovieID(watchedMovieID int) (*models.Review, error) {
	return s.reviewRepo.GetByWatchedMovieID(watchedMovieID)
}

// SaveReview upserts the review for a watched movie. The created date is
// stamped on first save and never changes afterwards.
func (s *MovieService) SaveReview(review *models.Review) error {
	if strings.TrimSpace(review.Comment) == "" {
		return fmt.Errorf("%w: review comment is required", ErrValidation)
	}
	if len(review.Comment) > models.MaxCommentLength {
		return fmt.Errorf("%w: review comment exceeds %d characters", ErrValidation, models.MaxCommentLength)
	}

	review.CreatedDate = time.Now().UTC()
	return s.reviewRepo.Save(review)
}

// Persistence bounds for descriptive string fields.
const (
	maxTitleLength    = 500
	maxPosterLength   = 500
	maxOverviewLength = 2000
	maxGenresLength   = 500
	maxDirectorLength = 200
	maxActorsLength   = 1000 // serialized JSON list
)

func validateMovieFields(title, posterPath, overview, genres, director string, actors []string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, maxTitleLength)
	}
	if len(posterPath) > maxPosterLength {
		return fmt.Errorf("%w: poster path exceeds %d characters", ErrValidation, maxPosterLength)
	}
	if len(overview) > maxOverviewLength {
		return fmt.Errorf("%w: overview exceeds %d characters", ErrValidation, maxOverviewLength)
	}
	if len(genres) > maxGenresLength {
		return fmt.Errorf("%w: genres exceed %d characters", ErrValidation, maxGenresLength)
	}
	if len(director) > maxDirectorLength {
		return fmt.Errorf("%w: director exceeds %d characters", ErrValidation, maxDirectorLength)
	}
	if serialized, err := json.Marshal(actors); err == nil && len(actors) > 0 && len(serialized) > maxActorsLength {
		return fmt.Errorf("%w: actors exceed %d characters when serialized", ErrValidation, maxActorsLength)
	}
	return nil
}
