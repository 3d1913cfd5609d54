package repository

import (
	"testing"
	"time"

	"movietracker/database"
	"movietracker/models"

	"github.com/stretchr/testify/assert"
)

func setupReviewTestRepos(t *testing.T) (*MovieRepository, *ReviewRepository, func()) {
	testDB, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := testDB.InitSchema(); err != nil {
		t.Fatalf("Failed to initialize test schema: %v", err)
	}

	cleanup := func() {
		if err := testDB.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	}

	return NewMovieRepository(testDB), NewReviewRepository(testDB), cleanup
}

func addWatchedForReview(t *testing.T, movies *MovieRepository) *models.WatchedMovie {
	movie := &models.WatchedMovie{
		TmdbID:      603,
		Title:       "The Matrix",
		WatchedDate: time.Now().UTC(),
	}
	if err := movies.AddWatchedMovie(movie); err != nil {
		t.Fatalf("Failed to add watched movie: %v", err)
	}
	return movie
}

func TestReviewRepository_GetByWatchedMovieID_Missing(t *testing.T) {
	_, reviews, cleanup := setupReviewTestRepos(t)
	defer cleanup()

	got, err := reviews.GetByWatchedMovieID(1)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestReviewRepository_SaveCreatesReview(t *testing.T) {
	movies, reviews, cleanup := setupReviewTestRepos(t)
	defer cleanup()

	movie := addWatchedForReview(t, movies)

	rating := 9
	review := &models.Review{
		WatchedMovieID: movie.ID,
		Comment:        "Blew my mind",
		UserRating:     &rating,
		CreatedDate:    time.Now().UTC(),
	}
	assert.NoError(t, reviews.Save(review))
	assert.NotZero(t, review.ID)

	got, err := reviews.GetByWatchedMovieID(movie.ID)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "Blew my mind", got.Comment)
	assert.Equal(t, 9, *got.UserRating)
	assert.Nil(t, got.UpdatedDate)
}

func TestReviewRepository_SaveTwiceUpdatesInPlace(t *testing.T) {
	movies, reviews, cleanup := setupReviewTestRepos(t)
	defer cleanup()

	movie := addWatchedForReview(t, movies)

	first := &models.Review{
		WatchedMovieID: movie.ID,
		Comment:        "First impression",
		CreatedDate:    time.Now().UTC(),
	}
	assert.NoError(t, reviews.Save(first))
	created := first.CreatedDate

	rating := 7
	second := &models.Review{
		WatchedMovieID: movie.ID,
		Comment:        "On rewatch it holds up",
		UserRating:     &rating,
		CreatedDate:    time.Now().UTC().Add(time.Hour), // must be ignored on update
	}
	assert.NoError(t, reviews.Save(second))

	got, err := reviews.GetByWatchedMovieID(movie.ID)
	assert.NoError(t, err)
	assert.NotNil(t, got)

	// Exactly one review: the update kept the original row
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "On rewatch it holds up", got.Comment)
	assert.Equal(t, 7, *got.UserRating)
	assert.NotNil(t, got.UpdatedDate)
	assert.WithinDuration(t, created, got.CreatedDate, time.Second)
}
