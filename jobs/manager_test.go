package jobs

import (
	"context"
	"testing"
	"time"

	"movietracker/database"
	"movietracker/models"
	"movietracker/repository"

	"github.com/stretchr/testify/assert"
)

// stubCatalog returns fixed details for every lookup
type stubCatalog struct {
	details map[int]*models.Movie
}

func (s *stubCatalog) SearchMovies(_ context.Context, _ string) ([]models.Movie, error) {
	return nil, nil
}

func (s *stubCatalog) GetMovieDetails(_ context.Context, tmdbID int) (*models.Movie, error) {
	return s.details[tmdbID], nil
}

func (s *stubCatalog) GetPopularMovies(_ context.Context, _ int) ([]models.Movie, error) {
	return nil, nil
}

func setupTestJobManager(t *testing.T) (*JobManager, *repository.MovieRepository, *stubCatalog, func()) {
	testDB, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := testDB.InitSchema(); err != nil {
		t.Fatalf("Failed to initialize test schema: %v", err)
	}

	movieRepo := repository.NewMovieRepository(testDB)
	catalog := &stubCatalog{details: make(map[int]*models.Movie)}
	jm := NewJobManager(NewMetadataRefreshJob(movieRepo, catalog))

	cleanup := func() {
		if jm.IsRunning() {
			jm.Stop()
		}
		if err := testDB.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	}

	return jm, movieRepo, catalog, cleanup
}

func TestJobManager_StartStop(t *testing.T) {
	jm, _, _, cleanup := setupTestJobManager(t)
	defer cleanup()

	assert.False(t, jm.IsRunning())

	jm.Start()
	assert.True(t, jm.IsRunning())

	// Starting twice is harmless
	jm.Start()
	assert.True(t, jm.IsRunning())

	jm.Stop()
	assert.False(t, jm.IsRunning())

	// Stopping twice is harmless
	jm.Stop()
	assert.False(t, jm.IsRunning())
}

func TestJobManager_TriggerRefresh(t *testing.T) {
	jm, movieRepo, catalog, cleanup := setupTestJobManager(t)
	defer cleanup()

	entry := &models.WatchlistMovie{
		TmdbID:    603,
		Title:     "The Matrix",
		Rating:    7.0,
		AddedDate: time.Now().UTC(),
	}
	assert.NoError(t, movieRepo.AddWatchlistMovie(entry))

	catalog.details[603] = &models.Movie{
		TmdbID: 603,
		Title:  "The Matrix",
		Rating: 8.2,
	}

	jm.TriggerRefresh()

	// The refresh runs in the background; wait for it to land
	assert.Eventually(t, func() bool {
		got, err := movieRepo.GetWatchlistMovieByID(entry.ID)
		return err == nil && got != nil && got.Rating == 8.2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMetadataRefreshJob_UpdatesWatchlistEntries(t *testing.T) {
	_, movieRepo, catalog, cleanup := setupTestJobManager(t)
	defer cleanup()

	entry := &models.WatchlistMovie{
		TmdbID:    603,
		Title:     "The Matrix",
		Rating:    7.0,
		AddedDate: time.Now().UTC(),
	}
	assert.NoError(t, movieRepo.AddWatchlistMovie(entry))

	catalog.details[603] = &models.Movie{
		TmdbID:   603,
		Title:    "The Matrix",
		Rating:   8.2,
		Runtime:  136,
		Genres:   "Action, Science Fiction",
		Director: "Lana Wachowski",
	}

	job := NewMetadataRefreshJob(movieRepo, catalog)
	assert.NoError(t, job.RefreshWatchlist(context.Background()))

	got, err := movieRepo.GetWatchlistMovieByID(entry.ID)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, 8.2, got.Rating)
	assert.Equal(t, 136, got.Runtime)
	assert.Equal(t, "Lana Wachowski", got.Director)
}

func TestMetadataRefreshJob_UnknownEntriesLeftUntouched(t *testing.T) {
	_, movieRepo, catalog, cleanup := setupTestJobManager(t)
	defer cleanup()

	entry := &models.WatchlistMovie{
		TmdbID:    999999,
		Title:     "Obscure Film",
		Rating:    6.5,
		AddedDate: time.Now().UTC(),
	}
	assert.NoError(t, movieRepo.AddWatchlistMovie(entry))

	job := NewMetadataRefreshJob(movieRepo, catalog)
	assert.NoError(t, job.RefreshWatchlist(context.Background()))

	got, err := movieRepo.GetWatchlistMovieByID(entry.ID)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "Obscure Film", got.Title)
	assert.Equal(t, 6.5, got.Rating)
}
