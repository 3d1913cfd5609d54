package jobs

import (
	"context"
	"fmt"
	"log"

	"movietracker/models"
	"movietracker/repository"
	"movietracker/services"
)

// MetadataRefreshJob re-fetches catalog metadata for watchlist entries so
// ratings, posters and overviews stay current between adding a movie and
// watching it.
type MetadataRefreshJob struct {
	movieRepo *repository.MovieRepository
	catalog   services.CatalogClient
}

// NewMetadataRefreshJob creates a new metadata refresh job
func NewMetadataRefreshJob(movieRepo *repository.MovieRepository, catalog services.CatalogClient) *MetadataRefreshJob {
	return &MetadataRefreshJob{movieRepo: movieRepo, catalog: catalog}
}

// RefreshWatchlist updates every watchlist entry from the catalog. Entries
// the catalog no longer knows are left untouched; individual failures are
// logged and do not stop the pass.
func (j *MetadataRefreshJob) RefreshWatchlist(ctx context.Context) error {
	if j.catalog == nil {
		return fmt.Errorf("no catalog client configured")
	}

	movies, err := j.movieRepo.GetWatchlistMovies()
	if err != nil {
		return fmt.Errorf("failed to load watchlist: %w", err)
	}

	refreshed := 0
	for i := range movies {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := j.refreshMovie(ctx, &movies[i]); err != nil {
			log.Printf("Failed to refresh %q: %v", movies[i].Title, err)
			continue
		}
		refreshed++
	}

	log.Printf("Watchlist refresh complete: %d/%d entries updated", refreshed, len(movies))
	return nil
}

func (j *MetadataRefreshJob) refreshMovie(ctx context.Context, movie *models.WatchlistMovie) error {
	details, err := j.catalog.GetMovieDetails(ctx, movie.TmdbID)
	if err != nil {
		return err
	}
	if details == nil {
		return nil
	}

	movie.FromMovie(*details)
	return j.movieRepo.UpdateWatchlistMovie(movie)
}
