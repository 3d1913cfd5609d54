package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"movietracker/models"
)

const recommenderSystemPrompt = `You are a movie recommendation expert. Based on the user's watched movies, ` +
	`suggest similar movies they might enjoy. Return ONLY a JSON array of movie titles, nothing else. ` +
	`Example format: ["Movie Title 1", "Movie Title 2", "Movie Title 3"]`

// CatalogClient is the read-only movie catalog surface the agent needs
type CatalogClient interface {
	SearchMovies(ctx context.Context, query string) ([]models.Movie, error)
	GetMovieDetails(ctx context.Context, tmdbID int) (*models.Movie, error)
	GetPopularMovies(ctx context.Context, count int) ([]models.Movie, error)
}

// ChatClient is a single round-trip chat completion
type ChatClient interface {
	CompleteChat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// RecommendationAgent produces personalized movie recommendations from watch
// history, degrading to the popular listing when the model or its output is
// unusable. Stateless; safe for concurrent use.
type RecommendationAgent struct {
	catalog CatalogClient
	chat    ChatClient
}

// NewRecommendationAgent creates a new recommendation agent
func NewRecommendationAgent(catalog CatalogClient, chat ChatClient) *RecommendationAgent {
	return &RecommendationAgent{catalog: catalog, chat: chat}
}

// Recommend returns up to count catalog-resolved movies. With no watch
// history the popular listing is returned directly. Model suggestions are
// resolved through catalog search and detail fetch in suggestion order;
// unresolvable titles are skipped and any shortfall is backfilled from the
// popular listing. A model, parse or catalog failure before the result is
// complete falls back to popular(count); only a failing popular call
// surfaces as an error.
func (a *RecommendationAgent) Recommend(ctx context.Context, watchedTitles []string, count int) ([]models.Movie, error) {
	if count <= 0 {
		return []models.Movie{}, nil
	}
	if len(watchedTitles) == 0 {
		return a.catalog.GetPopularMovies(ctx, count)
	}

	titles, err := a.suggestTitles(ctx, watchedTitles, count)
	if err != nil {
		log.Printf("Falling back to popular movies: %v", err)
		return a.catalog.GetPopularMovies(ctx, count)
	}

	resolved, err := a.resolveTitles(ctx, titles, count)
	if err != nil {
		log.Printf("Falling back to popular movies: %v", err)
		return a.catalog.GetPopularMovies(ctx, count)
	}

	if len(resolved) < count {
		resolved, err = a.backfill(ctx, resolved, count)
		if err != nil {
			return nil, err
		}
	}

	if len(resolved) > count {
		resolved = resolved[:count]
	}
	return resolved, nil
}

// suggestTitles asks the model for recommendations and parses its reply as a
// JSON array of titles. Not retried on failure.
func (a *RecommendationAgent) suggestTitles(ctx context.Context, watchedTitles []string, count int) ([]string, error) {
	userPrompt := fmt.Sprintf(
		"Based on these movies I've watched: %s\nPlease recommend %d similar movies I might enjoy. Return only a JSON array of movie titles.",
		strings.Join(watchedTitles, ", "), count,
	)

	content, err := a.chat.CompleteChat(ctx, recommenderSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var titles []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &titles); err != nil {
		return nil, fmt.Errorf("model reply is not a JSON array of titles: %w", err)
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("model reply contained no titles")
	}

	return titles, nil
}

// resolveTitles maps suggested titles to fully populated catalog movies in
// suggestion order, taking the first search hit and re-fetching its details.
// Titles with no hit or no detail are skipped; duplicate catalog IDs are
// dropped.
func (a *RecommendationAgent) resolveTitles(ctx context.Context, titles []string, count int) ([]models.Movie, error) {
	if len(titles) > count {
		titles = titles[:count]
	}

	seen := make(map[int]bool, count)
	resolved := make([]models.Movie, 0, count)

	for _, title := range titles {
		hits, err := a.catalog.SearchMovies(ctx, title)
		if err != nil {
			return nil, err
		}
		if len(hits) == 0 {
			continue
		}

		movie, err := a.catalog.GetMovieDetails(ctx, hits[0].TmdbID)
		if err != nil {
			return nil, err
		}
		if movie == nil || seen[movie.TmdbID] {
			continue
		}

		seen[movie.TmdbID] = true
		resolved = append(resolved, *movie)
	}

	return resolved, nil
}

// backfill tops the list up to count with popular entries not already
// present.
func (a *RecommendationAgent) backfill(ctx context.Context, resolved []models.Movie, count int) ([]models.Movie, error) {
	popular, err := a.catalog.GetPopularMovies(ctx, count)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(resolved))
	for _, movie := range resolved {
		seen[movie.TmdbID] = true
	}

	for _, movie := range popular {
		if len(resolved) >= count {
			break
		}
		if seen[movie.TmdbID] {
			continue
		}
		seen[movie.TmdbID] = true
		resolved = append(resolved, movie)
	}

	return resolved, nil
}
