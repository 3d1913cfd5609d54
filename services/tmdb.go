// Package services provides external service integrations and application services.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"movietracker/models"
)

const tmdbImageBaseURL = "https://image.tmdb.org/t/p/w500"

// TMDBService handles interactions with The Movie Database API
type TMDBService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// tmdbSearchResponse is the envelope for search and popular listings
type tmdbSearchResponse struct {
	Results []tmdbMovieResult `json:"results"`
}

// tmdbMovieResult is a single entry in a search or popular listing
type tmdbMovieResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// tmdbMovieDetails is a full movie response including credits
type tmdbMovieDetails struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	PosterPath  string      `json:"poster_path"`
	Overview    string      `json:"overview"`
	ReleaseDate string      `json:"release_date"`
	VoteAverage float64     `json:"vote_average"`
	Runtime     int         `json:"runtime"`
	Genres      []tmdbGenre `json:"genres"`
	Credits     tmdbCredits `json:"credits"`
}

type tmdbGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type tmdbCredits struct {
	Cast []tmdbCastMember `json:"cast"`
	Crew []tmdbCrewMember `json:"crew"`
}

type tmdbCastMember struct {
	Name string `json:"name"`
}

type tmdbCrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

var _ CatalogClient = (*TMDBService)(nil)

// NewTMDBService creates a new TMDB service instance
func NewTMDBService(apiKey, baseURL string) *TMDBService {
	return &TMDBService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SearchMovies performs a text search against the catalog. An empty or
// whitespace query returns an empty list without a network call. A response
// body that does not decode yields an empty list, not an error.
func (t *TMDBService) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Movie{}, nil
	}

	params := url.Values{}
	params.Set("api_key", t.apiKey)
	params.Set("query", query)
	endpoint := fmt.Sprintf("%s/search/movie?%s", t.baseURL, params.Encode())

	var response tmdbSearchResponse
	if err := t.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	movies := make([]models.Movie, 0, len(response.Results))
	for _, result := range response.Results {
		movies = append(movies, mapToMovie(result))
	}

	return movies, nil
}

// GetMovieDetails fetches full metadata for a catalog ID, including genres,
// runtime, up to 5 billed actors and the director. Returns nil without error
// when the catalog has no such ID.
func (t *TMDBService) GetMovieDetails(ctx context.Context, tmdbID int) (*models.Movie, error) {
	params := url.Values{}
	params.Set("api_key", t.apiKey)
	params.Set("append_to_response", "credits")
	endpoint := fmt.Sprintf("%s/movie/%d?%s", t.baseURL, tmdbID, params.Encode())

	var details tmdbMovieDetails
	if err := t.getJSON(ctx, endpoint, &details); err != nil {
		if err == errNotFound {
			return nil, nil
		}
		return nil, err
	}
	if details.ID == 0 {
		return nil, nil
	}

	movie := &models.Movie{
		TmdbID:      details.ID,
		Title:       details.Title,
		PosterPath:  posterURL(details.PosterPath),
		Overview:    details.Overview,
		ReleaseDate: ParseReleaseDate(details.ReleaseDate),
		Rating:      details.VoteAverage,
		Runtime:     details.Runtime,
	}

	genreNames := make([]string, 0, len(details.Genres))
	for _, genre := range details.Genres {
		genreNames = append(genreNames, genre.Name)
	}
	movie.Genres = strings.Join(genreNames, ", ")

	for i, cast := range details.Credits.Cast {
		if i >= 5 {
			break
		}
		movie.Actors = append(movie.Actors, cast.Name)
	}

	for _, crew := range details.Credits.Crew {
		if crew.Job == "Director" {
			movie.Director = crew.Name
			break
		}
	}

	return movie, nil
}

// GetPopularMovies fetches the first page of the popular listing truncated
// to count entries. This is the universal fallback source for the
// recommendation agent.
func (t *TMDBService) GetPopularMovies(ctx context.Context, count int) ([]models.Movie, error) {
	if count <= 0 {
		return []models.Movie{}, nil
	}

	params := url.Values{}
	params.Set("api_key", t.apiKey)
	params.Set("page", "1")
	endpoint := fmt.Sprintf("%s/movie/popular?%s", t.baseURL, params.Encode())

	var response tmdbSearchResponse
	if err := t.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	if len(response.Results) > count {
		response.Results = response.Results[:count]
	}

	movies := make([]models.Movie, 0, len(response.Results))
	for _, result := range response.Results {
		movies = append(movies, mapToMovie(result))
	}

	return movies, nil
}

var errNotFound = fmt.Errorf("not found")

// getJSON issues a GET request and decodes the body into out. A body that
// fails to decode is logged and left as the zero value; only transport and
// HTTP-status failures surface as errors.
func (t *TMDBService) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build TMDB request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach TMDB: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Printf("Failed to decode TMDB response: %v", err)
	}

	return nil
}

func mapToMovie(result tmdbMovieResult) models.Movie {
	return models.Movie{
		TmdbID:      result.ID,
		Title:       result.Title,
		PosterPath:  posterURL(result.PosterPath),
		Overview:    result.Overview,
		ReleaseDate: ParseReleaseDate(result.ReleaseDate),
		Rating:      result.VoteAverage,
	}
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbImageBaseURL + path
}

// ParseReleaseDate parses a catalog date string. It tries the date-only
// format first, then RFC 3339; anything else maps to unset. Total over all
// input strings.
func ParseReleaseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if date, err := time.Parse("2006-01-02", value); err == nil {
		return &date
	}
	if date, err := time.Parse(time.RFC3339, value); err == nil {
		return &date
	}

	return nil
}
