package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const searchPayload = `{
	"results": [
		{"id": 603, "title": "The Matrix", "poster_path": "/matrix.jpg",
		 "overview": "A hacker discovers reality is a simulation",
		 "release_date": "1999-03-31", "vote_average": 8.2},
		{"id": 604, "title": "The Matrix Reloaded", "release_date": ""}
	]
}`

const detailsPayload = `{
	"id": 603, "title": "The Matrix", "poster_path": "/matrix.jpg",
	"overview": "A hacker discovers reality is a simulation",
	"release_date": "1999-03-31", "vote_average": 8.2, "runtime": 136,
	"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}],
	"credits": {
		"cast": [
			{"name": "Keanu Reeves"}, {"name": "Laurence Fishburne"},
			{"name": "Carrie-Anne Moss"}, {"name": "Hugo Weaving"},
			{"name": "Gloria Foster"}, {"name": "Joe Pantoliano"}
		],
		"crew": [
			{"name": "Don Davis", "job": "Original Music Composer"},
			{"name": "Lana Wachowski", "job": "Director"},
			{"name": "Lilly Wachowski", "job": "Director"}
		]
	}
}`

func newTestTMDB(t *testing.T, handler http.HandlerFunc) (*TMDBService, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewTMDBService("test-key", server.URL), server
}

func TestTMDBService_SearchMovies_EmptyQuerySkipsNetwork(t *testing.T) {
	called := false
	tmdb, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	for _, query := range []string{"", "   ", "\t\n"} {
		movies, err := tmdb.SearchMovies(context.Background(), query)
		assert.NoError(t, err)
		assert.Empty(t, movies)
	}
	assert.False(t, called)
}

func TestTMDBService_SearchMovies_MapsResults(t *testing.T) {
	tmdb, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "The Matrix", r.URL.Query().Get("query"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(searchPayload))
	})

	movies, err := tmdb.SearchMovies(context.Background(), "The Matrix")
	assert.NoError(t, err)
	assert.Len(t, movies, 2)

	assert.Equal(t, 603, movies[0].TmdbID)
	assert.Equal(t, "The Matrix", movies[0].Title)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/matrix.jpg", movies[0].PosterPath)
	assert.Equal(t, 8.2, movies[0].Rating)
	assert.NotNil(t, movies[0].ReleaseDate)

	// Absent fields stay unset
	assert.Empty(t, movies[1].PosterPath)
	assert.Nil(t, movies[1].ReleaseDate)
}

func TestTMDBService_SearchMovies_MalformedBodyYieldsEmptyList(t *testing.T) {
	tmdb, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	})

	movies, err := tmdb.SearchMovies(context.Background(), "anything")
	assert.NoError(t, err)
	assert.Empty(t, movies)
}

func TestTMDBService_SearchMovies_ServerErrorFails(t *testing.T) {
	tmdb, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := tmdb.SearchMovies(context.Background(), "anything")
	assert.Error(t, err)
}

func TestTMDBService_GetMovieDetails(t *testing.T) {
	tmdb, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603", r.URL.Path)
		assert.Equal(t, "credits", r.URL.Query().Get("append_to_response"))
		w.Write([]byte(detailsPayload))
	})

	movie, err := tmdb.GetMovieDetails(context.Background(), 603)
	assert.NoError(t, err)
	assert.NotNil(t, movie)
	assert.Equal(t, 603, movie.TmdbID)
	assert.Equal(t, "Action, Science Fiction", movie.Genres)
	assert.Equal(t, 136, movie.Runtime)
	// Cast truncated to the first five billed actors, in order
	assert.Equal(t, []string{"Keanu Reeves", "Laurence Fishburne", "Carrie-Anne Moss", "Hugo Weaving", "Gloria Foster"}, movie.Actors)
	// First crew member with the Director job wins
	assert.Equal(t, "Lana Wachowski", movie.Director)
}

func TestTMDBService_GetMovieDetails_NotFound(t *testing.T) {
	tmdb, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	movie, err := tmdb.GetMovieDetails(context.Background(), 999999)
	assert.NoError(t, err)
	assert.Nil(t, movie)
}

func TestTMDBService_GetPopularMovies_Truncates(t *testing.T) {
	tmdb, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/popular", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		w.Write([]byte(searchPayload))
	})

	movies, err := tmdb.GetPopularMovies(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, movies, 1)
	assert.Equal(t, "The Matrix", movies[0].Title)
}

func TestTMDBService_GetPopularMovies_ZeroCount(t *testing.T) {
	called := false
	tmdb, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	movies, err := tmdb.GetPopularMovies(context.Background(), 0)
	assert.NoError(t, err)
	assert.Empty(t, movies)
	assert.False(t, called)
}

func TestParseReleaseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *time.Time
	}{
		{"date only", "1999-03-31", timePtr(time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC))},
		{"rfc3339", "1999-03-31T12:30:00Z", timePtr(time.Date(1999, 3, 31, 12, 30, 0, 0, time.UTC))},
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"garbage", "next tuesday", nil},
		{"wrong order", "31-03-1999", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReleaseDate(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
				assert.True(t, tt.want.Equal(*got))
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
