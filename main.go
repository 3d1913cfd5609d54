// Package main provides the entry point for the movie tracker application.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"movietracker/config"
	"movietracker/database"
	"movietracker/jobs"
	"movietracker/models"
	"movietracker/repository"
	"movietracker/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

const defaultRecommendationCount = 3

// recommender produces catalog-resolved movie recommendations
type recommender interface {
	Recommend(ctx context.Context, watchedTitles []string, count int) ([]models.Movie, error)
}

// App represents the application with its dependencies
type App struct {
	movieService *services.MovieService
	catalog      services.CatalogClient
	agent        recommender
	jobManager   *jobs.JobManager
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Initialize database
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	if err := db.InitSchema(); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	// Initialize repositories and services
	movieRepo := repository.NewMovieRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	movieService := services.NewMovieService(movieRepo, reviewRepo)

	tmdbService := services.NewTMDBService(cfg.TMDBAPIKey, cfg.TMDBBaseURL)
	openAIService := services.NewOpenAIService(cfg.OpenAIEndpoint, cfg.OpenAIModel, cfg.OpenAIAPIKey)
	agent := services.NewRecommendationAgent(tmdbService, openAIService)

	// Background watchlist metadata refresh
	refreshJob := jobs.NewMetadataRefreshJob(movieRepo, tmdbService)
	jobManager := jobs.NewJobManager(refreshJob)
	jobManager.Start()
	defer jobManager.Stop()

	app := &App{
		movieService: movieService,
		catalog:      tmdbService,
		agent:        agent,
		jobManager:   jobManager,
	}

	r := mux.NewRouter()

	// Health check endpoint
	r.HandleFunc("/health", healthHandler).Methods("GET")

	// API routes
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/watched", app.getWatchedHandler).Methods("GET")
	api.HandleFunc("/watched", app.addWatchedHandler).Methods("POST")
	api.HandleFunc("/watched/{id}", app.getWatchedByIDHandler).Methods("GET")
	api.HandleFunc("/watched/{id}/review", app.getReviewHandler).Methods("GET")
	api.HandleFunc("/watched/{id}/review", app.saveReviewHandler).Methods("PUT")

	api.HandleFunc("/watchlist", app.getWatchlistHandler).Methods("GET")
	api.HandleFunc("/watchlist", app.addWatchlistHandler).Methods("POST")
	api.HandleFunc("/watchlist/refresh", app.refreshWatchlistHandler).Methods("POST")
	api.HandleFunc("/watchlist/{id}", app.removeWatchlistHandler).Methods("DELETE")
	api.HandleFunc("/watchlist/{id}/watched", app.moveToWatchedHandler).Methods("POST")

	api.HandleFunc("/recommendations", app.getRecommendationsHandler).Methods("GET")
	api.HandleFunc("/search", app.searchMoviesHandler).Methods("GET")

	log.Println("Server starting on", cfg.ListenAddr)
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Fatal(server.ListenAndServe())
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (app *App) getWatchedHandler(w http.ResponseWriter, _ *http.Request) {
	movies, err := app.movieService.GetWatchedMovies()
	if err != nil {
		log.Printf("Error getting watched movies: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if movies == nil {
		movies = []models.WatchedMovie{}
	}

	writeJSON(w, http.StatusOK, movies)
}

func (app *App) addWatchedHandler(w http.ResponseWriter, r *http.Request) {
	var movie models.WatchedMovie
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := app.movieService.AddToWatched(&movie); err != nil {
		if errors.Is(err, services.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error adding watched movie: %v", err)
		http.Error(w, "Failed to add watched movie", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, movie)
}

func (app *App) getWatchedByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	movie, err := app.movieService.GetWatchedMovieByID(id)
	if err != nil {
		log.Printf("Error getting watched movie: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if movie == nil {
		http.Error(w, "Movie not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

func (app *App) getWatchlistHandler(w http.ResponseWriter, _ *http.Request) {
	movies, err := app.movieService.GetWatchlistMovies()
	if err != nil {
		log.Printf("Error getting watchlist: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if movies == nil {
		movies = []models.WatchlistMovie{}
	}

	writeJSON(w, http.StatusOK, movies)
}

func (app *App) addWatchlistHandler(w http.ResponseWriter, r *http.Request) {
	var movie models.WatchlistMovie
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := app.movieService.AddToWatchlist(&movie); err != nil {
		if errors.Is(err, services.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error adding watchlist movie: %v", err)
		http.Error(w, "Failed to add watchlist movie", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, movie)
}

func (app *App) removeWatchlistHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := app.movieService.RemoveFromWatchlist(id); err != nil {
		log.Printf("Error removing watchlist movie: %v", err)
		http.Error(w, "Failed to remove watchlist movie", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// moveToWatchedHandler moves a watchlist entry into the watched collection.
// A missing entry is treated as already gone.
func (app *App) moveToWatchedHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := app.movieService.MoveToWatched(id); err != nil {
		log.Printf("Error moving watchlist movie %d to watched: %v", id, err)
		http.Error(w, "Failed to move movie to watched", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// refreshWatchlistHandler kicks off a background metadata refresh of the
// watchlist from the catalog
func (app *App) refreshWatchlistHandler(w http.ResponseWriter, _ *http.Request) {
	if app.jobManager == nil {
		http.Error(w, "Refresh unavailable", http.StatusServiceUnavailable)
		return
	}

	app.jobManager.TriggerRefresh()
	w.WriteHeader(http.StatusAccepted)
}

func (app *App) getReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	review, err := app.movieService.GetReviewByMovieID(id)
	if err != nil {
		log.Printf("Error getting review: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if review == nil {
		http.Error(w, "Review not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, review)
}

func (app *App) saveReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	movie, err := app.movieService.GetWatchedMovieByID(id)
	if err != nil {
		log.Printf("Error looking up watched movie: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if movie == nil {
		http.Error(w, "Movie not found", http.StatusNotFound)
		return
	}

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	review.WatchedMovieID = id

	if err := app.movieService.SaveReview(&review); err != nil {
		if errors.Is(err, services.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error saving review: %v", err)
		http.Error(w, "Failed to save review", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, review)
}

// getRecommendationsHandler returns AI-backed recommendations. The agent
// degrades to the popular listing internally, so an error here means even
// the catalog fallback is down.
func (app *App) getRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	count := defaultRecommendationCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid count", http.StatusBadRequest)
			return
		}
		count = parsed
	}

	titles, err := app.movieService.WatchedTitles()
	if err != nil {
		log.Printf("Error loading watched titles: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	movies, err := app.agent.Recommend(r.Context(), titles, count)
	if err != nil {
		log.Printf("Error getting recommendations: %v", err)
		http.Error(w, "Movie catalog unavailable", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, movies)
}

func (app *App) searchMoviesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	movies, err := app.catalog.SearchMovies(r.Context(), query)
	if err != nil {
		log.Printf("Error searching movies: %v", err)
		http.Error(w, "Movie catalog unavailable", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, movies)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
