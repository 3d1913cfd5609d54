package repository

import (
	"database/sql"
	"fmt"
	"time"

	"movietracker/database"
	"movietracker/models"
)

// ReviewRepository handles database operations for reviews
type ReviewRepository struct {
	db *database.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// GetByWatchedMovieID retrieves the review for a watched movie.
// Returns nil without error when no review exists.
func (r *ReviewRepository) GetByWatchedMovieID(watchedMovieID int) (*models.Review, error) {
	query := `
		SELECT id, watched_movie_id, comment, user_rating, created_date, updated_date
		FROM reviews
		WHERE watched_movie_id = ?
	`

	var review models.Review
	var userRating sql.NullInt64
	var updatedDate sql.NullTime

	err := r.db.QueryRow(query, watchedMovieID).Scan(
		&review.ID, &review.WatchedMovieID, &review.Comment,
		&userRating, &review.CreatedDate, &updatedDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	if userRating.Valid {
		ur := int(userRating.Int64)
		review.UserRating = &ur
	}
	if updatedDate.Valid {
		ud := updatedDate.Time
		review.UpdatedDate = &ud
	}

	return &review, nil
}

// Save upserts a review keyed by its watched movie ID. An insert stamps the
// created date; an update changes only comment, user rating and updated date.
func (r *ReviewRepository) Save(review *models.Review) error {
	existing, err := r.GetByWatchedMovieID(review.WatchedMovieID)
	if err != nil {
		return err
	}

	if existing == nil {
		result, err := r.db.Exec(`
			INSERT INTO reviews (watched_movie_id, comment, user_rating, created_date)
			VALUES (?, ?, ?, ?)`,
			review.WatchedMovieID, review.Comment, nullIntPtr(review.UserRating), review.CreatedDate,
		)
		if err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		review.ID = int(id)
		return nil
	}

	now := time.Now().UTC()
	if _, err := r.db.Exec(`
		UPDATE reviews SET comment = ?, user_rating = ?, updated_date = ?
		WHERE watched_movie_id = ?`,
		review.Comment, nullIntPtr(review.UserRating), now, review.WatchedMovieID,
	); err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	review.ID = existing.ID
	review.CreatedDate = existing.CreatedDate
	review.UpdatedDate = &now
	return nil
}

func nullIntPtr(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
