package models

import "time"

// MaxCommentLength bounds review comments at the persistence boundary.
const MaxCommentLength = 2000

// Review is the user's write-up for a watched movie. At most one review
// exists per watched movie.
type Review struct {
	ID             int        `json:"id"`
	WatchedMovieID int        `json:"watched_movie_id"`
	Comment        string     `json:"comment"`
	UserRating     *int       `json:"user_rating,omitempty"`
	CreatedDate    time.Time  `json:"created_date"`
	UpdatedDate    *time.Time `json:"updated_date,omitempty"`
}
