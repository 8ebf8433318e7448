package models

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	ID           int64
	PictureID    uuid.UUID
	Message      string
	CorrectLabel string
	CreatedAt    time.Time
}

// FeedbackDateCount is one row of the dashboard aggregation: feedback
// submitted on a calendar date, split by whether the user-asserted label
// matched the stored prediction.
type FeedbackDateCount struct {
	Date      string `json:"date"`
	Correct   int64  `json:"correct"`
	Incorrect int64  `json:"incorrect"`
}
