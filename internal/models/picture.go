package models

import (
	"database/sql"

	"github.com/google/uuid"
)

type Picture struct {
	ID            uuid.UUID
	Filename      string
	Label         string
	Confidence    float64
	FeedbackGiven bool
	Image         []byte
	CreatedAt     sql.NullTime
}
