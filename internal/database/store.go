package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"trash-classifier-backend/internal/models"
)

// ErrNotFound marks a lookup for a picture id that has no row.
var ErrNotFound = errors.New("not found")

// Store is the persistence surface the handlers depend on.
type Store interface {
	CreatePicture(picture *models.Picture) error
	GetPicture(id uuid.UUID) (*models.Picture, error)
	CreateFeedback(pictureID uuid.UUID, message, correctLabel string) (*models.Feedback, error)
	CountPictures() (int64, error)
	CountFeedback() (int64, error)
	FeedbackByDate() ([]models.FeedbackDateCount, error)
}

type Client struct {
	db *sql.DB
}

func NewClient(connectionString string) (*Client, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

// CreatePicture inserts a new picture row. The label and confidence are
// write-once: no update path exists for them.
func (c *Client) CreatePicture(picture *models.Picture) error {
	err := c.db.QueryRow(`
		INSERT INTO pictures (id, filename, label, confidence, feedback_given, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, picture.ID, picture.Filename, picture.Label, picture.Confidence,
		picture.FeedbackGiven, picture.Image).Scan(&picture.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create picture: %w", err)
	}

	return nil
}

func (c *Client) GetPicture(id uuid.UUID) (*models.Picture, error) {
	var picture models.Picture
	err := c.db.QueryRow(`
		SELECT id, filename, label, confidence, feedback_given, image, created_at
		FROM pictures
		WHERE id = $1
	`, id).Scan(
		&picture.ID, &picture.Filename, &picture.Label, &picture.Confidence,
		&picture.FeedbackGiven, &picture.Image, &picture.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get picture: %w", err)
	}

	return &picture, nil
}

// CreateFeedback inserts a feedback row and marks the referenced picture as
// having received feedback. Both writes happen in one transaction: either
// both persist or neither does.
func (c *Client) CreateFeedback(pictureID uuid.UUID, message, correctLabel string) (*models.Feedback, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	feedback := models.Feedback{
		PictureID:    pictureID,
		Message:      message,
		CorrectLabel: correctLabel,
	}
	err = tx.QueryRow(`
		INSERT INTO feedbacks (picture_id, message, correct_label)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, pictureID, message, correctLabel).Scan(&feedback.ID, &feedback.CreatedAt)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	// Setting true when already true is a no-op observable-wise.
	if _, err := tx.Exec(`
		UPDATE pictures
		SET feedback_given = TRUE
		WHERE id = $1
	`, pictureID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update feedback flag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit feedback: %w", err)
	}

	return &feedback, nil
}

func (c *Client) CountPictures() (int64, error) {
	var count int64
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM pictures`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pictures: %w", err)
	}
	return count, nil
}

func (c *Client) CountFeedback() (int64, error) {
	var count int64
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM feedbacks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}

// FeedbackByDate groups feedback rows by the calendar date they were
// created, splitting each date into rows whose asserted label matches the
// picture's stored prediction and rows whose does not. Dates without
// feedback do not appear.
func (c *Client) FeedbackByDate() ([]models.FeedbackDateCount, error) {
	rows, err := c.db.Query(`
		SELECT TO_CHAR(DATE(f.created_at), 'YYYY-MM-DD') AS date,
		       COUNT(*) FILTER (WHERE f.correct_label = p.label)  AS correct,
		       COUNT(*) FILTER (WHERE f.correct_label <> p.label) AS incorrect
		FROM feedbacks f
		JOIN pictures p ON p.id = f.picture_id
		GROUP BY DATE(f.created_at)
		ORDER BY DATE(f.created_at) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate feedback: %w", err)
	}
	defer rows.Close()

	var counts []models.FeedbackDateCount
	for rows.Next() {
		var count models.FeedbackDateCount
		if err := rows.Scan(&count.Date, &count.Correct, &count.Incorrect); err != nil {
			return nil, fmt.Errorf("failed to scan feedback count: %w", err)
		}
		counts = append(counts, count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feedback counts: %w", err)
	}

	return counts, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}
