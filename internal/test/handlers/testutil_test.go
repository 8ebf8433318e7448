package handlers_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"sort"
	"time"

	"github.com/google/uuid"
	"trash-classifier-backend/internal/classifier"
	"trash-classifier-backend/internal/database"
	"trash-classifier-backend/internal/models"
)

// stubLabeler returns a fixed prediction (or error) instead of running the
// model.
type stubLabeler struct {
	prediction classifier.Prediction
	err        error
}

func (s *stubLabeler) Classify(img image.Image) (classifier.Prediction, error) {
	if s.err != nil {
		return classifier.Prediction{}, s.err
	}
	return s.prediction, nil
}

// memStore is an in-memory database.Store for handler tests.
type memStore struct {
	pictures  map[uuid.UUID]*models.Picture
	feedbacks []models.Feedback
	nextID    int64
	now       func() time.Time
}

func newMemStore() *memStore {
	return &memStore{
		pictures: make(map[uuid.UUID]*models.Picture),
		now:      time.Now,
	}
}

func (m *memStore) CreatePicture(picture *models.Picture) error {
	stored := *picture
	stored.CreatedAt.Time = m.now()
	stored.CreatedAt.Valid = true
	m.pictures[picture.ID] = &stored
	picture.CreatedAt = stored.CreatedAt
	return nil
}

func (m *memStore) GetPicture(id uuid.UUID) (*models.Picture, error) {
	picture, ok := m.pictures[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *picture
	return &copied, nil
}

func (m *memStore) CreateFeedback(pictureID uuid.UUID, message, correctLabel string) (*models.Feedback, error) {
	picture, ok := m.pictures[pictureID]
	if !ok {
		return nil, database.ErrNotFound
	}

	m.nextID++
	feedback := models.Feedback{
		ID:           m.nextID,
		PictureID:    pictureID,
		Message:      message,
		CorrectLabel: correctLabel,
		CreatedAt:    m.now(),
	}
	m.feedbacks = append(m.feedbacks, feedback)
	picture.FeedbackGiven = true

	return &feedback, nil
}

func (m *memStore) CountPictures() (int64, error) {
	return int64(len(m.pictures)), nil
}

func (m *memStore) CountFeedback() (int64, error) {
	return int64(len(m.feedbacks)), nil
}

func (m *memStore) FeedbackByDate() ([]models.FeedbackDateCount, error) {
	byDate := make(map[string]*models.FeedbackDateCount)
	for _, feedback := range m.feedbacks {
		date := feedback.CreatedAt.UTC().Format("2006-01-02")
		count, ok := byDate[date]
		if !ok {
			count = &models.FeedbackDateCount{Date: date}
			byDate[date] = count
		}
		if picture, ok := m.pictures[feedback.PictureID]; ok && feedback.CorrectLabel == picture.Label {
			count.Correct++
		} else {
			count.Incorrect++
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	counts := make([]models.FeedbackDateCount, 0, len(dates))
	for _, date := range dates {
		counts = append(counts, *byDate[date])
	}
	return counts, nil
}

// pngBytes renders a small solid-color PNG for upload tests.
func pngBytes() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// multipartBody builds a multipart form with a single file field.
func multipartBody(fieldName, filename string, data []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile(fieldName, filename)
	part.Write(data)
	writer.Close()
	return body, writer.FormDataContentType()
}
