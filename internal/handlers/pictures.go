package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"trash-classifier-backend/internal/classifier"
	"trash-classifier-backend/internal/database"
	"trash-classifier-backend/internal/imaging"
	"trash-classifier-backend/internal/models"
)

// fallbackFilename is stored when the client did not supply one.
const fallbackFilename = "unknown"

type PicturesHandler struct {
	store   database.Store
	labeler classifier.Labeler
}

func NewPicturesHandler(store database.Store, labeler classifier.Labeler) *PicturesHandler {
	return &PicturesHandler{
		store:   store,
		labeler: labeler,
	}
}

// Upload godoc
// @Summary     Upload and classify a picture
// @Description Accepts a multipart image upload, classifies it with the pretrained model, and stores the image together with its predicted label and confidence.
// @Tags        pictures
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Image file (JPEG, PNG or GIF)"
// @Success     201 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /picture [post]
func (h *PicturesHandler) Upload(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	file, err := formImageFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no file uploaded",
			Message: "please provide an image in the 'file' form field",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to open file",
			Message: err.Error(),
		})
		return
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read file",
			Message: err.Error(),
		})
		return
	}

	img, err := imaging.DecodeRGB(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid image",
			Message: "uploaded bytes could not be decoded as an image",
		})
		return
	}

	prediction, err := h.labeler.Classify(img)
	if err != nil {
		log.Printf("Classification error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "classification failed",
			Message: err.Error(),
		})
		return
	}

	// Storage bytes are the normalized JPEG re-encoding, not the upload.
	stored, err := imaging.EncodeJPEG(img)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to encode image",
			Message: err.Error(),
		})
		return
	}

	filename := file.Filename
	if filename == "" {
		filename = fallbackFilename
	}

	picture := &models.Picture{
		ID:       uuid.New(),
		Filename: filename,
		Label:    prediction.Label,
		// Stored on a 0-100 scale with two-decimal precision.
		Confidence:    math.Round(prediction.Score*100*100) / 100,
		FeedbackGiven: false,
		Image:         stored,
	}
	if err := h.store.CreatePicture(picture); err != nil {
		log.Printf("Failed to save picture: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to save picture",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.UploadResponse{
		ID:         picture.ID.String(),
		Confidence: strconv.FormatFloat(prediction.Score, 'f', 2, 64),
		Label:      picture.Label,
		Filename:   picture.Filename,
	})
}

// GetPicture godoc
// @Summary     Get a picture
// @Description Returns a stored picture with its classification result and the image bytes encoded as base64.
// @Tags        pictures
// @Accept      json
// @Produce     json
// @Param       id path string true "Picture ID (UUID)"
// @Success     200 {object} models.PictureResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /picture/{id} [get]
func (h *PicturesHandler) GetPicture(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid picture id"})
		return
	}

	picture, err := h.store.GetPicture(id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "picture not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get picture",
			Message: err.Error(),
		})
		return
	}

	var createdAt *string
	if picture.CreatedAt.Valid {
		formatted := picture.CreatedAt.Time.UTC().Format(time.RFC3339)
		createdAt = &formatted
	}

	c.JSON(http.StatusOK, models.PictureResponse{
		ID:            picture.ID.String(),
		Filename:      picture.Filename,
		Label:         picture.Label,
		Confidence:    strconv.FormatFloat(picture.Confidence, 'f', 2, 64),
		FeedbackGiven: picture.FeedbackGiven,
		Image:         base64.StdEncoding.EncodeToString(picture.Image),
		CreatedAt:     createdAt,
	})
}

// formImageFile returns the uploaded file, probing the common field names.
func formImageFile(c *gin.Context) (*multipart.FileHeader, error) {
	var lastErr error
	for _, fieldName := range []string{"file", "image", "picture"} {
		file, err := c.FormFile(fieldName)
		if err == nil {
			return file, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
