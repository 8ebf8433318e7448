package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"trash-classifier-backend/internal/database"
	"trash-classifier-backend/internal/models"
)

// defaultConfirmationMessage is stored when the user confirms the
// classification without leaving a comment.
const defaultConfirmationMessage = "Confirmed correct classification"

type FeedbackHandler struct {
	store database.Store
}

func NewFeedbackHandler(store database.Store) *FeedbackHandler {
	return &FeedbackHandler{
		store: store,
	}
}

// SubmitFeedback godoc
// @Summary     Submit feedback for a picture
// @Description Records whether the stored classification was correct. When incorrect, the corrected label is required. The picture is marked as having received feedback in the same transaction.
// @Tags        feedback
// @Accept      json
// @Produce     json
// @Param       picture_id path string true "Picture ID (UUID)"
// @Param       feedback body models.FeedbackRequest true "Feedback"
// @Success     201 {object} models.FeedbackResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /feedback/{picture_id} [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	pictureID, err := uuid.Parse(c.Param("picture_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid picture id"})
		return
	}

	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	picture, err := h.store.GetPicture(pictureID)
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

	message := req.Message
	correctLabel := req.CorrectLabel
	if req.IsCorrect {
		// Confirmation: the asserted label is the stored prediction itself.
		correctLabel = picture.Label
		if message == "" {
			message = defaultConfirmationMessage
		}
	} else if correctLabel == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "correct_label is required",
			Message: "a corrected label must be provided when is_correct is false",
		})
		return
	}

	feedback, err := h.store.CreateFeedback(pictureID, message, correctLabel)
	if err != nil {
		log.Printf("Failed to save feedback: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to save feedback",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.FeedbackResponse{
		ID:           feedback.ID,
		PictureID:    feedback.PictureID.String(),
		Message:      feedback.Message,
		CorrectLabel: feedback.CorrectLabel,
		CreatedAt:    feedback.CreatedAt.UTC().Format(time.RFC3339),
	})
}
