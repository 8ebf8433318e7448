package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"trash-classifier-backend/internal/database"
	"trash-classifier-backend/internal/models"
)

type DashboardHandler struct {
	store database.Store
}

func NewDashboardHandler(store database.Store) *DashboardHandler {
	return &DashboardHandler{
		store: store,
	}
}

// GetDashboard godoc
// @Summary     Dashboard statistics
// @Description Returns total picture and feedback counts plus a per-day breakdown of correct versus incorrect feedback, ordered by date ascending.
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Success     200 {object} models.DashboardResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	totalPictures, err := h.store.CountPictures()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to count pictures",
			Message: err.Error(),
		})
		return
	}

	totalFeedback, err := h.store.CountFeedback()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to count feedback",
			Message: err.Error(),
		})
		return
	}

	byDate, err := h.store.FeedbackByDate()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to aggregate feedback",
			Message: err.Error(),
		})
		return
	}
	if byDate == nil {
		// An empty dashboard reports an empty list, never null.
		byDate = []models.FeedbackDateCount{}
	}

	c.JSON(http.StatusOK, models.DashboardResponse{
		TotalPictures:  totalPictures,
		TotalFeedback:  totalFeedback,
		FeedbackByDate: byDate,
	})
}
