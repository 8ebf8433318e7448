package models

type UploadResponse struct {
	ID         string `json:"id"`
	Confidence string `json:"confidence"`
	Label      string `json:"label"`
	Filename   string `json:"filename"`
}

type PictureResponse struct {
	ID            string  `json:"id"`
	Filename      string  `json:"filename"`
	Label         string  `json:"label"`
	Confidence    string  `json:"confidence"`
	FeedbackGiven bool    `json:"feedback_given"`
	Image         string  `json:"image"`
	CreatedAt     *string `json:"created_at"`
}

type FeedbackResponse struct {
	ID           int64  `json:"id"`
	PictureID    string `json:"picture_id"`
	Message      string `json:"message"`
	CorrectLabel string `json:"correct_label"`
	CreatedAt    string `json:"created_at"`
}

type DashboardResponse struct {
	TotalPictures  int64               `json:"total_pictures"`
	TotalFeedback  int64               `json:"total_feedback"`
	FeedbackByDate []FeedbackDateCount `json:"feedback_by_date"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
