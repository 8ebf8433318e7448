package models

type FeedbackRequest struct {
	// IsCorrect reports whether the stored classification was right.
	IsCorrect bool `json:"is_correct"`
	// Message is a free-text comment. Optional when is_correct is true.
	Message string `json:"message,omitempty"`
	// CorrectLabel is the label the user asserts is correct.
	// Required when is_correct is false; ignored otherwise.
	CorrectLabel string `json:"correct_label,omitempty"`
}
