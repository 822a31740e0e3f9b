package reviews

import "github.com/bookhive/bookhive/pkg/models"

// SubmitPayload is the request body for POST /submit_review.
type SubmitPayload struct {
	ISBN    string `json:"isbn" form:"isbn" validate:"required"`
	Rating  int    `json:"rating" form:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" form:"comment" validate:"omitempty,max=2000" mod:"trim"`
}

// SubmitResponse wraps the created review.
type SubmitResponse struct {
	Review *models.Review `json:"review"`
}
