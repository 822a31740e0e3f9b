package auth

// RegisterPayload represents the registration request body.
type RegisterPayload struct {
	Username string `json:"username" form:"username" validate:"required,max=50"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
}

// LoginPayload represents the login request body.
type LoginPayload struct {
	Username string `json:"username" form:"username" validate:"required,max=50"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
}

// MeResponse represents the logged-in user response.
type MeResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}
