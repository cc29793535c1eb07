package dto

// SignInRequest представляет вход респондента по коду доступа
type SignInRequest struct {
	AccessCode string `json:"access_code" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
}
