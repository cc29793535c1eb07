package dto

// RespondentItem - один респондент в партии выдачи кодов
type RespondentItem struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
}

// SaveRespondentsRequest представляет запрос на выдачу кодов доступа партии респондентов
type SaveRespondentsRequest struct {
	Respondents []RespondentItem `json:"respondents" binding:"required,min=1,dive"`
}
