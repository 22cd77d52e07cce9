package dto

type StartSessionRequest struct {
	Mode string `json:"mode" validate:"required,oneof=chat interview"`
}

type SendMessageRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,uuid"`
	Mode      string `json:"mode" validate:"omitempty,oneof=chat interview"`
	Text      string `json:"text" validate:"required,max=4000"`
}
