package dto

type GrantRequest struct {
	Label string `json:"label" validate:"required,max=40"`
}
