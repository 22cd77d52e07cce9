package dto

type WritingRequest struct {
	Text string `json:"text" validate:"required,max=10000"`
}

type EvaluationResponse struct {
	Result     string `json:"result"`
	Score      int    `json:"score,omitempty"`
	Feedback   string `json:"feedback,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

type TranscriptResponse struct {
	Text string `json:"text"`
}
