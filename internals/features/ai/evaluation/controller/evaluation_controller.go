package controller

import (
	"bytes"
	"errors"
	"log"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"englishku_backend/internals/features/ai/evaluation/dto"
	"englishku_backend/internals/features/ai/evaluation/service"
	"englishku_backend/internals/features/exams/scoring"
	helper "englishku_backend/internals/helpers"
	"englishku_backend/internals/helpers/llm"
)

type EvaluationController struct {
	Eval *service.Evaluator
}

func NewEvaluationController(eval *service.Evaluator) *EvaluationController {
	return &EvaluationController{Eval: eval}
}

// POST /api/u/ai/transcribe (multipart "audio")
func (ctrl *EvaluationController) Transcribe(c *fiber.Ctx) error {
	audio, err := helper.ReadFormFile(c, "audio", helper.MaxAudioBytes)
	if err != nil {
		return err
	}
	text, err := ctrl.Eval.Transcribe(c.UserContext(), bytes.NewReader(audio.Data), audio.Name)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.TranscriptResponse{Text: text})
}

// POST /api/u/ai/evaluate/writing
func (ctrl *EvaluationController) Writing(c *fiber.Ctx) error {
	var req dto.WritingRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	ev, err := ctrl.Eval.EvaluateWriting(c.UserContext(), req.Text)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", toResponse(ev, ""))
}

// POST /api/u/ai/evaluate/speaking (multipart "audio", optional "topic")
func (ctrl *EvaluationController) Speaking(c *fiber.Ctx) error {
	audio, err := helper.ReadFormFile(c, "audio", helper.MaxAudioBytes)
	if err != nil {
		return err
	}
	transcript, err := ctrl.Eval.Transcribe(c.UserContext(), bytes.NewReader(audio.Data), audio.Name)
	if err != nil {
		return MapError(c, err)
	}
	ev, err := ctrl.Eval.EvaluateSpeaking(c.UserContext(), transcript, c.FormValue("topic"))
	if errors.Is(err, service.ErrEmptyInput) {
		// silence transcribes to nothing
		return helper.JsonOK(c, "ok", dto.EvaluationResponse{Result: scoring.VerdictFail})
	}
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", toResponse(ev, transcript))
}

func toResponse(ev scoring.Evaluation, transcript string) dto.EvaluationResponse {
	out := dto.EvaluationResponse{Result: ev.Verdict, Feedback: ev.Feedback, Transcript: transcript}
	if ev.Score > 0 {
		out.Score = ev.Score
	}
	return out
}

// MapError answers evaluator failures: 400 for empty input, 503 when no
// model is configured, 502 for upstream errors.
func MapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to evaluate")
	case errors.Is(err, service.ErrDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "AI evaluation is not available")
	default:
		log.Println("[ERROR] evaluator:", err)
		return Upstream(c, err, "Evaluation service failed, please try again")
	}
}

// Upstream answers a failed AI call. A rate-limited provider gets 429 with
// Retry-After, anything else 502 with msg.
func Upstream(c *fiber.Ctx, err error, msg string) error {
	status, wait := llm.Status(err)
	if status == fiber.StatusTooManyRequests {
		if wait > 0 {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		}
		return helper.JsonError(c, status, "AI tutor is busy, please try again shortly")
	}
	return helper.JsonError(c, fiber.StatusBadGateway, msg)
}
