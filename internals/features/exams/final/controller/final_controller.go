package controller

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	evaluationController "englishku_backend/internals/features/ai/evaluation/controller"
	exams "englishku_backend/internals/features/exams/exams/service"
	"englishku_backend/internals/features/exams/final/dto"
	"englishku_backend/internals/features/exams/final/repository"
	"englishku_backend/internals/features/exams/final/service"
	xp "englishku_backend/internals/features/progress/xp/service"
	helper "englishku_backend/internals/helpers"
	storage "englishku_backend/internals/helpers/oss"
)

type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

type FinalExamController struct {
	Final       *service.Service
	Transcriber Transcriber
	// Recordings keeps speaking answers; nil skips the upload.
	Recordings storage.Storage
}

func NewFinalExamController(final *service.Service, tr Transcriber, recordings storage.Storage) *FinalExamController {
	return &FinalExamController{Final: final, Transcriber: tr, Recordings: recordings}
}

// POST /api/u/exams/final/attempts
func (ctrl *FinalExamController) Start(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	v, err := ctrl.Final.Start(c.UserContext(), userID)
	if err != nil {
		return MapError(c, err)
	}
	if v.Resumed {
		return helper.JsonOK(c, "Resuming your final exam", v)
	}
	return helper.JsonCreated(c, "Final exam started", v)
}

// GET /api/u/exams/final/attempts/current
func (ctrl *FinalExamController) Current(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	v, err := ctrl.Final.Current(c.UserContext(), userID)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", v)
}

// POST /api/u/exams/final/attempts/:id/sections/:type
func (ctrl *FinalExamController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	attemptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attempt id")
	}
	section := strings.ToLower(utils.CopyString(c.Params("type")))

	var ans service.Answer
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		audio, err := helper.ReadFormFile(c, "audio", helper.MaxAudioBytes)
		if err != nil {
			return err
		}
		ctrl.keepRecording(c.UserContext(), userID, attemptID, audio)
		if ctrl.Transcriber == nil {
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "Speech transcription is not available")
		}
		text, err := ctrl.Transcriber.Transcribe(c.UserContext(), bytes.NewReader(audio.Data), audio.Name)
		if err != nil {
			return evaluationController.MapError(c, err)
		}
		ans.Transcript = text
	} else {
		var req dto.SectionSubmission
		if ok, err := helper.BindAndValidate(c, &req); !ok {
			return err
		}
		ans = service.Answer{Answers: req.Answers, Transcript: req.Transcript}
	}

	v, err := ctrl.Final.Submit(c.UserContext(), userID, attemptID, section, ans)
	if err != nil {
		return MapError(c, err)
	}
	if v.Total != nil {
		msg := "Final exam finished. Keep practising and try again"
		if v.Passed != nil && *v.Passed {
			msg = "🎉 Congratulations, you passed the final exam"
		}
		return helper.JsonOK(c, msg, v)
	}
	return helper.JsonOK(c, "Section saved", v)
}

// keepRecording stores the speaking answer when storage is configured.
func (ctrl *FinalExamController) keepRecording(ctx context.Context, userID, attemptID uuid.UUID, audio *helper.UploadedFile) {
	if ctrl.Recordings == nil {
		return
	}
	key := fmt.Sprintf("recordings/final/%s/%s%s", userID, attemptID, audio.Ext())
	if _, err := ctrl.Recordings.Put(ctx, key, audio.Data, audio.ContentType); err != nil {
		log.Printf("[WARN] store final recording user=%s: %v", userID, err)
	}
}

func MapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, xp.ErrMissingUser):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Please sign in again")
	case errors.Is(err, service.ErrFinalLocked), errors.Is(err, service.ErrPlanRequired):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrWrongSection), errors.Is(err, service.ErrAttemptCompleted):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrAttemptNotFound), errors.Is(err, exams.ErrExamNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEvaluation):
		return evaluationController.MapError(c, err)
	default:
		log.Println("[ERROR] final exam:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Final exam request failed")
	}
}
