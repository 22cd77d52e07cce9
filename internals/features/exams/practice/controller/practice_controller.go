package controller

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	evaluationController "englishku_backend/internals/features/ai/evaluation/controller"
	exams "englishku_backend/internals/features/exams/exams/service"
	"englishku_backend/internals/features/exams/practice/dto"
	"englishku_backend/internals/features/exams/practice/service"
	xp "englishku_backend/internals/features/progress/xp/service"
	helper "englishku_backend/internals/helpers"
	storage "englishku_backend/internals/helpers/oss"
)

type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

type PracticeController struct {
	Practice    *service.Service
	Transcriber Transcriber
	Recordings  storage.Storage
	Now         func() time.Time
}

func NewPracticeController(practice *service.Service, tr Transcriber, recordings storage.Storage) *PracticeController {
	return &PracticeController{Practice: practice, Transcriber: tr, Recordings: recordings, Now: time.Now}
}

// GET /api/u/exams/practice/:type
func (ctrl *PracticeController) Get(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	exam, err := ctrl.Practice.Exam(c.UserContext(), userID, strings.ToLower(utils.CopyString(c.Params("type"))))
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", exam)
}

// POST /api/u/exams/practice/:type/submit
// JSON {answers, transcript}; speaking may upload multipart "audio".
func (ctrl *PracticeController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	section := strings.ToLower(utils.CopyString(c.Params("type")))

	var ans service.Answer
	var recordingURL string
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		audio, err := helper.ReadFormFile(c, "audio", helper.MaxAudioBytes)
		if err != nil {
			return err
		}
		if ctrl.Recordings != nil {
			key := fmt.Sprintf("recordings/practice/%s/%d%s", userID, ctrl.Now().Unix(), audio.Ext())
			url, err := ctrl.Recordings.Put(c.UserContext(), key, audio.Data, audio.ContentType)
			if err != nil {
				log.Printf("[WARN] store practice recording user=%s: %v", userID, err)
			}
			recordingURL = url
		}
		if ctrl.Transcriber == nil {
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "Speech transcription is not available")
		}
		text, err := ctrl.Transcriber.Transcribe(c.UserContext(), bytes.NewReader(audio.Data), audio.Name)
		if err != nil {
			return evaluationController.MapError(c, err)
		}
		ans.Transcript = text
	} else {
		var req dto.PracticeSubmission
		if ok, err := helper.BindAndValidate(c, &req); !ok {
			return err
		}
		ans = service.Answer{Answers: req.Answers, Transcript: req.Transcript}
	}

	res, err := ctrl.Practice.Submit(c.UserContext(), userID, section, ans)
	if err != nil {
		return MapError(c, err)
	}
	res.RecordingURL = recordingURL

	msg := "Keep practising, you are close"
	if res.Passed {
		msg = "✅ Practice passed"
	}
	return helper.JsonOK(c, msg, res)
}

func MapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, xp.ErrMissingUser):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Please sign in again")
	case errors.Is(err, service.ErrPlanRequired):
		return helper.JsonError(c, fiber.StatusForbidden, "Choose a plan to unlock practice exams")
	case errors.Is(err, service.ErrUnknownType):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, exams.ErrExamNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "No practice set for this section yet")
	case errors.Is(err, service.ErrEvaluation):
		return evaluationController.MapError(c, err)
	default:
		log.Println("[ERROR] practice:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Practice request failed")
	}
}
