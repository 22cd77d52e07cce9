package controller

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"englishku_backend/internals/features/ai/chat/dto"
	"englishku_backend/internals/features/ai/chat/repository"
	"englishku_backend/internals/features/ai/chat/service"
	evaluationController "englishku_backend/internals/features/ai/evaluation/controller"
	xp "englishku_backend/internals/features/progress/xp/service"
	helper "englishku_backend/internals/helpers"
)

type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

type ChatController struct {
	Chat        *service.Service
	Transcriber Transcriber
}

func NewChatController(chat *service.Service, tr Transcriber) *ChatController {
	return &ChatController{Chat: chat, Transcriber: tr}
}

// POST /api/u/ai/chat/sessions
func (ctrl *ChatController) Start(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.StartSessionRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	sess, err := ctrl.Chat.StartSession(c.UserContext(), userID, req.Mode)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonCreated(c, "Chat started", sess)
}

// POST /api/u/ai/chat
func (ctrl *ChatController) Send(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	in := service.SendInput{Mode: req.Mode, Text: req.Text}
	if req.SessionID != "" {
		in.SessionID, _ = uuid.Parse(req.SessionID)
	}
	res, err := ctrl.Chat.Send(c.UserContext(), userID, in)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", res)
}

// POST /api/u/ai/chat/voice (multipart "audio", "session_id", "mode")
func (ctrl *ChatController) Voice(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	audio, err := helper.ReadFormFile(c, "audio", helper.MaxAudioBytes)
	if err != nil {
		return err
	}
	in := service.SendInput{Mode: utils.CopyString(c.FormValue("mode")), IsVoice: true}
	if raw := c.FormValue("session_id"); raw != "" {
		if in.SessionID, err = uuid.Parse(raw); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
		}
	}
	if ctrl.Transcriber == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Speech transcription is not available")
	}
	text, err := ctrl.Transcriber.Transcribe(c.UserContext(), bytes.NewReader(audio.Data), audio.Name)
	if err != nil {
		return evaluationController.MapError(c, err)
	}
	in.Text = text

	res, err := ctrl.Chat.Send(c.UserContext(), userID, in)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", res)
}

// GET /api/u/ai/chat/sessions?mode=chat&page=1&per_page=20
func (ctrl *ChatController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	pg := helper.ResolvePaging(c, 50, 100)
	rows, total, err := ctrl.Chat.List(c.UserContext(), userID, c.Query("mode"), pg.Offset, pg.Limit)
	if err != nil {
		return MapError(c, err)
	}
	pagination := helper.BuildPagination(total, pg)
	return helper.JsonList(c, "ok", rows, &pagination)
}

// GET /api/u/ai/chat/sessions/:id
func (ctrl *ChatController) Get(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}
	sess, err := ctrl.Chat.Get(c.UserContext(), userID, id)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", sess)
}

// DELETE /api/u/ai/chat/sessions/:id
func (ctrl *ChatController) Delete(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}
	if err := ctrl.Chat.Delete(c.UserContext(), userID, id); err != nil {
		return MapError(c, err)
	}
	return helper.JsonDeleted(c, "Chat deleted", fiber.Map{"session_id": id})
}

func MapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, xp.ErrMissingUser):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Please sign in again")
	case errors.Is(err, service.ErrUnknownMode), errors.Is(err, service.ErrEmptyText):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrSessionNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Chat not found")
	case errors.Is(err, service.ErrDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "AI tutor is not available")
	default:
		log.Println("[ERROR] chat:", err)
		return evaluationController.Upstream(c, err, "Failed to generate reply")
	}
}
