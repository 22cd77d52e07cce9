package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"englishku_backend/internals/features/content/chapters/dto"
	"englishku_backend/internals/features/content/chapters/service"
	lessons "englishku_backend/internals/features/progress/lessons/service"
	helper "englishku_backend/internals/helpers"
)

type ChapterController struct {
	Catalog  *service.Catalog
	Progress *lessons.Service
}

func NewChapterController(catalog *service.Catalog, progress *lessons.Service) *ChapterController {
	return &ChapterController{Catalog: catalog, Progress: progress}
}

func (ctrl *ChapterController) view(c *fiber.Ctx) (*dto.CatalogView, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}
	ctx := c.UserContext()
	chapters, err := ctrl.Catalog.Chapters(ctx)
	if err != nil {
		log.Println("[ERROR] load chapters:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load chapters")
	}
	p, err := ctrl.Progress.Get(ctx, userID)
	if err != nil {
		log.Println("[ERROR] load progress:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load progress")
	}
	plan, err := ctrl.Progress.Plan(ctx, userID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	v := service.BuildView(chapters, p, plan)
	return &v, nil
}

// GET /api/u/chapters
func (ctrl *ChapterController) List(c *fiber.Ctx) error {
	v, err := ctrl.view(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", v)
}

// GET /api/u/chapters/:id
func (ctrl *ChapterController) Get(c *fiber.Ctx) error {
	v, err := ctrl.view(c)
	if err != nil {
		return err
	}
	id := utils.CopyString(c.Params("id"))
	for _, ch := range v.Chapters {
		if ch.ChapterID == id {
			return helper.JsonOK(c, "ok", ch)
		}
	}
	return helper.JsonError(c, fiber.StatusNotFound, "Chapter not found")
}

/* ===== admin ===== */

// POST /api/a/chapters
func (ctrl *ChapterController) Create(c *fiber.Ctx) error {
	var req dto.ChapterRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m := req.ToModel()
	if err := ctrl.Catalog.CreateChapter(c.UserContext(), &m); err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Chapter id already exists")
		}
		log.Println("[ERROR] create chapter:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create chapter")
	}
	return helper.JsonCreated(c, "Chapter created", m)
}

// PUT /api/a/chapters/:id
func (ctrl *ChapterController) Update(c *fiber.Ctx) error {
	var req dto.ChapterRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m := req.ToModel()
	m.ChapterID = utils.CopyString(c.Params("id"))
	if err := ctrl.Catalog.UpdateChapter(c.UserContext(), &m); err != nil {
		return writeError(c, err, "Failed to update chapter")
	}
	return helper.JsonUpdated(c, "Chapter updated", m)
}

// DELETE /api/a/chapters/:id
func (ctrl *ChapterController) Delete(c *fiber.Ctx) error {
	if err := ctrl.Catalog.DeleteChapter(c.UserContext(), utils.CopyString(c.Params("id"))); err != nil {
		return writeError(c, err, "Failed to delete chapter")
	}
	return helper.JsonDeleted(c, "Chapter deleted", nil)
}

// PUT /api/a/chapters/:id/lessons
func (ctrl *ChapterController) UpsertLesson(c *fiber.Ctx) error {
	var req dto.LessonRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m := req.ToModel(utils.CopyString(c.Params("id")))
	if err := ctrl.Catalog.UpsertLesson(c.UserContext(), &m); err != nil {
		return writeError(c, err, "Failed to save lesson")
	}
	return helper.JsonOK(c, "Lesson saved", m)
}

// DELETE /api/a/chapters/:id/lessons/:lesson_id
func (ctrl *ChapterController) DeleteLesson(c *fiber.Ctx) error {
	if err := ctrl.Catalog.DeleteLesson(c.UserContext(), utils.CopyString(c.Params("id")), utils.CopyString(c.Params("lesson_id"))); err != nil {
		return writeError(c, err, "Failed to delete lesson")
	}
	return helper.JsonDeleted(c, "Lesson deleted", nil)
}

func writeError(c *fiber.Ctx, err error, msg string) error {
	if errors.Is(err, service.ErrNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Chapter or lesson not found")
	}
	log.Printf("[ERROR] %s: %v", msg, err)
	return helper.JsonError(c, fiber.StatusInternalServerError, msg)
}
