package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"englishku_backend/internals/features/exams/exams/dto"
	"englishku_backend/internals/features/exams/exams/model"
	"englishku_backend/internals/features/exams/exams/service"
	helper "englishku_backend/internals/helpers"
)

type ExamAdminController struct {
	Store *service.GormStore
}

func NewExamAdminController(store *service.GormStore) *ExamAdminController {
	return &ExamAdminController{Store: store}
}

func parseExam(c *fiber.Ctx) (*model.ExamModel, bool, error) {
	var req dto.ExamRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return nil, false, err
	}
	m := req.ToModel()
	if err := service.ValidateQuestions(&m); err != nil {
		return nil, false, helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return &m, true, nil
}

// POST /api/a/exams
func (ctrl *ExamAdminController) Create(c *fiber.Ctx) error {
	m, ok, err := parseExam(c)
	if !ok {
		return err
	}
	if err := ctrl.Store.Create(c.UserContext(), m); err != nil {
		log.Println("[ERROR] create exam:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create exam")
	}
	return helper.JsonCreated(c, "Exam created", m)
}

// PUT /api/a/exams/:id
func (ctrl *ExamAdminController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid exam id")
	}
	m, ok, err := parseExam(c)
	if !ok {
		return err
	}
	if err := ctrl.Store.Update(c.UserContext(), id, m); err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Exam not found")
		}
		log.Println("[ERROR] update exam:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update exam")
	}
	return helper.JsonUpdated(c, "Exam updated", m)
}

// DELETE /api/a/exams/:id
func (ctrl *ExamAdminController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid exam id")
	}
	if err := ctrl.Store.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Exam not found")
		}
		log.Println("[ERROR] delete exam:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete exam")
	}
	return helper.JsonDeleted(c, "Exam deleted", nil)
}
