package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"englishku_backend/internals/constants"
	examDTO "englishku_backend/internals/features/exams/exams/dto"
	exams "englishku_backend/internals/features/exams/exams/service"
	"englishku_backend/internals/features/exams/scoring"
	"englishku_backend/internals/features/progress/lessons/dto"
	"englishku_backend/internals/features/progress/lessons/service"
	xp "englishku_backend/internals/features/progress/xp/service"
	"englishku_backend/internals/features/users/user/repository"
	helper "englishku_backend/internals/helpers"
)

type ProgressController struct {
	Progress *service.Service
	Exams    exams.Store
}

func NewProgressController(progress *service.Service, examStore exams.Store) *ProgressController {
	return &ProgressController{Progress: progress, Exams: examStore}
}

// GET /api/u/progress
func (ctrl *ProgressController) Get(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	p, err := ctrl.Progress.Get(c.UserContext(), userID)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", p)
}

// POST /api/u/progress/lessons
func (ctrl *ProgressController) MarkLesson(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.MarkLessonRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	res, err := ctrl.Progress.MarkLessonCompleted(c.UserContext(), userID,
		strings.TrimSpace(req.ChapterID), strings.TrimSpace(req.LessonID))
	if err != nil {
		return MapError(c, err)
	}
	if res.ChapterCompleted {
		log.Printf("[INFO] 🎉 user=%s completed chapter %s", userID, req.ChapterID)
	}
	return helper.JsonOK(c, "Lesson recorded", res)
}

// GET /api/u/progress/chapters/:chapter_id/exam
func (ctrl *ProgressController) ChapterExam(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	chapterID := utils.CopyString(c.Params("chapter_id"))
	if err := ctrl.Progress.ChapterExamOpen(c.UserContext(), userID, chapterID); err != nil {
		return MapError(c, err)
	}
	exam, err := ctrl.Exams.Find(c.UserContext(), constants.ExamKindChapter, "", chapterID)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", examDTO.ToPublic(exam))
}

// POST /api/u/progress/chapters/:chapter_id/exam
// Scores the answers; a pass (at least half right) marks the exam completed.
func (ctrl *ProgressController) SubmitChapterExam(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	chapterID := utils.CopyString(c.Params("chapter_id"))
	var req dto.ChapterExamSubmission
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	ctx := c.UserContext()

	if err := ctrl.Progress.ChapterExamOpen(ctx, userID, chapterID); err != nil {
		return MapError(c, err)
	}
	exam, err := ctrl.Exams.Find(ctx, constants.ExamKindChapter, "", chapterID)
	if err != nil {
		return MapError(c, err)
	}

	correct, total := scoring.ScoreObjectiveSet(exam.ExamQuestions, req.Answers)
	out := dto.ChapterExamResult{Correct: correct, Total: total, Passed: scoring.ObjectivePassed(correct, total)}
	if !out.Passed {
		return helper.JsonOK(c, "Not passed yet, review the lessons and try again", out)
	}

	res, err := ctrl.Progress.MarkChapterExamCompleted(ctx, userID, chapterID)
	if err != nil {
		return MapError(c, err)
	}
	out.Mark = res
	return helper.JsonOK(c, "Chapter exam passed", out)
}

// POST /api/u/progress/chapters/:chapter_id/complete
func (ctrl *ProgressController) CompleteChapter(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	res, err := ctrl.Progress.MarkChapterCompletedIfEligible(c.UserContext(), userID, utils.CopyString(c.Params("chapter_id")))
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", res)
}

func MapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, xp.ErrMissingUser):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Please sign in again")
	case errors.Is(err, service.ErrChapterLocked):
		return helper.JsonError(c, fiber.StatusForbidden, "Upgrade your plan to unlock this chapter")
	case errors.Is(err, service.ErrChapterExamLocked):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrChapterNotFound),
		errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, service.ErrExamDisabled),
		errors.Is(err, exams.ErrExamNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrUserNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	default:
		log.Println("[ERROR] progress:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update progress")
	}
}
