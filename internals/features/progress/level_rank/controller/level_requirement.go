package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"englishku_backend/internals/features/progress/level_rank/model"
	helper "englishku_backend/internals/helpers"
)

type LevelRequirementController struct {
	DB *gorm.DB
}

func NewLevelRequirementController(db *gorm.DB) *LevelRequirementController {
	return &LevelRequirementController{DB: db}
}

// 🟡 POST /api/a/level-requirements
// Batch insert: body is a JSON array.
func (ctrl *LevelRequirementController) Create(c *fiber.Ctx) error {
	var inputs []model.LevelRequirement
	if err := c.BodyParser(&inputs); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(inputs) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body must not be empty")
	}
	for i := range inputs {
		if err := helper.Validator().Struct(&inputs[i]); err != nil {
			return helper.JsonValidationError(c, helper.FieldErrors(err))
		}
		inputs[i].LevelReqID = 0
	}

	if err := ctrl.DB.WithContext(c.UserContext()).Create(&inputs).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Level already exists")
		}
		log.Println("[ERROR] create level requirements:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save level requirements")
	}
	return helper.JsonCreated(c, "Level requirements created", inputs)
}

// 🟢 GET /api/u/level-requirements
func (ctrl *LevelRequirementController) GetAll(c *fiber.Ctx) error {
	var levels []model.LevelRequirement
	if err := ctrl.DB.WithContext(c.UserContext()).Order("level_req_level ASC").Find(&levels).Error; err != nil {
		log.Println("[ERROR] list level requirements:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch level requirements")
	}
	return helper.JsonOK(c, "ok", levels)
}

// 🟠 PUT /api/a/level-requirements/:id
func (ctrl *LevelRequirementController) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var existing model.LevelRequirement
	if err := ctrl.DB.WithContext(c.UserContext()).First(&existing, "level_req_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Level requirement not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load level requirement")
	}

	var input model.LevelRequirement
	if ok, err := helper.BindAndValidate(c, &input); !ok {
		return err
	}
	input.LevelReqID = existing.LevelReqID
	input.CreatedAt = existing.CreatedAt

	if err := ctrl.DB.WithContext(c.UserContext()).Save(&input).Error; err != nil {
		log.Println("[ERROR] update level requirement:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update level requirement")
	}
	return helper.JsonUpdated(c, "Level requirement updated", input)
}

// 🔴 DELETE /api/a/level-requirements/:id
func (ctrl *LevelRequirementController) Delete(c *fiber.Ctx) error {
	res := ctrl.DB.WithContext(c.UserContext()).Delete(&model.LevelRequirement{}, "level_req_id = ?", c.Params("id"))
	if res.Error != nil {
		log.Println("[ERROR] delete level requirement:", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete level requirement")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Level requirement not found")
	}
	return helper.JsonDeleted(c, "Level requirement deleted", nil)
}
