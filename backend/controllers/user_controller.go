package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"learnio/backend/config"
	"learnio/backend/models"
	"learnio/backend/session"
	"learnio/backend/store"
	"learnio/backend/utils"
)

type UserController struct {
	Sessions *session.Reconciler
	Cfg      *config.Config
}

func NewUserController(sessions *session.Reconciler, cfg *config.Config) *UserController {
	return &UserController{Sessions: sessions, Cfg: cfg}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the authenticated user's profile without reconciliation side effects
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	uid, err := utils.ExtractUIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	user, err := uc.Sessions.GetUser(c.Context(), uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not load user profile")
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

func (uc *UserController) UpdateTheme(c *fiber.Ctx) error {
	uid, err := utils.ExtractUIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Theme string `json:"theme"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := uc.Sessions.SetTheme(c.Context(), uid, input.Theme); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.BadRequest(c, err.Error())
	}

	return c.JSON(fiber.Map{
		"message": "Theme updated",
		"theme":   input.Theme,
	})
}

func (uc *UserController) ToggleWishlist(c *fiber.Ctx) error {
	uid, err := utils.ExtractUIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID := c.Params("courseId")
	added, err := uc.Sessions.ToggleWishlist(c.Context(), uid, courseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not update wishlist")
	}

	return c.JSON(fiber.Map{
		"courseId":   courseID,
		"wishlisted": added,
	})
}

func (uc *UserController) EnrollCourse(c *fiber.Ctx) error {
	uid, err := utils.ExtractUIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID := c.Params("courseId")
	if err := uc.Sessions.EnrollCourse(c.Context(), uid, courseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not enroll")
	}

	return c.JSON(fiber.Map{
		"message":  "Enrolled",
		"courseId": courseID,
	})
}

func (uc *UserController) AddTask(c *fiber.Ctx) error {
	uid, err := utils.ExtractUIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var task models.Task
	if err := c.BodyParser(&task); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if task.Text == "" {
		return utils.BadRequest(c, "Task text is required")
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	if err := uc.Sessions.AddTask(c.Context(), uid, task); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not add task")
	}

	return c.JSON(fiber.Map{
		"message": "Task added",
		"task":    task,
	})
}

func (uc *UserController) CompleteTask(c *fiber.Ctx) error {
	uid, err := utils.ExtractUIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	taskID := c.Params("taskId")
	if err := uc.Sessions.CompleteTask(c.Context(), uid, taskID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not complete task")
	}

	return c.JSON(fiber.Map{
		"message": "Task completed",
		"taskId":  taskID,
	})
}
