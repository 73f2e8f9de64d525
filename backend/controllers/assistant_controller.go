package controllers

import (
	"github.com/gofiber/fiber/v2"

	"learnio/backend/assistant"
	"learnio/backend/utils"
)

type AssistantController struct {
	Assistant *assistant.Assistant
}

func NewAssistantController(a *assistant.Assistant) *AssistantController {
	return &AssistantController{Assistant: a}
}

// Ask answers a study question about a lecture. The answer is always a
// usable string; inference failures surface as the canned fallback, never as
// an error status.
func (ac *AssistantController) Ask(c *fiber.Ctx) error {
	var input struct {
		LectureTitle   string `json:"lectureTitle"`
		LectureSummary string `json:"lectureSummary"`
		Question       string `json:"question"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Question == "" {
		return utils.BadRequest(c, "Question is required")
	}

	answer := ac.Assistant.Answer(c.Context(), input.LectureTitle, input.LectureSummary, input.Question)

	return c.JSON(fiber.Map{
		"answer": answer,
	})
}
