package controllers

import (
	"github.com/gofiber/fiber/v2"

	"learnio/backend/config"
	"learnio/backend/session"
	"learnio/backend/utils"
)

type AuthController struct {
	Sessions *session.Reconciler
	Cfg      *config.Config
}

func NewAuthController(sessions *session.Reconciler, cfg *config.Config) *AuthController {
	return &AuthController{Sessions: sessions, Cfg: cfg}
}

// SignIn godoc
// @Summary Sign in with an identity-provider token
// @Description Verifies the provider-issued ID token, reconciles the user profile (streak, avatar, theme) and returns an API session token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/session [post]
func (ac *AuthController) SignIn(c *fiber.Ctx) error {
	var input struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Token == "" {
		return utils.BadRequest(c, "Missing identity token")
	}

	identity, err := utils.VerifyIdentityToken(input.Token, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Invalid identity token")
	}

	user, err := ac.Sessions.GetOrCreateUser(c.Context(), identity.UID, identity.Name, identity.Email, identity.PhotoURL)
	if err != nil {
		return utils.InternalServerError(c, "Could not load user profile")
	}

	token, err := utils.GenerateSessionToken(user.UID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
