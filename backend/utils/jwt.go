package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"learnio/backend/config"
)

// Identity is what the external identity provider asserts about a signed-in
// user.
type Identity struct {
	UID      string
	Name     string
	Email    string
	PhotoURL string
}

// VerifyIdentityToken validates a provider-issued ID token and extracts the
// identity claims (OIDC naming: sub, name, email, picture).
func VerifyIdentityToken(tokenString string, cfg *config.Config) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.IdentitySecret), nil
	})
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid identity token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	uid, ok := claims["sub"].(string)
	if !ok || uid == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Missing subject in identity token")
	}

	identity := &Identity{UID: uid}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if picture, ok := claims["picture"].(string); ok {
		identity.PhotoURL = picture
	}
	return identity, nil
}

// GenerateSessionToken issues the API's own JWT for an authenticated user.
func GenerateSessionToken(uid string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"uid": uid,
		"exp": time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ExtractUIDFromToken pulls the authenticated user id out of the request's
// Authorization header.
func ExtractUIDFromToken(c *fiber.Ctx, cfg *config.Config) (string, error) {
	tokenString := c.Get("Authorization")
	if tokenString == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	return uid, nil
}
