package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/HenriqueSagawa/auth-service/internal/auth/dto"
	"github.com/HenriqueSagawa/auth-service/internal/auth/service"
	autherror "github.com/HenriqueSagawa/auth-service/internal/errors"
	"github.com/HenriqueSagawa/auth-service/pkg/constant"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	if input.Email == "" || len(input.Password) < constant.MinPasswordLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email and a password of at least 8 characters are required",
		})
	}

	user, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user created",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	tokenPair, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	// The refresh token also travels as an HTTP-only cookie so browser
	// clients never expose it to scripts.
	c.Cookie(&fiber.Cookie{
		Name:     constant.RefreshTokenCookie,
		Value:    tokenPair.RefreshToken,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	input := dto.RefreshInput{RefreshToken: c.Cookies(constant.RefreshTokenCookie)}
	if input.RefreshToken == "" {
		if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "refresh token not provided",
			})
		}
	}

	tokens, err := h.userService.Refresh(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies(constant.RefreshTokenCookie)
	if refreshToken == "" {
		var input dto.RefreshInput
		if err := c.BodyParser(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}

	if refreshToken != "" {
		if err := h.userService.Logout(c.Context(), refreshToken); err != nil {
			return errorResponse(c, err)
		}
	}

	c.ClearCookie(constant.RefreshTokenCookie)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "logged out",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := c.Locals(userClaimsKey).(*service.JWTCustomClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "token not provided",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": fiber.Map{
			"id":    claims.UserID,
			"email": claims.Email,
		},
	})
}

// errorResponse maps the core error taxonomy onto HTTP status codes. The
// core never sees transport concerns; this is the whole translation.
func errorResponse(c *fiber.Ctx, err error) error {
	var locked *autherror.AccountLockedError

	switch {
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &locked):
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{
			"error":            locked.Error(),
			"retry_in_minutes": locked.RemainingMinutes,
		})
	case errors.Is(err, autherror.ErrInvalidOrExpiredRefreshToken):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrInvalidToken):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "service unavailable"})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
}
