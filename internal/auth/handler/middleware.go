package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/HenriqueSagawa/auth-service/pkg/constant"
)

const userClaimsKey = "userClaims"

// RequireAuth verifies the bearer access token and stores its claims in the
// request locals. Missing and invalid tokens are reported differently, but
// invalid tokens are never told why they failed.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(authHeader, constant.BearerScheme+" ")
		if !found || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token not provided",
			})
		}

		claims, err := h.userService.VerifyAccessToken(token)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(userClaimsKey, claims)

		return c.Next()
	}
}
