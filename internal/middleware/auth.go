package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/logging"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// ResolveOwner turns the verified token into the request's owner id and
// tags the request's log context with it. It must run after JWTProtected.
func ResolveOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := c.Locals("user").(*jwt.Token)
		ownerID, err := identity.FromToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: token has no valid subject",
			})
		}
		identity.SetOwner(c, ownerID)

		attrs := []slog.Attr{slog.String("owner_id", ownerID.String())}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			attrs = append(attrs, slog.String("request_id", rid))
		}
		c.SetUserContext(logging.ContextWith(c.UserContext(), attrs...))
		return c.Next()
	}
}
