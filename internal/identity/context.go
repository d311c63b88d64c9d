// Package identity resolves the authenticated owner of a request.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const ownerKey = "owner_id"

var ErrNoOwner = errors.New("no authenticated owner")

// FromToken extracts the owner UUID from the sub claim of a verified token.
func FromToken(token *jwt.Token) (uuid.UUID, error) {
	if token == nil {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// SetOwner stores the resolved owner on the request.
func SetOwner(c *fiber.Ctx, ownerID uuid.UUID) {
	c.Locals(ownerKey, ownerID)
}

// Owner returns the resolved owner, falling back to the JWT left in
// locals by the jwt middleware.
func Owner(c *fiber.Ctx) (uuid.UUID, error) {
	if id, ok := c.Locals(ownerKey).(uuid.UUID); ok {
		return id, nil
	}
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, ErrNoOwner
	}
	return FromToken(token)
}
