package identity

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromToken(t *testing.T) {
	id := uuid.New()

	got, err := FromToken(&jwt.Token{Claims: jwt.MapClaims{"sub": id.String()}})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = FromToken(nil)
	assert.Error(t, err)
	_, err = FromToken(&jwt.Token{Claims: jwt.MapClaims{}})
	assert.Error(t, err)
	_, err = FromToken(&jwt.Token{Claims: jwt.MapClaims{"sub": "not-a-uuid"}})
	assert.Error(t, err)
	_, err = FromToken(&jwt.Token{Claims: &jwt.RegisteredClaims{Subject: id.String()}})
	assert.Error(t, err)
}

func TestOwner(t *testing.T) {
	id := uuid.New()
	app := fiber.New()
	app.Get("/set", func(c *fiber.Ctx) error {
		SetOwner(c, id)
		got, err := Owner(c)
		assert.NoError(t, err)
		return c.SendString(got.String())
	})
	app.Get("/token", func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"sub": id.String()}})
		got, err := Owner(c)
		assert.NoError(t, err)
		return c.SendString(got.String())
	})
	app.Get("/none", func(c *fiber.Ctx) error {
		_, err := Owner(c)
		assert.ErrorIs(t, err, ErrNoOwner)
		return c.SendStatus(fiber.StatusUnauthorized)
	})

	for path, want := range map[string]int{"/set": 200, "/token": 200, "/none": 401} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}
}
