package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/metrics"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func protectedApp() *fiber.App {
	app := fiber.New()
	cfg := &config.Config{JWTSecret: testSecret}
	app.Get("/me", JWTProtected(cfg), ResolveOwner(), func(c *fiber.Ctx) error {
		id, err := identity.Owner(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})
	return app
}

func TestJWTProtected_ResolvesOwner(t *testing.T) {
	owner := uuid.New()
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, jwt.MapClaims{
		"sub": owner.String(),
		"exp": time.Now().Add(time.Minute).Unix(),
	}))

	resp, err := protectedApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTProtected_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing":     "",
		"garbage":     "Bearer not.a.jwt",
		"expired":     "Bearer " + sign(t, jwt.MapClaims{"sub": uuid.NewString(), "exp": time.Now().Add(-time.Minute).Unix()}),
		"bad subject": "Bearer " + sign(t, jwt.MapClaims{"sub": "nobody", "exp": time.Now().Add(time.Minute).Unix()}),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := protectedApp().Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestMetrics_CountsByRoute(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/api/things/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/things/:id", "204"))
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/things/"+uuid.NewString(), nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/things/:id", "204"))
	assert.Equal(t, 3.0, after-before)
}

func TestResolveOwner_TagsLogContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewMultiHandler(slog.NewJSONHandler(&buf, nil)))

	app := fiber.New()
	cfg := &config.Config{JWTSecret: testSecret}
	app.Use(requestid.New())
	app.Get("/me", JWTProtected(cfg), ResolveOwner(), func(c *fiber.Ctx) error {
		logger.InfoContext(c.UserContext(), "handled")
		return c.SendStatus(fiber.StatusNoContent)
	})

	owner := uuid.New()
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("X-Request-ID", "req-123")
	req.Header.Set("Authorization", "Bearer "+sign(t, jwt.MapClaims{
		"sub": owner.String(),
		"exp": time.Now().Add(time.Minute).Unix(),
	}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, owner.String(), line["owner_id"])
	assert.Equal(t, "req-123", line["request_id"])
}
