package moods

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/mood"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// maxTrendDays bounds the trend window a client may ask for.
const maxTrendDays = 365

type MoodHandler struct {
	service *mood.Service
	cfg     *config.Config
	loc     *time.Location
}

func NewMoodHandler(service *mood.Service, cfg *config.Config) *MoodHandler {
	return &MoodHandler{service: service, cfg: cfg, loc: cfg.Location()}
}

func (h *MoodHandler) Create(c *fiber.Ctx) error {
	ownerID, err := identity.Owner(c)
	if err != nil {
		return unauthorized(c)
	}

	var fields mood.Fields
	if err := c.BodyParser(&fields); err != nil {
		return badBody(c)
	}

	rec, err := h.service.Create(c.UserContext(), ownerID, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *MoodHandler) Get(c *fiber.Ctx) error {
	ownerID, err := identity.Owner(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseID(c)
	if !ok {
		return respondError(c, mood.ErrNotFound)
	}

	rec, err := h.service.Get(c.UserContext(), ownerID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

func (h *MoodHandler) Update(c *fiber.Ctx) error {
	ownerID, err := identity.Owner(c)
	if err != nil {
		return unauthorized(c)
	}

	var fields mood.Fields
	if err := c.BodyParser(&fields); err != nil {
		return badBody(c)
	}
	// A malformed id matches no record; the service still validates first.
	id, _ := parseID(c)

	rec, err := h.service.Update(c.UserContext(), ownerID, id, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

func (h *MoodHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := identity.Owner(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseID(c)
	if !ok {
		return respondError(c, mood.ErrNotFound)
	}

	if err := h.service.Delete(c.UserContext(), ownerID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MoodHandler) List(c *fiber.Ctx) error {
	ownerID, err := identity.Owner(c)
	if err != nil {
		return unauthorized(c)
	}

	var verr mood.ValidationError
	page := queryInt(c, "page", 1, &verr)
	limit := queryInt(c, "limit", h.cfg.DefaultPageSize, &verr)
	if limit > h.cfg.MaxPageSize {
		limit = h.cfg.MaxPageSize
	}

	var filter mood.Filter
	if raw := c.Query("category"); raw != "" {
		cat := mood.Category(strings.TrimSpace(raw))
		filter.Category = &cat
	}
	filter.StartDate = queryDate(c, "start_date", false, h.loc, &verr)
	filter.EndDate = queryDate(c, "end_date", true, h.loc, &verr)
	if len(verr.Fields) > 0 {
		return respondError(c, &verr)
	}

	p, err := h.service.List(c.UserContext(), ownerID, filter, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

func (h *MoodHandler) Trends(c *fiber.Ctx) error {
	ownerID, err := identity.Owner(c)
	if err != nil {
		return unauthorized(c)
	}

	var verr mood.ValidationError
	days := queryInt(c, "days", h.cfg.DefaultTrendDays, &verr)
	if len(verr.Fields) > 0 {
		return respondError(c, &verr)
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	t, err := h.service.Trends(c.UserContext(), ownerID, days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(TrendsResponse{WindowDays: days, Trends: t})
}

func (h *MoodHandler) Summary(c *fiber.Ctx) error {
	ownerID, err := identity.Owner(c)
	if err != nil {
		return unauthorized(c)
	}

	s, err := h.service.Summary(c.UserContext(), ownerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

func (h *MoodHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(CategoriesResponse{Categories: mood.Categories()})
}

// respondError maps core errors to HTTP responses. Anything unrecognized
// is logged and reported as a bare 500.
func respondError(c *fiber.Ctx, err error) error {
	var verr *mood.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Error: true, Message: "Validation failed", Fields: verr.Fields,
		})
	case errors.Is(err, mood.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Mood record not found",
		})
	case errors.Is(err, mood.ErrInvalidWindow):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	slog.ErrorContext(c.UserContext(), "mood request failed",
		"action", c.Method()+" "+c.Route().Path,
		"route", c.Path(),
		"error", err.Error(),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

// parseID reports false for a malformed id, which callers treat like an
// unknown one. The returned id is uuid.Nil in that case.
func parseID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *fiber.Ctx, key string, fallback int, verr *mood.ValidationError) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.Fields = append(verr.Fields, mood.FieldError{
			Field: key, Message: key + " must be an integer",
		})
		return fallback
	}
	return n
}

// queryDate accepts RFC3339 or YYYY-MM-DD. A bare date is read in loc and,
// used as an upper bound, covers the whole day.
func queryDate(c *fiber.Ctx, key string, endOfDay bool, loc *time.Location, verr *mood.ValidationError) *time.Time {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	t, err := parseDate(raw, endOfDay, loc)
	if err != nil {
		verr.Fields = append(verr.Fields, mood.FieldError{
			Field: key, Message: key + " must be an RFC3339 timestamp or YYYY-MM-DD date",
		})
		return nil
	}
	return &t
}

func parseDate(raw string, endOfDay bool, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return t.UTC(), nil
}
