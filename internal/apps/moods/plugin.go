package moods

import (
	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/mood"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MoodsPlugin struct {
	cache mood.TrendCache
}

// New builds the moods plugin. cache may be nil.
func New(cache mood.TrendCache) *MoodsPlugin {
	return &MoodsPlugin{cache: cache}
}

func (p *MoodsPlugin) ID() string { return "moods" }

func (p *MoodsPlugin) Models() []interface{} {
	return mood.Models()
}

func (p *MoodsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	opts := []mood.Option{mood.WithLocation(cfg.Location())}
	if p.cache != nil {
		opts = append(opts, mood.WithTrendCache(p.cache))
	}
	svc := mood.NewService(mood.NewGormRepository(db), opts...)
	handler := NewMoodHandler(svc, cfg)

	router.Post("/moods", handler.Create)
	router.Get("/moods", handler.List)
	router.Get("/moods/trends", handler.Trends)
	router.Get("/moods/summary", handler.Summary)
	router.Get("/moods/categories", handler.Categories)
	router.Get("/moods/:id", handler.Get)
	router.Put("/moods/:id", handler.Update)
	router.Delete("/moods/:id", handler.Delete)
}
