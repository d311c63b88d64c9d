package moods

import "github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/mood"

type TrendsResponse struct {
	WindowDays int `json:"window_days"`
	*mood.Trends
}

type CategoriesResponse struct {
	Categories []mood.Category `json:"categories"`
}
