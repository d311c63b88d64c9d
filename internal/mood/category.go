package mood

import (
	"errors"
	"strings"
)

// Category is the closed set of moods a record can be filed under.
type Category string

const (
	Happy     Category = "happy"
	Sad       Category = "sad"
	Angry     Category = "angry"
	Anxious   Category = "anxious"
	Excited   Category = "excited"
	Calm      Category = "calm"
	Stressed  Category = "stressed"
	Grateful  Category = "grateful"
	Lonely    Category = "lonely"
	Confident Category = "confident"
	Other     Category = "other"
)

var ErrUnknownCategory = errors.New("unknown mood category")

var categories = []Category{
	Happy, Sad, Angry, Anxious, Excited, Calm,
	Stressed, Grateful, Lonely, Confident, Other,
}

// Categories returns every valid category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory accepts the lowercase category name, ignoring surrounding space.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

func (c Category) Valid() bool {
	for _, valid := range categories {
		if c == valid {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }
