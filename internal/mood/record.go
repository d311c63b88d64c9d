package mood

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultIntensity = 5

// Record is a single mood journal entry.
type Record struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID    uuid.UUID                   `gorm:"type:uuid;not null;index:idx_mood_owner_occurred,priority:1;index:idx_mood_owner_category,priority:1;index:idx_mood_owner_seq,priority:1" json:"owner_id"`
	Text       string                      `gorm:"size:500;not null" json:"text"`
	Category   Category                    `gorm:"size:20;not null;index:idx_mood_owner_category,priority:2" json:"category"`
	Intensity  int                         `gorm:"not null" json:"intensity"`
	Activities datatypes.JSONSlice[string] `json:"activities"`
	Location   string                      `gorm:"size:100" json:"location,omitempty"`
	Weather    string                      `gorm:"size:50" json:"weather,omitempty"`
	Notes      string                      `gorm:"size:1000" json:"notes,omitempty"`
	OccurredAt time.Time                   `gorm:"not null;index:idx_mood_owner_occurred,priority:2" json:"occurred_at"`
	Seq        int64                       `gorm:"not null;index:idx_mood_owner_seq,priority:2" json:"-"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

func (Record) TableName() string { return "mood_records" }

// AfterFind keeps timestamps in UTC regardless of driver.
func (r *Record) AfterFind(tx *gorm.DB) error {
	r.OccurredAt = r.OccurredAt.UTC()
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	if r.Activities == nil {
		r.Activities = datatypes.JSONSlice[string]{}
	}
	return nil
}

// Fields is the caller-supplied content of a record, used for both
// create and full replace.
type Fields struct {
	Text       string     `json:"text" validate:"required,max=500"`
	Category   Category   `json:"category" validate:"required,mood_category"`
	Intensity  *int       `json:"intensity" validate:"omitempty,min=1,max=10"`
	Activities []string   `json:"activities" validate:"omitempty,dive,min=1,max=100"`
	Location   string     `json:"location" validate:"max=100"`
	Weather    string     `json:"weather" validate:"max=50"`
	Notes      string     `json:"notes" validate:"max=1000"`
	OccurredAt *time.Time `json:"occurred_at"`
}

func (f Fields) normalized() Fields {
	f.Text = strings.TrimSpace(f.Text)
	f.Category = Category(strings.TrimSpace(string(f.Category)))
	f.Location = strings.TrimSpace(f.Location)
	f.Weather = strings.TrimSpace(f.Weather)
	f.Notes = strings.TrimSpace(f.Notes)
	if f.Activities != nil {
		acts := make([]string, len(f.Activities))
		for i, a := range f.Activities {
			acts[i] = strings.TrimSpace(a)
		}
		f.Activities = acts
	}
	return f
}

// applyTo copies validated fields onto r. OccurredAt is only touched when
// supplied; callers set the creation default themselves.
func (f Fields) applyTo(r *Record) {
	r.Text = f.Text
	r.Category = f.Category
	r.Intensity = DefaultIntensity
	if f.Intensity != nil {
		r.Intensity = *f.Intensity
	}
	r.Activities = datatypes.JSONSlice[string]{}
	if len(f.Activities) > 0 {
		r.Activities = append(datatypes.JSONSlice[string]{}, f.Activities...)
	}
	r.Location = f.Location
	r.Weather = f.Weather
	r.Notes = f.Notes
	if f.OccurredAt != nil {
		r.OccurredAt = normalizeTime(*f.OccurredAt)
	}
}

// normalizeTime drops the monotonic reading and anything finer than the
// microsecond precision the database keeps.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
