package mood

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists records and the per-owner summary. Every method is
// scoped to a single owner.
type Repository interface {
	// Insert stores rec, assigning its arrival sequence, and appends it to
	// the owner's summary in the same transaction.
	Insert(ctx context.Context, rec *Record) error
	// Replace loads the (ownerID, id) record, lets mutate rewrite it and
	// saves it. Identity and audit fields are restored after mutate runs.
	Replace(ctx context.Context, ownerID, id uuid.UUID, mutate func(*Record)) (*Record, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	Get(ctx context.Context, ownerID, id uuid.UUID) (*Record, error)
	// List returns one page and the filtered total. No rows are read when
	// offset is at or past the total.
	List(ctx context.Context, ownerID uuid.UUID, filter Filter, limit, offset int) ([]Record, int64, error)
	// Window returns the owner's records with OccurredAt in [from, to],
	// read with a single statement.
	Window(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]Record, error)
	Summary(ctx context.Context, ownerID uuid.UUID) (Summary, error)
	// Revision changes whenever any of the owner's records is written.
	Revision(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// summaryRow is the persisted rollup for one owner. Writers lock it before
// touching records, which serializes writes per owner.
type summaryRow struct {
	OwnerID   uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Seq       int64        `gorm:"not null"`
	Revision  int64        `gorm:"not null"`
	State     summaryState `gorm:"type:text;serializer:json"`
	UpdatedAt time.Time
}

func (summaryRow) TableName() string { return "mood_summaries" }

// summaryState is what the summary row stores: the counters a Summary is
// derived from, bookkeeping the API never shows included.
type summaryState struct {
	TotalCount     int64              `json:"total_count"`
	IntensitySum   int64              `json:"intensity_sum"`
	CategoryCounts map[Category]int64 `json:"category_counts"`
	LastSeen       map[Category]int64 `json:"category_last_seen"`
}

func stateOf(s Summary) summaryState {
	return summaryState{
		TotalCount:     s.TotalCount,
		IntensitySum:   s.IntensitySum,
		CategoryCounts: s.CategoryCounts,
		LastSeen:       s.LastSeen,
	}
}

func (st summaryState) summary() Summary {
	s := Summary{
		TotalCount:     st.TotalCount,
		IntensitySum:   st.IntensitySum,
		CategoryCounts: st.CategoryCounts,
		LastSeen:       st.LastSeen,
	}
	s.derive()
	return s
}

// Models returns the GORM models for AutoMigrate.
func Models() []interface{} {
	return []interface{}{&Record{}, &summaryRow{}}
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Insert(ctx context.Context, rec *Record) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockSummary(tx, rec.OwnerID)
		if err != nil {
			return err
		}

		rec.Seq = row.Seq + 1
		if err := tx.Create(rec).Error; err != nil {
			return err
		}

		row.Seq = rec.Seq
		row.Revision++
		row.State = stateOf(row.State.summary().Append(*rec))
		return tx.Save(row).Error
	})
	return storageErr("insert", err)
}

func (r *GormRepository) Replace(ctx context.Context, ownerID, id uuid.UUID, mutate func(*Record)) (*Record, error) {
	var out Record
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockSummary(tx, ownerID)
		if err != nil {
			return err
		}

		var rec Record
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		keep := rec
		mutate(&rec)
		rec.ID, rec.OwnerID, rec.Seq, rec.CreatedAt = keep.ID, keep.OwnerID, keep.Seq, keep.CreatedAt

		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		if err := recomputeSummary(tx, row); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, storageErr("replace", err)
	}
	return &out, nil
}

func (r *GormRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockSummary(tx, ownerID)
		if err != nil {
			return err
		}

		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&Record{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return recomputeSummary(tx, row)
	})
	return storageErr("delete", err)
}

func (r *GormRepository) Get(ctx context.Context, ownerID, id uuid.UUID) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr("get", err)
	}
	return &rec, nil
}

func (r *GormRepository) List(ctx context.Context, ownerID uuid.UUID, filter Filter, limit, offset int) ([]Record, int64, error) {
	var (
		items []Record
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Record{}).Scopes(ForOwner(ownerID), filter.scope).Count(&total).Error; err != nil {
			return err
		}
		if int64(offset) >= total {
			return nil
		}
		return tx.Scopes(ForOwner(ownerID), filter.scope).
			Order("occurred_at DESC").
			Order("id DESC").
			Limit(limit).
			Offset(offset).
			Find(&items).Error
	})
	if err != nil {
		return nil, 0, storageErr("list", err)
	}
	return items, total, nil
}

func (r *GormRepository) Window(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]Record, error) {
	var items []Record
	err := r.db.WithContext(ctx).Scopes(ForOwner(ownerID)).
		Where("occurred_at >= ? AND occurred_at <= ?", from.UTC(), to.UTC()).
		Order("occurred_at ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, storageErr("window", err)
	}
	return items, nil
}

func (r *GormRepository) Summary(ctx context.Context, ownerID uuid.UUID) (Summary, error) {
	row, err := r.findSummary(ctx, ownerID)
	if err != nil {
		return Summary{}, storageErr("summary", err)
	}
	return row.State.summary(), nil
}

func (r *GormRepository) Revision(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	row, err := r.findSummary(ctx, ownerID)
	if err != nil {
		return 0, storageErr("revision", err)
	}
	return row.Revision, nil
}

func (r *GormRepository) findSummary(ctx context.Context, ownerID uuid.UUID) (*summaryRow, error) {
	var row summaryRow
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &summaryRow{OwnerID: ownerID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ForOwner returns a GORM scope that filters by owner_id.
func ForOwner(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

func (f Filter) scope(db *gorm.DB) *gorm.DB {
	if f.Category != nil {
		db = db.Where("category = ?", *f.Category)
	}
	if f.StartDate != nil {
		db = db.Where("occurred_at >= ?", f.StartDate.UTC())
	}
	if f.EndDate != nil {
		db = db.Where("occurred_at <= ?", f.EndDate.UTC())
	}
	return db
}

// DeleteOwnerData removes every record and the summary of ownerID. It is
// meant to run inside the caller's account-deletion transaction.
func DeleteOwnerData(tx *gorm.DB, ownerID uuid.UUID) error {
	if err := tx.Where("owner_id = ?", ownerID).Delete(&Record{}).Error; err != nil {
		return err
	}
	return tx.Where("owner_id = ?", ownerID).Delete(&summaryRow{}).Error
}

// lockSummary creates the owner's summary row if needed and locks it for
// the rest of the transaction.
func lockSummary(tx *gorm.DB, ownerID uuid.UUID) (*summaryRow, error) {
	seed := summaryRow{OwnerID: ownerID, State: stateOf(Summarize(nil))}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var row summaryRow
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner_id = ?", ownerID).
		Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func recomputeSummary(tx *gorm.DB, row *summaryRow) error {
	var records []Record
	if err := tx.Scopes(ForOwner(row.OwnerID)).Order("seq ASC").Find(&records).Error; err != nil {
		return err
	}
	row.State = stateOf(Summarize(records))
	row.Revision++
	return tx.Save(row).Error
}
