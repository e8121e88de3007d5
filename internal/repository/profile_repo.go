package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/roommate-match/internal/db"
	"github.com/oggyb/roommate-match/internal/matching"
)

// ProfileRepository persists roommate searches.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// WithTx returns a copy of the repository that runs inside tx.
func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

// Upsert inserts a search or overwrites the row with the same
// (user_id, listing_id). Every call takes the next submission sequence, so
// a resubmitted search replays after the searches submitted before it.
// Callers serialize writes.
//
// Example:
//
//	repo.Upsert(ctx, profile) // resubmitting replaces every column
func (r *ProfileRepository) Upsert(ctx context.Context, p *matching.SearchProfile) error {
	var last uint64
	err := r.db.WithContext(ctx).
		Model(&db.SearchProfile{}).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&last).Error
	if err != nil {
		return err
	}

	row := db.NewSearchProfile(p)
	row.Seq = last + 1
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "listing_id"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

// Delete removes the searches with the given keys.
func (r *ProfileRepository) Delete(ctx context.Context, keys []matching.ProfileKey) error {
	for _, k := range keys {
		err := r.db.WithContext(ctx).
			Where("user_id = ? AND listing_id = ?", k.UserID, k.ListingID).
			Delete(&db.SearchProfile{}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// List returns every persisted search in submission order, the order in
// which they should be replayed into an engine.
func (r *ProfileRepository) List(ctx context.Context) ([]*matching.SearchProfile, error) {
	var rows []db.SearchProfile
	err := r.db.WithContext(ctx).
		Order("seq ASC, user_id ASC, listing_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*matching.SearchProfile, 0, len(rows))
	for i := range rows {
		p, err := rows[i].Profile()
		if err != nil {
			return nil, fmt.Errorf("failed to load search profiles: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}
