package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/roommate-match/internal/db"
	"github.com/oggyb/roommate-match/internal/matching"
)

// MatchRepository persists scored pairs, one row per unordered pair of
// searches.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// WithTx returns a copy of the repository that runs inside tx.
func (r *MatchRepository) WithTx(tx *gorm.DB) *MatchRepository {
	return &MatchRepository{db: tx}
}

// Apply deletes the dropped pairs and writes the new matches. A new match
// for an existing pair overwrites its row.
//
// Example:
//
//	repo.Apply(ctx, sub.Dropped, sub.Matches)
func (r *MatchRepository) Apply(ctx context.Context, dropped []matching.PairKey, added []*matching.Match) error {
	if len(dropped) > 0 {
		hashes := make([]string, 0, len(dropped))
		for _, k := range dropped {
			hashes = append(hashes, db.PairHash(k))
		}
		if err := r.db.WithContext(ctx).Where("pair_hash IN ?", hashes).Delete(&db.Match{}).Error; err != nil {
			return err
		}
	}
	if len(added) == 0 {
		return nil
	}

	rows := make([]*db.Match, 0, len(added))
	for _, m := range added {
		rows = append(rows, db.NewMatch(m))
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_hash"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
}

// Sync replaces the whole table with matches. Used after an engine restore.
func (r *MatchRepository) Sync(ctx context.Context, matches []*matching.Match) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&db.Match{}).Error; err != nil {
			return err
		}
		return r.WithTx(tx).Apply(ctx, nil, matches)
	})
}
