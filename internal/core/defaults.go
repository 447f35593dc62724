package core

import (
	"context"

	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/storage/db"
)

// setDefault maintains the single default row of a collection.
//
// Clearing touches only the target, which must exist. Setting sweeps the whole
// collection and writes every row whose flag has to flip. The target is not
// looked up first, so an unknown id leaves the collection without a default.
// Rows are written one at a time; a failure part way through leaves the
// collection as far as the sweep got, and calling again converges.
func setDefault[T any, P interface {
	*T
	domain.Defaultable
}](ctx context.Context, repo *db.Repository[T], targetID string, want bool) error {
	if !want {
		row, err := repo.Get(ctx, targetID)
		if err != nil {
			return err
		}
		P(row).SetDefault(false)
		return repo.Update(ctx, row)
	}

	rows, err := repo.Fetch(ctx, db.Filter{})
	if err != nil {
		return err
	}
	for i := range rows {
		row := P(&rows[i])
		should := row.RecordID() == targetID
		if row.Default() == should {
			continue
		}
		row.SetDefault(should)
		if err := repo.Update(ctx, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

// defaultOf returns the default row of a collection, or nil.
func defaultOf[T any, P interface {
	*T
	domain.Defaultable
}](ctx context.Context, repo *db.Repository[T]) (*T, error) {
	rows, err := repo.Fetch(ctx, db.Filter{})
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if P(&rows[i]).Default() {
			return &rows[i], nil
		}
	}
	return nil, nil
}
