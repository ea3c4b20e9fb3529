package goal

import (
	"context"
	"errors"
	"time"

	"lavacar/internal/domain"
	"lavacar/internal/store"
)

// Service stores a single revenue goal per user. The store contract has no
// native upsert, so Set is a read followed by an insert or update; the
// unique index on user_id keeps concurrent first writes from producing two
// rows, and a second Set simply overwrites the first (last-writer-wins).
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Get returns the user's goal, or 0 when none exists. A read never creates
// a row.
func (s *Service) Get(ctx context.Context, userID int64) (float64, error) {
	var goals []domain.Goal
	if err := s.store.Select(ctx, "goals", &goals, store.Query{
		Columns: []string{"value"},
		Filters: []store.Filter{store.Eq("user_id", userID)},
	}); err != nil {
		return 0, err
	}
	if len(goals) == 0 {
		return 0, nil
	}
	return goals[0].Value, nil
}

// Set upserts the goal keyed by the user id.
func (s *Service) Set(ctx context.Context, userID int64, value float64) error {
	n, err := s.store.Count(ctx, "goals", store.Eq("user_id", userID))
	if err != nil {
		return err
	}

	now := time.Now()
	if n == 0 {
		g := domain.Goal{UserID: userID, Value: value, CreatedAt: now, UpdatedAt: now}
		err = s.store.Insert(ctx, "goals", &g)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return err
		}
		// Lost the race to a concurrent first write; fall through and
		// overwrite, which is the documented last-writer-wins outcome.
	}

	return s.store.Update(ctx, "goals", map[string]any{
		"value":      value,
		"updated_at": now,
	}, store.Eq("user_id", userID))
}
