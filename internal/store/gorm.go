package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Gorm implements Store on top of a gorm connection. Each method issues
// exactly one statement; nothing here opens a transaction.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) Insert(ctx context.Context, collection string, rows any) error {
	err := s.db.WithContext(ctx).Table(collection).Create(rows).Error
	return wrapErr(collection, err)
}

func (s *Gorm) Update(ctx context.Context, collection string, patch map[string]any, filters ...Filter) error {
	tx := applyFilters(s.db.WithContext(ctx).Table(collection), filters)
	return wrapErr(collection, tx.Updates(patch).Error)
}

func (s *Gorm) Delete(ctx context.Context, collection string, filters ...Filter) error {
	tx := applyFilters(s.db.WithContext(ctx).Table(collection), filters)
	return wrapErr(collection, tx.Delete(nil).Error)
}

func (s *Gorm) Select(ctx context.Context, collection string, dest any, q Query) error {
	tx := s.db.WithContext(ctx).Table(collection)
	if len(q.Columns) > 0 {
		tx = tx.Select(q.Columns)
	}
	tx = applyFilters(tx, q.Filters)
	if q.Order != nil {
		dir := "ASC"
		if q.Order.Descending {
			dir = "DESC"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", q.Order.Column, dir))
	}
	if q.Range != nil {
		tx = tx.Offset(q.Range.From).Limit(q.Range.To - q.Range.From + 1)
	}
	return wrapErr(collection, tx.Find(dest).Error)
}

func (s *Gorm) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	var n int64
	tx := applyFilters(s.db.WithContext(ctx).Table(collection), filters)
	if err := tx.Count(&n).Error; err != nil {
		return 0, wrapErr(collection, err)
	}
	return n, nil
}

func applyFilters(tx *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		switch f.Op {
		case OpEq:
			tx = tx.Where(fmt.Sprintf("%s = ?", f.Column), f.Value)
		case OpNeq:
			tx = tx.Where(fmt.Sprintf("%s <> ?", f.Column), f.Value)
		case OpIn:
			tx = tx.Where(fmt.Sprintf("%s IN ?", f.Column), f.Value)
		case OpGte:
			tx = tx.Where(fmt.Sprintf("%s >= ?", f.Column), f.Value)
		case OpLt:
			tx = tx.Where(fmt.Sprintf("%s < ?", f.Column), f.Value)
		case OpLte:
			tx = tx.Where(fmt.Sprintf("%s <= ?", f.Column), f.Value)
		case OpILike:
			// LOWER/LIKE instead of ILIKE so the same filter works on
			// postgres and the sqlite test database.
			tx = tx.Where(fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", f.Column), f.Value)
		}
	}
	return tx
}

func wrapErr(collection string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", collection, ErrConflict)
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%s: %w", collection, ErrConflict)
	}
	return fmt.Errorf("%s: %w", collection, err)
}
