package sqlite

import (
	"context"
	"strings"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// blockedColumns must match the scan order in scanBlocked.
const blockedColumns = `id, user_id, accessory_id, top_id, bottom_id, shoe_id, created_at`

func scanBlocked(scanner interface{ Scan(dest ...any) error }) (*domain.BlockedCombination, error) {
	var b domain.BlockedCombination

	var createdAt string

	err := scanner.Scan(
		&b.ID,
		&b.UserID,
		&b.AccessoryID,
		&b.TopID,
		&b.BottomID,
		&b.ShoeID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBlockedCombination records a combination as blocked. The id_set
// column carries the sorted flattened ids, and its unique index makes the
// write idempotent: re-blocking an equivalent combination (same ids in any
// lane arrangement) inserts nothing. The bool result reports whether a new
// row was written.
func (s *Store) CreateBlockedCombination(ctx context.Context, b *domain.BlockedCombination) (bool, error) {
	if b.IsEmpty() {
		return false, store.ErrInvalidInput.WithMessage("blocked combination has no items")
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO blocked_combinations (
			id, user_id, accessory_id, top_id, bottom_id, shoe_id, id_set, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.UserID,
		b.AccessoryID,
		b.TopID,
		b.BottomID,
		b.ShoeID,
		strings.Join(b.IDSet(), ","),
		formatTime(b.CreatedAt),
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListBlockedCombinations returns all blocked combinations for a user,
// newest first.
func (s *Store) ListBlockedCombinations(ctx context.Context, userID string) ([]*domain.BlockedCombination, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+blockedColumns+` FROM blocked_combinations
		 WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocked []*domain.BlockedCombination
	for rows.Next() {
		b, err := scanBlocked(rows)
		if err != nil {
			return nil, err
		}
		blocked = append(blocked, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if blocked == nil {
		blocked = []*domain.BlockedCombination{}
	}
	return blocked, nil
}

// DeleteBlockedCombination removes a blocked record, allowing the
// combination to be suggested again.
func (s *Store) DeleteBlockedCombination(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM blocked_combinations WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
