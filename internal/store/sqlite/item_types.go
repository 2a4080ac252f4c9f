package sqlite

import (
	"context"
	"strings"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// itemTypeColumns must match the scan order in scanItemType.
const itemTypeColumns = `id, user_id, name, slug, created_at, updated_at`

func scanItemType(scanner interface{ Scan(dest ...any) error }) (*domain.ItemType, error) {
	var it domain.ItemType

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&it.ID,
		&it.UserID,
		&it.Name,
		&it.Slug,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	it.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	it.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &it, nil
}

// CreateItemType inserts a new clothing-type vocabulary entry.
// Returns store.ErrAlreadyExists on duplicate slug for the same user.
func (s *Store) CreateItemType(ctx context.Context, it *domain.ItemType) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item_types (id, user_id, name, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		it.ID,
		it.UserID,
		it.Name,
		it.Slug,
		formatTime(it.CreatedAt),
		formatTime(it.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// ListItemTypes returns a user's type vocabulary ordered by slug.
func (s *Store) ListItemTypes(ctx context.Context, userID string) ([]*domain.ItemType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemTypeColumns+` FROM item_types WHERE user_id = ? ORDER BY slug ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*domain.ItemType
	for rows.Next() {
		it, err := scanItemType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if types == nil {
		types = []*domain.ItemType{}
	}
	return types, nil
}

// DeleteItemType removes a type vocabulary entry. Items keep their type
// string; the entry only disappears from the picker.
func (s *Store) DeleteItemType(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM item_types WHERE id = ? AND user_id = ?`, id, userID)
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
