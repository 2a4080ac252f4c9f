package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// itemColumns is the ordered list of columns selected in item queries.
// Must match the scan order in scanItem.
const itemColumns = `id, user_id, created_at, updated_at, deleted_at, name,
	type, description, favorite, photo_path, blur_hash, carousel_type,
	deletion_candidate`

// scanItem scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Item. Tags are loaded separately.
func scanItem(scanner interface{ Scan(dest ...any) error }) (*domain.Item, error) {
	var it domain.Item

	var (
		createdAt    string
		updatedAt    string
		deletedAt    sql.NullString
		favorite     int
		carouselType string
		delCandidate int
	)

	err := scanner.Scan(
		&it.ID,
		&it.UserID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&it.Name,
		&it.Type,
		&it.Description,
		&favorite,
		&it.PhotoPath,
		&it.BlurHash,
		&carouselType,
		&delCandidate,
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
	it.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	it.Favorite = favorite != 0
	it.CarouselType = domain.CarouselCategory(carouselType)
	it.DeletionCandidate = delCandidate != 0

	return &it, nil
}

// replaceItemTags replaces the item_tags rows for an item inside tx.
func replaceItemTags(ctx context.Context, tx *sql.Tx, itemID string, tags []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("delete item_tags: %w", err)
	}
	now := formatTime(time.Now())
	for _, tag := range tags {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO item_tags (item_id, tag, created_at) VALUES (?, ?, ?)`,
			itemID, tag, now)
		if err != nil {
			return fmt.Errorf("insert item_tag: %w", err)
		}
	}
	return nil
}

// loadItemTags fills Tags for each item in a single query.
func (s *Store) loadItemTags(ctx context.Context, items []*domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Item, len(items))
	placeholders := make([]string, 0, len(items))
	args := make([]any, 0, len(items))
	for _, it := range items {
		byID[it.ID] = it
		placeholders = append(placeholders, "?")
		args = append(args, it.ID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, tag FROM item_tags
		WHERE item_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY created_at ASC`, args...)
	if err != nil {
		return fmt.Errorf("query item_tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID, tag string
		if err := rows.Scan(&itemID, &tag); err != nil {
			return fmt.Errorf("scan item_tag: %w", err)
		}
		if it, ok := byID[itemID]; ok {
			it.Tags = append(it.Tags, tag)
		}
	}
	return rows.Err()
}

// CreateItem inserts a new item and its tag rows in one transaction.
func (s *Store) CreateItem(ctx context.Context, item *domain.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (
			id, user_id, created_at, updated_at, deleted_at, name,
			type, description, favorite, photo_path, blur_hash, carousel_type,
			deletion_candidate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.UserID,
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
		nullTimeString(item.DeletedAt),
		item.Name,
		item.Type,
		item.Description,
		boolToInt(item.Favorite),
		item.PhotoPath,
		item.BlurHash,
		string(item.CarouselType),
		boolToInt(item.DeletionCandidate),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := replaceItemTags(ctx, tx, item.ID, item.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.indexItemAsync(item)
	return nil
}

// GetItem retrieves a non-deleted item owned by the user.
// Returns store.ErrNotFound if the item does not exist or belongs to
// another user.
func (s *Store) GetItem(ctx context.Context, userID, id string) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID)

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadItemTags(ctx, []*domain.Item{it}); err != nil {
		return nil, err
	}
	return it, nil
}

// ListItems returns all non-deleted items for a user, oldest first.
func (s *Store) ListItems(ctx context.Context, userID string) ([]*domain.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE user_id = ? AND deleted_at IS NULL ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadItemTags(ctx, items); err != nil {
		return nil, err
	}

	if items == nil {
		items = []*domain.Item{}
	}
	return items, nil
}

// UpdateItem performs a full row update and replaces the tag rows in one
// transaction. Returns store.ErrNotFound if the item does not exist.
func (s *Store) UpdateItem(ctx context.Context, item *domain.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE items SET
			updated_at = ?,
			name = ?,
			type = ?,
			description = ?,
			favorite = ?,
			photo_path = ?,
			blur_hash = ?,
			carousel_type = ?,
			deletion_candidate = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		formatTime(item.UpdatedAt),
		item.Name,
		item.Type,
		item.Description,
		boolToInt(item.Favorite),
		item.PhotoPath,
		item.BlurHash,
		string(item.CarouselType),
		boolToInt(item.DeletionCandidate),
		item.ID,
		item.UserID,
	)
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

	if err := replaceItemTags(ctx, tx, item.ID, item.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.indexItemAsync(item)
	return nil
}

// DeleteItem soft-deletes an item and cascades in the same transaction:
// every outfit that referenced the item is deleted along with its relation
// rows and calendar schedules, and blocked combinations referencing the
// item are dropped. Returns the ids of the deleted outfits.
func (s *Store) DeleteItem(ctx context.Context, userID, id string) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())

	result, err := tx.ExecContext(ctx, `
		UPDATE items SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now, now, id, userID)
	if err != nil {
		return nil, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}

	// Collect the outfits that referenced the item before unlinking.
	rows, err := tx.QueryContext(ctx,
		`SELECT outfit_id FROM outfit_items WHERE item_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query outfit_items: %w", err)
	}
	var outfitIDs []string
	for rows.Next() {
		var outfitID string
		if err := rows.Scan(&outfitID); err != nil {
			rows.Close()
			return nil, err
		}
		outfitIDs = append(outfitIDs, outfitID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, outfitID := range outfitIDs {
		if _, err := tx.ExecContext(ctx, `
			UPDATE outfits SET deleted_at = ?, updated_at = ?
			WHERE id = ? AND deleted_at IS NULL`, now, now, outfitID); err != nil {
			return nil, fmt.Errorf("delete outfit %s: %w", outfitID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM outfit_items WHERE outfit_id = ?`, outfitID); err != nil {
			return nil, fmt.Errorf("delete outfit_items: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM outfit_tags WHERE outfit_id = ?`, outfitID); err != nil {
			return nil, fmt.Errorf("delete outfit_tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM schedules WHERE outfit_id = ?`, outfitID); err != nil {
			return nil, fmt.Errorf("delete schedules: %w", err)
		}
	}

	// Blocked combinations referencing a deleted item can never resurface;
	// drop them so they stop shadowing future combinations.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM blocked_combinations
		WHERE user_id = ? AND (accessory_id = ? OR top_id = ? OR bottom_id = ? OR shoe_id = ?)`,
		userID, id, id, id, id); err != nil {
		return nil, fmt.Errorf("delete blocked_combinations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.deleteItemIndexAsync(id)
	for _, outfitID := range outfitIDs {
		s.deleteOutfitIndexAsync(outfitID)
	}
	return outfitIDs, nil
}

// indexItemAsync pushes an item into the search index without blocking the
// write path.
func (s *Store) indexItemAsync(item *domain.Item) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		if err := s.searchIndexer.IndexItem(context.Background(), item); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to index item for search", "item_id", item.ID, "error", err)
			}
		}
	}()
}

func (s *Store) deleteItemIndexAsync(itemID string) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		if err := s.searchIndexer.DeleteItem(context.Background(), itemID); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to remove item from search index", "item_id", itemID, "error", err)
			}
		}
	}()
}
