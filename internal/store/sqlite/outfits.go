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

// outfitColumns is the ordered list of columns selected in outfit queries.
// Must match the scan order in scanOutfit.
const outfitColumns = `id, user_id, created_at, updated_at, deleted_at, name,
	description, favorite, photo_path, blur_hash, deletion_candidate`

// scanOutfit scans a row into a domain.Outfit. ItemIDs and Tags are loaded
// separately.
func scanOutfit(scanner interface{ Scan(dest ...any) error }) (*domain.Outfit, error) {
	var o domain.Outfit

	var (
		createdAt    string
		updatedAt    string
		deletedAt    sql.NullString
		favorite     int
		delCandidate int
	)

	err := scanner.Scan(
		&o.ID,
		&o.UserID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&o.Name,
		&o.Description,
		&favorite,
		&o.PhotoPath,
		&o.BlurHash,
		&delCandidate,
	)
	if err != nil {
		return nil, err
	}

	o.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	o.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	o.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	o.Favorite = favorite != 0
	o.DeletionCandidate = delCandidate != 0

	return &o, nil
}

// replaceOutfitRelations replaces outfit_items and outfit_tags rows inside
// tx. Item order is preserved via the position column.
func replaceOutfitRelations(ctx context.Context, tx *sql.Tx, outfitID string, itemIDs, tags []string) error {
	now := formatTime(time.Now())

	if _, err := tx.ExecContext(ctx, `DELETE FROM outfit_items WHERE outfit_id = ?`, outfitID); err != nil {
		return fmt.Errorf("delete outfit_items: %w", err)
	}
	for pos, itemID := range itemIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO outfit_items (outfit_id, item_id, position, created_at)
			VALUES (?, ?, ?, ?)`,
			outfitID, itemID, pos, now)
		if err != nil {
			if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
				return store.ErrInvalidInput.WithMessage("outfit references unknown item").WithCause(err)
			}
			return fmt.Errorf("insert outfit_item: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM outfit_tags WHERE outfit_id = ?`, outfitID); err != nil {
		return fmt.Errorf("delete outfit_tags: %w", err)
	}
	for _, tag := range tags {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO outfit_tags (outfit_id, tag, created_at) VALUES (?, ?, ?)`,
			outfitID, tag, now)
		if err != nil {
			return fmt.Errorf("insert outfit_tag: %w", err)
		}
	}

	return nil
}

// loadOutfitRelations fills ItemIDs and Tags for each outfit.
func (s *Store) loadOutfitRelations(ctx context.Context, outfits []*domain.Outfit) error {
	if len(outfits) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Outfit, len(outfits))
	placeholders := make([]string, 0, len(outfits))
	args := make([]any, 0, len(outfits))
	for _, o := range outfits {
		byID[o.ID] = o
		placeholders = append(placeholders, "?")
		args = append(args, o.ID)
	}
	in := strings.Join(placeholders, ",")

	rows, err := s.db.QueryContext(ctx, `
		SELECT outfit_id, item_id FROM outfit_items
		WHERE outfit_id IN (`+in+`)
		ORDER BY position ASC`, args...)
	if err != nil {
		return fmt.Errorf("query outfit_items: %w", err)
	}
	for rows.Next() {
		var outfitID, itemID string
		if err := rows.Scan(&outfitID, &itemID); err != nil {
			rows.Close()
			return err
		}
		if o, ok := byID[outfitID]; ok {
			o.ItemIDs = append(o.ItemIDs, itemID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT outfit_id, tag FROM outfit_tags
		WHERE outfit_id IN (`+in+`)
		ORDER BY created_at ASC`, args...)
	if err != nil {
		return fmt.Errorf("query outfit_tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var outfitID, tag string
		if err := rows.Scan(&outfitID, &tag); err != nil {
			return err
		}
		if o, ok := byID[outfitID]; ok {
			o.Tags = append(o.Tags, tag)
		}
	}
	return rows.Err()
}

// CreateOutfit inserts the outfit row and its item/tag relations in a
// single transaction; a failed relation insert leaves no partial outfit.
func (s *Store) CreateOutfit(ctx context.Context, outfit *domain.Outfit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outfits (
			id, user_id, created_at, updated_at, deleted_at, name,
			description, favorite, photo_path, blur_hash, deletion_candidate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		outfit.ID,
		outfit.UserID,
		formatTime(outfit.CreatedAt),
		formatTime(outfit.UpdatedAt),
		nullTimeString(outfit.DeletedAt),
		outfit.Name,
		outfit.Description,
		boolToInt(outfit.Favorite),
		outfit.PhotoPath,
		outfit.BlurHash,
		boolToInt(outfit.DeletionCandidate),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := replaceOutfitRelations(ctx, tx, outfit.ID, outfit.ItemIDs, outfit.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.indexOutfitAsync(outfit)
	return nil
}

// GetOutfit retrieves a non-deleted outfit owned by the user.
func (s *Store) GetOutfit(ctx context.Context, userID, id string) (*domain.Outfit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+outfitColumns+` FROM outfits
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID)

	o, err := scanOutfit(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadOutfitRelations(ctx, []*domain.Outfit{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// ListOutfits returns all non-deleted outfits for a user, oldest first.
func (s *Store) ListOutfits(ctx context.Context, userID string) ([]*domain.Outfit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+outfitColumns+` FROM outfits
		 WHERE user_id = ? AND deleted_at IS NULL ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outfits []*domain.Outfit
	for rows.Next() {
		o, err := scanOutfit(rows)
		if err != nil {
			return nil, err
		}
		outfits = append(outfits, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadOutfitRelations(ctx, outfits); err != nil {
		return nil, err
	}

	if outfits == nil {
		outfits = []*domain.Outfit{}
	}
	return outfits, nil
}

// UpdateOutfit performs a full row update and replaces relations in one
// transaction. Returns store.ErrNotFound if the outfit does not exist.
func (s *Store) UpdateOutfit(ctx context.Context, outfit *domain.Outfit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE outfits SET
			updated_at = ?,
			name = ?,
			description = ?,
			favorite = ?,
			photo_path = ?,
			blur_hash = ?,
			deletion_candidate = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		formatTime(outfit.UpdatedAt),
		outfit.Name,
		outfit.Description,
		boolToInt(outfit.Favorite),
		outfit.PhotoPath,
		outfit.BlurHash,
		boolToInt(outfit.DeletionCandidate),
		outfit.ID,
		outfit.UserID,
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

	if err := replaceOutfitRelations(ctx, tx, outfit.ID, outfit.ItemIDs, outfit.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.indexOutfitAsync(outfit)
	return nil
}

// DeleteOutfit soft-deletes the outfit and removes its relations and any
// calendar schedules in the same transaction.
func (s *Store) DeleteOutfit(ctx context.Context, userID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())

	result, err := tx.ExecContext(ctx, `
		UPDATE outfits SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now, now, id, userID)
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM outfit_items WHERE outfit_id = ?`, id); err != nil {
		return fmt.Errorf("delete outfit_items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM outfit_tags WHERE outfit_id = ?`, id); err != nil {
		return fmt.Errorf("delete outfit_tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE outfit_id = ?`, id); err != nil {
		return fmt.Errorf("delete schedules: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.deleteOutfitIndexAsync(id)
	return nil
}

func (s *Store) indexOutfitAsync(outfit *domain.Outfit) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		if err := s.searchIndexer.IndexOutfit(context.Background(), outfit); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to index outfit for search", "outfit_id", outfit.ID, "error", err)
			}
		}
	}()
}

func (s *Store) deleteOutfitIndexAsync(outfitID string) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		if err := s.searchIndexer.DeleteOutfit(context.Background(), outfitID); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to remove outfit from search index", "outfit_id", outfitID, "error", err)
			}
		}
	}()
}
