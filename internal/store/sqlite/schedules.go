package sqlite

import (
	"context"
	"fmt"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// scheduleColumns must match the scan order in scanSchedule.
const scheduleColumns = `user_id, day, outfit_id, created_at`

func scanSchedule(scanner interface{ Scan(dest ...any) error }) (*domain.ScheduledOutfit, error) {
	var sched domain.ScheduledOutfit

	var (
		day       int64
		createdAt string
	)

	err := scanner.Scan(
		&sched.UserID,
		&day,
		&sched.OutfitID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	sched.Day = domain.EpochDay(day)
	sched.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &sched, nil
}

// ScheduleOutfit assigns an outfit to a calendar day. Scheduling is
// idempotent: the (user, day, outfit) primary key absorbs repeats, and the
// bool result reports whether a new row was actually written.
func (s *Store) ScheduleOutfit(ctx context.Context, sched *domain.ScheduledOutfit) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO schedules (user_id, day, outfit_id, created_at)
		VALUES (?, ?, ?, ?)`,
		sched.UserID,
		int64(sched.Day),
		sched.OutfitID,
		formatTime(sched.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("insert schedule: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UnscheduleOutfit removes an outfit from a calendar day.
// Returns store.ErrNotFound if no such assignment exists.
func (s *Store) UnscheduleOutfit(ctx context.Context, userID string, day domain.EpochDay, outfitID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM schedules WHERE user_id = ? AND day = ? AND outfit_id = ?`,
		userID, int64(day), outfitID)
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

// ListSchedules returns all assignments in the inclusive day range,
// ordered by day then creation time.
func (s *Store) ListSchedules(ctx context.Context, userID string, from, to domain.EpochDay) ([]*domain.ScheduledOutfit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules
		 WHERE user_id = ? AND day >= ? AND day <= ?
		 ORDER BY day ASC, created_at ASC`,
		userID, int64(from), int64(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*domain.ScheduledOutfit
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if schedules == nil {
		schedules = []*domain.ScheduledOutfit{}
	}
	return schedules, nil
}

// ListSchedulesForDay returns all assignments on one calendar day.
func (s *Store) ListSchedulesForDay(ctx context.Context, userID string, day domain.EpochDay) ([]*domain.ScheduledOutfit, error) {
	return s.ListSchedules(ctx, userID, day, day)
}

// ListSchedulesForOutfit returns every day an outfit is scheduled on.
func (s *Store) ListSchedulesForOutfit(ctx context.Context, userID, outfitID string) ([]*domain.ScheduledOutfit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules
		 WHERE user_id = ? AND outfit_id = ?
		 ORDER BY day ASC`,
		userID, outfitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*domain.ScheduledOutfit
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if schedules == nil {
		schedules = []*domain.ScheduledOutfit{}
	}
	return schedules, nil
}
