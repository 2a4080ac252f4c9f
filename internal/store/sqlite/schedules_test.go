package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

func scheduleFixture(t *testing.T, s *Store) {
	t.Helper()
	insertTestUser(t, s, "user-1")
	for _, id := range []string{"outfit-1", "outfit-2"} {
		if err := s.CreateOutfit(context.Background(), makeTestOutfit(id, "user-1", id)); err != nil {
			t.Fatalf("CreateOutfit %s: %v", id, err)
		}
	}
}

func TestScheduleOutfitIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	scheduleFixture(t, s)

	day := domain.EpochDayFromTime(time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC))
	sched := &domain.ScheduledOutfit{UserID: "user-1", Day: day, OutfitID: "outfit-1", CreatedAt: time.Now()}

	added, err := s.ScheduleOutfit(ctx, sched)
	if err != nil {
		t.Fatalf("ScheduleOutfit: %v", err)
	}
	if !added {
		t.Error("first schedule should report added")
	}

	// Same outfit, same day, different wall-clock time: no new row.
	again := &domain.ScheduledOutfit{
		UserID:    "user-1",
		Day:       domain.EpochDayFromTime(time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)),
		OutfitID:  "outfit-1",
		CreatedAt: time.Now(),
	}
	added, err = s.ScheduleOutfit(ctx, again)
	if err != nil {
		t.Fatalf("ScheduleOutfit repeat: %v", err)
	}
	if added {
		t.Error("re-scheduling the same outfit on the same day should be a no-op")
	}

	scheds, err := s.ListSchedulesForDay(ctx, "user-1", day)
	if err != nil {
		t.Fatalf("ListSchedulesForDay: %v", err)
	}
	if len(scheds) != 1 {
		t.Errorf("expected 1 schedule, got %d", len(scheds))
	}
}

func TestMultipleOutfitsPerDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	scheduleFixture(t, s)

	day := domain.EpochDayFromTime(time.Now())
	for _, outfitID := range []string{"outfit-1", "outfit-2"} {
		if _, err := s.ScheduleOutfit(ctx, &domain.ScheduledOutfit{
			UserID: "user-1", Day: day, OutfitID: outfitID, CreatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("ScheduleOutfit %s: %v", outfitID, err)
		}
	}

	scheds, err := s.ListSchedulesForDay(ctx, "user-1", day)
	if err != nil {
		t.Fatalf("ListSchedulesForDay: %v", err)
	}
	if len(scheds) != 2 {
		t.Errorf("expected 2 schedules on the day, got %d", len(scheds))
	}
}

func TestListSchedulesRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	scheduleFixture(t, s)

	base := domain.EpochDayFromTime(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	for offset := range 5 {
		if _, err := s.ScheduleOutfit(ctx, &domain.ScheduledOutfit{
			UserID: "user-1", Day: base + domain.EpochDay(offset), OutfitID: "outfit-1", CreatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("ScheduleOutfit day+%d: %v", offset, err)
		}
	}

	scheds, err := s.ListSchedules(ctx, "user-1", base+1, base+3)
	if err != nil {
		t.Fatalf("ListSchedules: %v", err)
	}
	if len(scheds) != 3 {
		t.Fatalf("expected 3 schedules in range, got %d", len(scheds))
	}
	if scheds[0].Day != base+1 || scheds[2].Day != base+3 {
		t.Errorf("range bounds wrong: %v..%v", scheds[0].Day, scheds[2].Day)
	}
}

func TestUnscheduleOutfit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	scheduleFixture(t, s)

	day := domain.EpochDayFromTime(time.Now())
	if _, err := s.ScheduleOutfit(ctx, &domain.ScheduledOutfit{
		UserID: "user-1", Day: day, OutfitID: "outfit-1", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("ScheduleOutfit: %v", err)
	}

	if err := s.UnscheduleOutfit(ctx, "user-1", day, "outfit-1"); err != nil {
		t.Fatalf("UnscheduleOutfit: %v", err)
	}
	if err := s.UnscheduleOutfit(ctx, "user-1", day, "outfit-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second unschedule should report not found, got %v", err)
	}
}

func TestListSchedulesForOutfit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	scheduleFixture(t, s)

	base := domain.EpochDayFromTime(time.Now())
	for _, offset := range []domain.EpochDay{2, 0, 5} {
		if _, err := s.ScheduleOutfit(ctx, &domain.ScheduledOutfit{
			UserID: "user-1", Day: base + offset, OutfitID: "outfit-2", CreatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("ScheduleOutfit: %v", err)
		}
	}

	scheds, err := s.ListSchedulesForOutfit(ctx, "user-1", "outfit-2")
	if err != nil {
		t.Fatalf("ListSchedulesForOutfit: %v", err)
	}
	if len(scheds) != 3 {
		t.Fatalf("expected 3 days, got %d", len(scheds))
	}
	// Ordered by day.
	if scheds[0].Day != base || scheds[2].Day != base+5 {
		t.Errorf("day ordering wrong: %v, %v, %v", scheds[0].Day, scheds[1].Day, scheds[2].Day)
	}
}
