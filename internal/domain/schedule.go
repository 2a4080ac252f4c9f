package domain

import "time"

// EpochDay is a calendar date stored as whole days since the Unix epoch,
// always interpreted in UTC. The client sends full timestamps; we truncate
// to the day so "same date" comparisons are integer equality.
type EpochDay int64

// EpochDayFromTime truncates t to its UTC calendar day.
func EpochDayFromTime(t time.Time) EpochDay {
	utc := t.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return EpochDay(midnight.Unix() / 86400)
}

// Time returns midnight UTC of the day.
func (d EpochDay) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// String formats the day as an ISO date.
func (d EpochDay) String() string {
	return d.Time().Format("2006-01-02")
}

// ParseEpochDay parses an ISO date (2006-01-02) into an EpochDay.
func ParseEpochDay(s string) (EpochDay, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, err
	}
	return EpochDayFromTime(t), nil
}

// ScheduledOutfit associates an outfit with a calendar date. Multiple
// outfits may be scheduled per date and an outfit may appear on many dates.
type ScheduledOutfit struct {
	Day       EpochDay  `json:"day"`
	OutfitID  string    `json:"outfit_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
