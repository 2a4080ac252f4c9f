package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

func (s *Server) registerScheduleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "scheduleOutfit",
		Method:      http.MethodPut,
		Path:        "/api/v1/outfits/{id}/schedule/{date}",
		Summary:     "Schedule outfit",
		Description: "Schedules an outfit on a calendar date. Scheduling the same pair again is a no-op.",
		Tags:        []string{"Calendar"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleScheduleOutfit)

	huma.Register(s.api, huma.Operation{
		OperationID: "unscheduleOutfit",
		Method:      http.MethodDelete,
		Path:        "/api/v1/outfits/{id}/schedule/{date}",
		Summary:     "Unschedule outfit",
		Description: "Removes an outfit from a calendar date",
		Tags:        []string{"Calendar"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnscheduleOutfit)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOutfitSchedule",
		Method:      http.MethodGet,
		Path:        "/api/v1/outfits/{id}/schedule",
		Summary:     "Get outfit schedule",
		Description: "Returns every date the outfit is scheduled on",
		Tags:        []string{"Calendar"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleOutfitSchedule)

	huma.Register(s.api, huma.Operation{
		OperationID: "getScheduledDates",
		Method:      http.MethodGet,
		Path:        "/api/v1/calendar",
		Summary:     "List scheduled dates",
		Description: "Returns the dates in a range that have at least one outfit scheduled",
		Tags:        []string{"Calendar"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleScheduledDates)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOutfitsForDay",
		Method:      http.MethodGet,
		Path:        "/api/v1/calendar/{date}",
		Summary:     "Outfits for a date",
		Description: "Returns the outfits scheduled on a calendar date",
		Tags:        []string{"Calendar"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleOutfitsForDay)
}

// === DTOs ===

// ScheduleInput addresses one outfit/date pair.
type ScheduleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Outfit ID"`
	Date          string `path:"date" doc:"Calendar date (YYYY-MM-DD)"`
}

// ScheduleOutput reports the result of a scheduling call.
type ScheduleOutput struct {
	Body struct {
		Date  string `json:"date" doc:"Calendar date (YYYY-MM-DD)"`
		Added bool   `json:"added" doc:"false when the outfit was already scheduled on the date"`
	}
}

// OutfitScheduleOutput lists the dates an outfit is scheduled on.
type OutfitScheduleOutput struct {
	Body struct {
		Dates []string `json:"dates" doc:"Scheduled dates (YYYY-MM-DD), ascending"`
	}
}

// ScheduledDatesInput bounds the calendar range query.
type ScheduledDatesInput struct {
	Authorization string `header:"Authorization"`
	From          string `query:"from" doc:"Range start date (YYYY-MM-DD), inclusive"`
	To            string `query:"to" doc:"Range end date (YYYY-MM-DD), inclusive"`
}

// OutfitsForDayInput addresses one calendar date.
type OutfitsForDayInput struct {
	Authorization string `header:"Authorization"`
	Date          string `path:"date" doc:"Calendar date (YYYY-MM-DD)"`
}

// === Handlers ===

func parseDateParam(value, name string) (domain.EpochDay, error) {
	day, err := domain.ParseEpochDay(value)
	if err != nil {
		return 0, huma.Error422UnprocessableEntity("Invalid " + name + " date, expected YYYY-MM-DD")
	}
	return day, nil
}

func (s *Server) handleScheduleOutfit(ctx context.Context, input *ScheduleInput) (*ScheduleOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	day, err := parseDateParam(input.Date, "schedule")
	if err != nil {
		return nil, err
	}

	added, err := s.services.Outfit.ScheduleOutfit(ctx, userID, input.ID, day)
	if err != nil {
		return nil, err
	}

	out := &ScheduleOutput{}
	out.Body.Date = day.String()
	out.Body.Added = added
	return out, nil
}

func (s *Server) handleUnscheduleOutfit(ctx context.Context, input *ScheduleInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	day, err := parseDateParam(input.Date, "schedule")
	if err != nil {
		return nil, err
	}

	if err := s.services.Outfit.UnscheduleOutfit(ctx, userID, input.ID, day); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Outfit unscheduled"}}, nil
}

func (s *Server) handleOutfitSchedule(ctx context.Context, input *GetOutfitInput) (*OutfitScheduleOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	days, err := s.services.Outfit.ScheduleForOutfit(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	out := &OutfitScheduleOutput{}
	out.Body.Dates = formatDays(days)
	return out, nil
}

func (s *Server) handleScheduledDates(ctx context.Context, input *ScheduledDatesInput) (*OutfitScheduleOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	from, err := parseDateParam(input.From, "from")
	if err != nil {
		return nil, err
	}
	to, err := parseDateParam(input.To, "to")
	if err != nil {
		return nil, err
	}

	days, err := s.services.Outfit.ScheduledDates(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	out := &OutfitScheduleOutput{}
	out.Body.Dates = formatDays(days)
	return out, nil
}

func (s *Server) handleOutfitsForDay(ctx context.Context, input *OutfitsForDayInput) (*ListOutfitsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	day, err := parseDateParam(input.Date, "calendar")
	if err != nil {
		return nil, err
	}

	outfits, err := s.services.Outfit.OutfitsForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	return mapOutfitList(outfits), nil
}

func formatDays(days []domain.EpochDay) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}
