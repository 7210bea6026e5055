package httpapi

import (
	"time"

	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	"github.com/riskibarqy/day-planner/internal/usecase"
)

type itemDTO struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Kind       string  `json:"kind"`
	Date       string  `json:"date"`
	StartTime  *string `json:"start_time,omitempty"`
	EndTime    *string `json:"end_time,omitempty"`
	Completed  bool    `json:"completed"`
	Venue      string  `json:"venue,omitempty"`
	SourceNote string  `json:"source_note,omitempty"`
}

type dayViewDTO struct {
	Date  string    `json:"date"`
	Items []itemDTO `json:"items"`
}

type followedSportDTO struct {
	Sport string   `json:"sport"`
	Teams []string `json:"teams"`
}

type createItemRequest struct {
	Title      string     `json:"title" validate:"required,max=200"`
	Kind       string     `json:"kind" validate:"required,oneof=task habit event"`
	Date       string     `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	Venue      string     `json:"venue" validate:"max=200"`
	SourceNote string     `json:"source_note" validate:"max=500"`
}

type updateItemRequest struct {
	Title         *string    `json:"title" validate:"omitempty,max=200"`
	Date          *string    `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	ClearSchedule bool       `json:"clear_schedule"`
	Venue         *string    `json:"venue" validate:"omitempty,max=200"`
	SourceNote    *string    `json:"source_note" validate:"omitempty,max=500"`
	Completed     *bool      `json:"completed"`
	Toggle        bool       `json:"toggle_complete"`
}

type addFavoriteRequest struct {
	Sport string `json:"sport" validate:"required,max=100"`
	Team  string `json:"team" validate:"required,max=100"`
}

type reminderRequest struct {
	ItemID    string    `json:"item_id" validate:"required"`
	Title     string    `json:"title"`
	Kind      string    `json:"kind"`
	StartTime time.Time `json:"start_time"`
	Venue     string    `json:"venue"`
}

type reminderDTO struct {
	ItemID    string  `json:"item_id"`
	Status    string  `json:"status"`
	Title     string  `json:"title,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
}

func itemToDTO(item timeline.Item) itemDTO {
	return itemDTO{
		ID:         item.ID,
		Title:      item.Title,
		Kind:       string(item.Kind),
		Date:       item.CalendarDate.String(),
		StartTime:  formatOptionalTime(item.StartTime),
		EndTime:    formatOptionalTime(item.EndTime),
		Completed:  item.Completed,
		Venue:      item.Venue,
		SourceNote: item.SourceNote,
	}
}

func itemsToDTO(items []timeline.Item) []itemDTO {
	out := make([]itemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, itemToDTO(item))
	}
	return out
}

func dayViewToDTO(view usecase.DayView) dayViewDTO {
	return dayViewDTO{
		Date:  view.Date.String(),
		Items: itemsToDTO(view.Items),
	}
}

func favoritesToDTO(sports []favorite.FollowedSport) []followedSportDTO {
	out := make([]followedSportDTO, 0, len(sports))
	for _, sport := range sports {
		teams := make([]string, 0, len(sport.Teams))
		for _, team := range sport.Teams {
			teams = append(teams, team.Name)
		}
		out = append(out, followedSportDTO{Sport: sport.Name, Teams: teams})
	}
	return out
}

func formatOptionalTime(v *time.Time) *string {
	if v == nil {
		return nil
	}
	out := v.Format(time.RFC3339)
	return &out
}
