package handler

import (
	"time"

	"github.com/msomdec/tasktrack/internal/domain"
	"github.com/msomdec/tasktrack/internal/imaging"
	"github.com/msomdec/tasktrack/internal/service"
)

// ProfileDTO is the JSON representation of the caller's profile.
type ProfileDTO struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone"`
	ProfilePhoto   *string `json:"profilePhoto"`
	MaskedPassword string  `json:"maskedPassword"`
	CreatedAt      string  `json:"createdAt"`
}

func toProfileDTO(p *service.Profile) ProfileDTO {
	return ProfileDTO{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Phone:          optional(p.Phone),
		ProfilePhoto:   optional(p.ProfilePhoto),
		MaskedPassword: p.MaskedPassword,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

// TodoDTO is the JSON representation of a todo. Field names follow the
// mobile client's snake_case contract.
type TodoDTO struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	DueDate   *string `json:"due_date"`
	CreatedAt string  `json:"created_at"`
}

func toTodoDTO(t *domain.Todo) TodoDTO {
	dto := TodoDTO{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		s := t.DueDate.Format(time.RFC3339)
		dto.DueDate = &s
	}
	return dto
}

func toTodoDTOs(todos []domain.Todo) []TodoDTO {
	dtos := make([]TodoDTO, len(todos))
	for i := range todos {
		dtos[i] = toTodoDTO(&todos[i])
	}
	return dtos
}

// CountsDTO is a total/completed/pending triple.
type CountsDTO struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

func toCountsDTO(c domain.TodoCounts) CountsDTO {
	return CountsDTO{Total: c.Total, Completed: c.Completed, Pending: c.Pending()}
}

// StatsDTO is the JSON representation of the todo dashboard counters.
type StatsDTO struct {
	Total    CountsDTO `json:"total"`
	Today    CountsDTO `json:"today"`
	Week     CountsDTO `json:"week"`
	Month    CountsDTO `json:"month"`
	Overdue  int       `json:"overdue"`
	Upcoming int       `json:"upcoming"`
}

func toStatsDTO(s *service.TodoStats) StatsDTO {
	return StatsDTO{
		Total:    toCountsDTO(s.Total),
		Today:    toCountsDTO(s.Today),
		Week:     toCountsDTO(s.Week),
		Month:    toCountsDTO(s.Month),
		Overdue:  s.Overdue,
		Upcoming: s.Upcoming,
	}
}

// CompressResultDTO is the JSON representation of an intake pipeline result.
type CompressResultDTO struct {
	Payload       string  `json:"payload"`
	Size          int64   `json:"size"`
	FormattedSize string  `json:"formattedSize"`
	Compressed    bool    `json:"compressed"`
	OriginalSize  int64   `json:"originalSize,omitempty"`
	Quality       float64 `json:"quality"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	MaxSizeBytes  int64   `json:"maxSizeBytes"`
	BudgetMet     bool    `json:"budgetMet"`
}

func toCompressResultDTO(r *imaging.Result) CompressResultDTO {
	return CompressResultDTO{
		Payload:       r.DataURI(),
		Size:          r.Size,
		FormattedSize: imaging.FormatFileSize(r.Size),
		Compressed:    r.Compressed,
		OriginalSize:  r.OriginalSize,
		Quality:       r.Quality,
		Width:         r.Width,
		Height:        r.Height,
		MaxSizeBytes:  r.MaxSize,
		BudgetMet:     r.BudgetMet(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
