package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/tasktrack/internal/domain"
)

const (
	dayLayout    = "2006-01-02"
	upcomingDays = 7
)

// TodoStats summarises a user's todos. Today, Week and Month count todos by
// creation day; Week starts on Sunday and Month on the 1st.
type TodoStats struct {
	Total    domain.TodoCounts
	Today    domain.TodoCounts
	Week     domain.TodoCounts
	Month    domain.TodoCounts
	Overdue  int
	Upcoming int
}

// TodoService manages a user's todos. All days are UTC calendar days.
type TodoService struct {
	todos domain.TodoRepository
	now   func() time.Time
}

// NewTodoService creates a new TodoService. A nil clock uses time.Now.
func NewTodoService(todos domain.TodoRepository, now func() time.Time) *TodoService {
	if now == nil {
		now = time.Now
	}
	return &TodoService{todos: todos, now: now}
}

// List returns every todo of the user, newest first.
func (s *TodoService) List(ctx context.Context, userID int64) ([]domain.Todo, error) {
	return s.todos.ListByUser(ctx, userID)
}

// ListByDueDate returns the todos due on the given day.
func (s *TodoService) ListByDueDate(ctx context.Context, userID int64, date string) ([]domain.Todo, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}
	return s.todos.ListByDueDay(ctx, userID, day)
}

// ListByCreatedDate returns the todos created on the given day.
func (s *TodoService) ListByCreatedDate(ctx context.Context, userID int64, date string) ([]domain.Todo, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}
	return s.todos.ListByCreatedDay(ctx, userID, day)
}

// Create adds a todo. dueDate may be empty.
func (s *TodoService) Create(ctx context.Context, userID int64, title, dueDate string) (*domain.Todo, error) {
	todo, err := newTodo(userID, title, dueDate)
	if err != nil {
		return nil, err
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// Update replaces the title and due date of a todo. An empty dueDate clears it.
func (s *TodoService) Update(ctx context.Context, userID, id int64, title, dueDate string) (*domain.Todo, error) {
	todo, err := newTodo(userID, title, dueDate)
	if err != nil {
		return nil, err
	}
	todo.ID = id
	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return s.todos.GetByID(ctx, userID, id)
}

// Toggle flips the completed flag and returns the updated todo.
func (s *TodoService) Toggle(ctx context.Context, userID, id int64) (*domain.Todo, error) {
	if err := s.todos.Toggle(ctx, userID, id); err != nil {
		return nil, fmt.Errorf("toggle todo: %w", err)
	}
	return s.todos.GetByID(ctx, userID, id)
}

// Delete removes a todo.
func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.todos.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

// Upcoming returns todos due from today through the next seven days.
func (s *TodoService) Upcoming(ctx context.Context, userID int64) ([]domain.Todo, error) {
	today := s.today()
	return s.todos.ListDueBetween(ctx, userID, formatDay(today), formatDay(today.AddDate(0, 0, upcomingDays)))
}

// Overdue returns incomplete todos due before today.
func (s *TodoService) Overdue(ctx context.Context, userID int64) ([]domain.Todo, error) {
	return s.todos.ListOverdue(ctx, userID, formatDay(s.today()))
}

// Stats computes the dashboard counters.
func (s *TodoService) Stats(ctx context.Context, userID int64) (*TodoStats, error) {
	today := s.today()
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		stats TodoStats
		err   error
	)
	if stats.Total, err = s.todos.CountAll(ctx, userID); err != nil {
		return nil, err
	}
	if stats.Today, err = s.todos.CountCreatedOn(ctx, userID, formatDay(today)); err != nil {
		return nil, err
	}
	if stats.Week, err = s.todos.CountCreatedSince(ctx, userID, formatDay(weekStart)); err != nil {
		return nil, err
	}
	if stats.Month, err = s.todos.CountCreatedSince(ctx, userID, formatDay(monthStart)); err != nil {
		return nil, err
	}
	if stats.Overdue, err = s.todos.CountOverdue(ctx, userID, formatDay(today)); err != nil {
		return nil, err
	}
	if stats.Upcoming, err = s.todos.CountDueBetween(ctx, userID,
		formatDay(today), formatDay(today.AddDate(0, 0, upcomingDays))); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *TodoService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func newTodo(userID int64, title, dueDate string) (*domain.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: Title field is required", domain.ErrInvalidInput)
	}
	todo := &domain.Todo{UserID: userID, Title: title}
	if dueDate != "" {
		due, err := parseDate(dueDate)
		if err != nil {
			return nil, err
		}
		todo.DueDate = &due
	}
	return todo, nil
}

// parseDate accepts a bare calendar day or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrInvalidInput, s)
	}
	return t.UTC(), nil
}

func parseDay(s string) (string, error) {
	t, err := parseDate(s)
	if err != nil {
		return "", err
	}
	return formatDay(t), nil
}

func formatDay(t time.Time) string {
	return t.UTC().Format(dayLayout)
}
