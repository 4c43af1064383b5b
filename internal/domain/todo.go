package domain

import (
	"context"
	"time"
)

// Todo is a single task owned by a user.
type Todo struct {
	ID        int64
	UserID    int64
	Title     string
	Completed bool
	DueDate   *time.Time
	CreatedAt time.Time
}

// TodoCounts is a total/completed pair for a set of todos.
type TodoCounts struct {
	Total     int
	Completed int
}

// Pending is the number of todos not yet completed.
func (c TodoCounts) Pending() int {
	return c.Total - c.Completed
}

// TodoRepository defines persistence operations for todos. Every method is
// scoped to the owning user; a todo belonging to someone else is reported
// as ErrNotFound. Day arguments are UTC calendar days in 2006-01-02 form.
type TodoRepository interface {
	Create(ctx context.Context, todo *Todo) error
	GetByID(ctx context.Context, userID, id int64) (*Todo, error)
	ListByUser(ctx context.Context, userID int64) ([]Todo, error)
	ListByDueDay(ctx context.Context, userID int64, day string) ([]Todo, error)
	ListByCreatedDay(ctx context.Context, userID int64, day string) ([]Todo, error)
	// ListDueBetween returns todos due on any day in [from, to], soonest first.
	ListDueBetween(ctx context.Context, userID int64, from, to string) ([]Todo, error)
	// ListOverdue returns incomplete todos due before the given day.
	ListOverdue(ctx context.Context, userID int64, before string) ([]Todo, error)
	Update(ctx context.Context, todo *Todo) error
	Toggle(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error

	// CountAll counts every todo of the user.
	CountAll(ctx context.Context, userID int64) (TodoCounts, error)
	// CountCreatedOn counts todos created on the given day.
	CountCreatedOn(ctx context.Context, userID int64, day string) (TodoCounts, error)
	// CountCreatedSince counts todos created on or after the given day.
	CountCreatedSince(ctx context.Context, userID int64, day string) (TodoCounts, error)
	CountOverdue(ctx context.Context, userID int64, before string) (int, error)
	CountDueBetween(ctx context.Context, userID int64, from, to string) (int, error)
}
