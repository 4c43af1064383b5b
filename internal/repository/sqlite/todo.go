package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/tasktrack/internal/domain"
)

// TodoRepository implements domain.TodoRepository using SQLite.
type TodoRepository struct {
	db *sql.DB
}

// NewTodoRepository creates a new SQLite-backed TodoRepository.
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db.SqlDB}
}

const todoColumns = `id, user_id, title, completed, due_date, created_at`

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	now := time.Now().UTC().Truncate(time.Second)
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (user_id, title, completed, due_date, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		todo.UserID, todo.Title, todo.Completed, nullTime(todo.DueDate), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	todo.ID = id
	todo.CreatedAt = now
	return nil
}

func (r *TodoRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Todo, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ? AND user_id = ?`, id, userID)
	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

func (r *TodoRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error) {
	return r.list(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`, userID)
}

func (r *TodoRepository) ListByDueDay(ctx context.Context, userID int64, day string) ([]domain.Todo, error) {
	return r.list(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = ? AND DATE(due_date) = ?
		 ORDER BY created_at DESC, id DESC`, userID, day)
}

func (r *TodoRepository) ListByCreatedDay(ctx context.Context, userID int64, day string) ([]domain.Todo, error) {
	return r.list(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = ? AND DATE(created_at) = ?
		 ORDER BY created_at DESC, id DESC`, userID, day)
}

func (r *TodoRepository) ListDueBetween(ctx context.Context, userID int64, from, to string) ([]domain.Todo, error) {
	return r.list(ctx,
		`SELECT `+todoColumns+` FROM todos
		 WHERE user_id = ? AND due_date IS NOT NULL AND DATE(due_date) BETWEEN ? AND ?
		 ORDER BY due_date ASC, created_at DESC, id DESC`, userID, from, to)
}

func (r *TodoRepository) ListOverdue(ctx context.Context, userID int64, before string) ([]domain.Todo, error) {
	return r.list(ctx,
		`SELECT `+todoColumns+` FROM todos
		 WHERE user_id = ? AND due_date IS NOT NULL AND DATE(due_date) < ? AND completed = 0
		 ORDER BY due_date ASC, id ASC`, userID, before)
}

func (r *TodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, due_date = ? WHERE id = ? AND user_id = ?`,
		todo.Title, nullTime(todo.DueDate), todo.ID, todo.UserID,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return requireAffected(result)
}

func (r *TodoRepository) Toggle(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos SET completed = CASE completed WHEN 0 THEN 1 ELSE 0 END
		 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("toggle todo: %w", err)
	}
	return requireAffected(result)
}

func (r *TodoRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return requireAffected(result)
}

func (r *TodoRepository) CountAll(ctx context.Context, userID int64) (domain.TodoCounts, error) {
	return r.counts(ctx,
		`SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM todos WHERE user_id = ?`, userID)
}

func (r *TodoRepository) CountCreatedOn(ctx context.Context, userID int64, day string) (domain.TodoCounts, error) {
	return r.counts(ctx,
		`SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM todos
		 WHERE user_id = ? AND DATE(created_at) = ?`, userID, day)
}

func (r *TodoRepository) CountCreatedSince(ctx context.Context, userID int64, day string) (domain.TodoCounts, error) {
	return r.counts(ctx,
		`SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM todos
		 WHERE user_id = ? AND DATE(created_at) >= ?`, userID, day)
}

func (r *TodoRepository) CountOverdue(ctx context.Context, userID int64, before string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM todos
		 WHERE user_id = ? AND due_date IS NOT NULL AND DATE(due_date) < ? AND completed = 0`,
		userID, before,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count overdue todos: %w", err)
	}
	return n, nil
}

func (r *TodoRepository) CountDueBetween(ctx context.Context, userID int64, from, to string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM todos
		 WHERE user_id = ? AND due_date IS NOT NULL AND DATE(due_date) BETWEEN ? AND ?`,
		userID, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count upcoming todos: %w", err)
	}
	return n, nil
}

func (r *TodoRepository) list(ctx context.Context, query string, args ...any) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []domain.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) counts(ctx context.Context, query string, args ...any) (domain.TodoCounts, error) {
	var c domain.TodoCounts
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&c.Total, &c.Completed); err != nil {
		return domain.TodoCounts{}, fmt.Errorf("count todos: %w", err)
	}
	return c, nil
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	var (
		todo      domain.Todo
		dueDate   sql.NullString
		createdAt string
	)
	if err := row.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Completed, &dueDate, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if todo.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if dueDate.Valid {
		due, err := parseTime(dueDate.String)
		if err != nil {
			return nil, err
		}
		todo.DueDate = &due
	}
	return &todo, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
