package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/tasktrack/internal/domain"
	"github.com/msomdec/tasktrack/internal/repository/sqlite"
	"github.com/msomdec/tasktrack/internal/service"
)

// Wednesday; the week starts on Sunday 2026-03-15.
var testToday = time.Date(2026, 3, 18, 9, 30, 0, 0, time.UTC)

type todoFixture struct {
	db     *sqlite.DB
	todos  *service.TodoService
	userID int64
}

func newTodoFixture(t *testing.T) *todoFixture {
	t.Helper()
	db := newTestDB(t)
	user := &domain.User{Name: "T", Email: "todo@example.com", PasswordHash: "x"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &todoFixture{
		db:     db,
		todos:  service.NewTodoService(db.Todos(), func() time.Time { return testToday }),
		userID: user.ID,
	}
}

// add creates a todo through the service and backdates its creation time.
func (f *todoFixture) add(t *testing.T, title, due, created string, completed bool) *domain.Todo {
	t.Helper()
	ctx := context.Background()
	todo, err := f.todos.Create(ctx, f.userID, title, due)
	if err != nil {
		t.Fatalf("Create %q: %v", title, err)
	}
	if _, err := f.db.SqlDB.Exec("UPDATE todos SET created_at = ?, completed = ? WHERE id = ?",
		created, completed, todo.ID); err != nil {
		t.Fatalf("backdate %q: %v", title, err)
	}
	return todo
}

func (f *todoFixture) seed(t *testing.T) {
	t.Helper()
	f.add(t, "today", "2026-03-18", "2026-03-18 08:00:00", true)
	f.add(t, "this-week", "2026-03-25", "2026-03-16 12:00:00", false)
	f.add(t, "this-month", "2026-03-10", "2026-03-05 12:00:00", false)
	f.add(t, "last-month", "", "2026-02-20 12:00:00", false)
	f.add(t, "far", "2026-03-26", "2026-02-25 12:00:00", false)
}

func todoTitles(todos []domain.Todo) []string {
	out := make([]string, len(todos))
	for i, td := range todos {
		out[i] = td.Title
	}
	return out
}

func assertTodoTitles(t *testing.T, got []domain.Todo, want ...string) {
	t.Helper()
	g := todoTitles(got)
	if len(g) != len(want) {
		t.Fatalf("expected %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, g)
		}
	}
}

func TestTodoService_Create(t *testing.T) {
	f := newTodoFixture(t)
	ctx := context.Background()

	todo, err := f.todos.Create(ctx, f.userID, "  buy milk  ", "2026-03-20")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if todo.ID == 0 || todo.Title != "buy milk" || todo.Completed {
		t.Fatalf("unexpected todo: %+v", todo)
	}
	if todo.DueDate == nil || !todo.DueDate.Equal(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date: %v", todo.DueDate)
	}

	rfc, err := f.todos.Create(ctx, f.userID, "call", "2026-03-21T15:04:05+02:00")
	if err != nil {
		t.Fatalf("Create RFC3339: %v", err)
	}
	if want := time.Date(2026, 3, 21, 13, 4, 5, 0, time.UTC); !rfc.DueDate.Equal(want) {
		t.Fatalf("expected %v, got %v", want, rfc.DueDate)
	}

	none, err := f.todos.Create(ctx, f.userID, "someday", "")
	if err != nil {
		t.Fatalf("Create without due: %v", err)
	}
	if none.DueDate != nil {
		t.Fatalf("expected no due date, got %v", none.DueDate)
	}
}

func TestTodoService_Create_Invalid(t *testing.T) {
	f := newTodoFixture(t)
	ctx := context.Background()

	if _, err := f.todos.Create(ctx, f.userID, "   ", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank title, got %v", err)
	}
	if _, err := f.todos.Create(ctx, f.userID, "x", "18/03/2026"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad date, got %v", err)
	}
}

func TestTodoService_ListByDates(t *testing.T) {
	f := newTodoFixture(t)
	f.seed(t)
	ctx := context.Background()

	all, err := f.todos.List(ctx, f.userID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertTodoTitles(t, all, "today", "this-week", "this-month", "far", "last-month")

	due, err := f.todos.ListByDueDate(ctx, f.userID, "2026-03-10")
	if err != nil {
		t.Fatalf("ListByDueDate: %v", err)
	}
	assertTodoTitles(t, due, "this-month")

	dueRFC, err := f.todos.ListByDueDate(ctx, f.userID, "2026-03-10T18:00:00Z")
	if err != nil {
		t.Fatalf("ListByDueDate RFC3339: %v", err)
	}
	assertTodoTitles(t, dueRFC, "this-month")

	created, err := f.todos.ListByCreatedDate(ctx, f.userID, "2026-03-16")
	if err != nil {
		t.Fatalf("ListByCreatedDate: %v", err)
	}
	assertTodoTitles(t, created, "this-week")

	if _, err := f.todos.ListByCreatedDate(ctx, f.userID, "yesterday"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTodoService_UpcomingAndOverdue(t *testing.T) {
	f := newTodoFixture(t)
	f.seed(t)
	ctx := context.Background()

	upcoming, err := f.todos.Upcoming(ctx, f.userID)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	assertTodoTitles(t, upcoming, "today", "this-week")

	overdue, err := f.todos.Overdue(ctx, f.userID)
	if err != nil {
		t.Fatalf("Overdue: %v", err)
	}
	assertTodoTitles(t, overdue, "this-month")
}

func TestTodoService_Stats(t *testing.T) {
	f := newTodoFixture(t)
	f.seed(t)

	stats, err := f.todos.Stats(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	check := func(name string, got domain.TodoCounts, total, completed int) {
		t.Helper()
		if got.Total != total || got.Completed != completed || got.Pending() != total-completed {
			t.Errorf("%s: expected %d/%d, got %d/%d", name, total, completed, got.Total, got.Completed)
		}
	}
	check("total", stats.Total, 5, 1)
	check("today", stats.Today, 1, 1)
	check("week", stats.Week, 2, 1)
	check("month", stats.Month, 3, 1)
	if stats.Overdue != 1 {
		t.Errorf("expected 1 overdue, got %d", stats.Overdue)
	}
	if stats.Upcoming != 2 {
		t.Errorf("expected 2 upcoming, got %d", stats.Upcoming)
	}
}

func TestTodoService_Stats_SundayStartsWeek(t *testing.T) {
	db := newTestDB(t)
	user := &domain.User{Name: "S", Email: "sunday@example.com", PasswordHash: "x"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	sunday := time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)
	f := &todoFixture{db: db, userID: user.ID,
		todos: service.NewTodoService(db.Todos(), func() time.Time { return sunday })}

	f.add(t, "sat", "", "2026-03-14 23:59:59", false)
	f.add(t, "sun", "", "2026-03-15 00:00:00", false)

	stats, err := f.todos.Stats(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Week.Total != 1 {
		t.Fatalf("expected only Sunday's todo in the week, got %d", stats.Week.Total)
	}
	if stats.Today.Total != 1 {
		t.Fatalf("expected one todo today, got %d", stats.Today.Total)
	}
}

func TestTodoService_UpdateToggleDelete(t *testing.T) {
	f := newTodoFixture(t)
	ctx := context.Background()

	todo, err := f.todos.Create(ctx, f.userID, "draft", "2026-03-20")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := f.todos.Update(ctx, f.userID, todo.ID, "final", "")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "final" || updated.DueDate != nil {
		t.Fatalf("unexpected updated todo: %+v", updated)
	}

	toggled, err := f.todos.Toggle(ctx, f.userID, todo.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !toggled.Completed {
		t.Fatal("expected todo to be completed")
	}
	back, err := f.todos.Toggle(ctx, f.userID, todo.ID)
	if err != nil {
		t.Fatalf("Toggle back: %v", err)
	}
	if back.Completed {
		t.Fatal("expected todo to be pending again")
	}

	if _, err := f.todos.Update(ctx, f.userID, todo.ID, "", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if err := f.todos.Delete(ctx, f.userID, todo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.todos.Delete(ctx, f.userID, todo.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTodoService_OtherUsersTodo(t *testing.T) {
	f := newTodoFixture(t)
	ctx := context.Background()

	todo, err := f.todos.Create(ctx, f.userID, "mine", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	other := f.userID + 1000

	if _, err := f.todos.Update(ctx, other, todo.ID, "theirs", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if _, err := f.todos.Toggle(ctx, other, todo.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Toggle: expected ErrNotFound, got %v", err)
	}
	if err := f.todos.Delete(ctx, other, todo.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
}
