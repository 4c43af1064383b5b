package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/msomdec/tasktrack/internal/domain"
	"github.com/msomdec/tasktrack/internal/service"
)

const todoNotFound = "Todo not found"

// TodoHandler serves the caller's todos.
type TodoHandler struct {
	todos *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

type todoRequest struct {
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
}

// HandleList returns every todo, newest first.
// GET /api/todos
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.todos.List)
}

// HandleListByDueDate returns the todos due on {date}.
// GET /api/todos/date/{date}
func (h *TodoHandler) HandleListByDueDate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	h.list(w, r, func(ctx context.Context, userID int64) ([]domain.Todo, error) {
		return h.todos.ListByDueDate(ctx, userID, date)
	})
}

// HandleListByCreatedDate returns the todos created on {date}.
// GET /api/todos/created/{date}
func (h *TodoHandler) HandleListByCreatedDate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	h.list(w, r, func(ctx context.Context, userID int64) ([]domain.Todo, error) {
		return h.todos.ListByCreatedDate(ctx, userID, date)
	})
}

// HandleUpcoming returns todos due within the next seven days.
// GET /api/todos/upcoming
func (h *TodoHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.todos.Upcoming)
}

// HandleOverdue returns incomplete todos past their due day.
// GET /api/todos/overdue
func (h *TodoHandler) HandleOverdue(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.todos.Overdue)
}

// HandleStats returns the dashboard counters.
// GET /api/todos/stats
func (h *TodoHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	stats, err := h.todos.Stats(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, todoNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(stats))
}

// HandleCreate adds a todo.
// POST /api/todos
// Request: {"title":"...","due_date":"2006-01-02"}
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req todoRequest
	if err := readJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	todo, err := h.todos.Create(r.Context(), user.ID, req.Title, req.DueDate)
	if err != nil {
		writeServiceError(w, r, err, todoNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, toTodoDTO(todo))
}

// HandleUpdate replaces a todo's title and due date.
// PUT /api/todos/{id}
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	var req todoRequest
	if err := readJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	todo, err := h.todos.Update(r.Context(), user.ID, id, req.Title, req.DueDate)
	if err != nil {
		writeServiceError(w, r, err, todoNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toTodoDTO(todo))
}

// HandleToggle flips a todo's completed flag.
// PUT /api/todos/{id}/toggle
func (h *TodoHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	todo, err := h.todos.Toggle(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, r, err, todoNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toTodoDTO(todo))
}

// HandleDelete removes a todo.
// DELETE /api/todos/{id}
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	if err := h.todos.Delete(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, r, err, todoNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Todo deleted")
}

func (h *TodoHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, int64) ([]domain.Todo, error)) {
	user := UserFromContext(r.Context())

	todos, err := fetch(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, todoNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toTodoDTOs(todos))
}

func todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid todo id.")
		return 0, false
	}
	return id, true
}
