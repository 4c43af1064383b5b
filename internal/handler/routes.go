package handler

import (
	"net/http"

	"github.com/msomdec/tasktrack/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Login and
// registration share the limiter; everything under /api other than auth
// requires a bearer token.
func RegisterRoutes(
	mux *http.ServeMux,
	db Pinger,
	auth *service.AuthService,
	profiles *service.ProfileService,
	todos *service.TodoService,
	photos *service.PhotoService,
	limiter *service.TokenBucket,
) {
	authHandler := NewAuthHandler(auth)
	profileHandler := NewProfileHandler(profiles)
	todoHandler := NewTodoHandler(todos)
	imageHandler := NewImageHandler(photos)

	protect := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz(db))

	mux.Handle("POST /api/auth/register", RateLimit(limiter, http.HandlerFunc(authHandler.HandleRegister)))
	mux.Handle("POST /api/auth/login", RateLimit(limiter, http.HandlerFunc(authHandler.HandleLogin)))

	mux.Handle("GET /api/profile", protect(profileHandler.HandleGet))
	mux.Handle("PUT /api/profile/update", protect(profileHandler.HandleUpdate))
	mux.Handle("DELETE /api/profile/delete", protect(profileHandler.HandleDelete))

	mux.Handle("GET /api/todos", protect(todoHandler.HandleList))
	mux.Handle("POST /api/todos", protect(todoHandler.HandleCreate))
	mux.Handle("GET /api/todos/date/{date}", protect(todoHandler.HandleListByDueDate))
	mux.Handle("GET /api/todos/created/{date}", protect(todoHandler.HandleListByCreatedDate))
	mux.Handle("GET /api/todos/upcoming", protect(todoHandler.HandleUpcoming))
	mux.Handle("GET /api/todos/overdue", protect(todoHandler.HandleOverdue))
	mux.Handle("GET /api/todos/stats", protect(todoHandler.HandleStats))
	mux.Handle("PUT /api/todos/{id}", protect(todoHandler.HandleUpdate))
	mux.Handle("PUT /api/todos/{id}/toggle", protect(todoHandler.HandleToggle))
	mux.Handle("DELETE /api/todos/{id}", protect(todoHandler.HandleDelete))

	mux.Handle("POST /api/images/compress", protect(imageHandler.HandleCompress))
}
