package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"
	"github.com/professorevery/campusfeed/discuss"
	"github.com/professorevery/campusfeed/feed"
	"github.com/professorevery/campusfeed/identity"
)

type Handler struct {
	mux         *http.ServeMux
	handler     http.Handler
	identitySvc *identity.Service
	feedSvc     *feed.Service
	discussSvc  *discuss.Service
	cookieStore *sessions.CookieStore
	sessionName string
	upgrader    websocket.Upgrader
}

var _ http.Handler = (*Handler)(nil)

func NewHandler(
	identitySvc *identity.Service,
	feedSvc *feed.Service,
	discussSvc *discuss.Service,
	cookieStore *sessions.CookieStore,
	sessionName string,
) *Handler {
	h := &Handler{
		mux:         nil,
		handler:     nil,
		identitySvc: identitySvc,
		feedSvc:     feedSvc,
		discussSvc:  discussSvc,
		cookieStore: cookieStore,
		sessionName: sessionName,
		upgrader:    websocket.Upgrader{},
	}

	{
		h.mux = &http.ServeMux{}
		h.handler = h.mux

		h.registerRoutes()
	}

	{
		h.handler = h.authMiddleware(h.handler)
		h.handler = recoverMiddleware(h.handler)
	}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.Handle("POST /api/register", h.HandleRegister())
	h.mux.Handle("POST /api/login", h.HandleLogin())
	h.mux.Handle("POST /api/logout", h.HandleLogout())
	h.mux.Handle("GET /api/me", h.AuthenticatedOnly(h.HandleMe()))

	h.mux.Handle("GET /api/posts", h.HandleListPosts())
	h.mux.Handle("GET /api/posts/watch", h.HandleWatchPosts())
	h.mux.Handle("POST /api/posts", h.AuthenticatedOnly(h.HandleCreatePost()))
	h.mux.Handle("GET /api/posts/{id}", h.HandleGetPost())
	h.mux.Handle("POST /api/posts/{id}/like", h.AuthenticatedOnly(h.HandleToggleLike()))

	h.mux.Handle("GET /api/posts/{id}/comments", h.HandleListComments())
	h.mux.Handle("GET /api/posts/{id}/comments/watch", h.HandleWatchComments())
	h.mux.Handle("POST /api/posts/{id}/comments", h.AuthenticatedOnly(h.HandleCreateComment()))
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "panic in http handler",
					"recovered", rec, "stack", string(debug.Stack()))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode json response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
