package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/professorevery/campusfeed/identity"
	identitycontext "github.com/professorevery/campusfeed/identity/context"
)

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionValueNotFoundError *SessionValueNotFoundError

		sessionID, err := h.getSessionValue(r, sessionIDKey)
		if err != nil && !errors.As(err, &sessionValueNotFoundError) {
			slog.ErrorContext(r.Context(), "error on getting session value",
				"key", sessionIDKey, "error", err)
			writeError(w, http.StatusInternalServerError, "error on getting session value")

			return
		}

		if sessionID != nil && sessionID.(string) != "" {
			session, err := h.identitySvc.GetSession(r.Context(), sessionID.(string))
			if err != nil {
				var (
					sessionNotFoundError *identity.SessionNotFoundError
					sessionExpiredError  *identity.SessionExpiredError
				)

				if errors.As(err, &sessionNotFoundError) || errors.As(err, &sessionExpiredError) {
					err = h.deleteSessionValue(w, r, sessionIDKey)
					if err != nil {
						slog.ErrorContext(r.Context(), "error on deleting session value",
							"key", sessionIDKey, "error", err)
						writeError(w, http.StatusInternalServerError, "error on deleting session value")

						return
					}
				} else {
					slog.ErrorContext(r.Context(), "error on getting session", "error", err)
					writeError(w, http.StatusInternalServerError, "error on getting session")

					return
				}
			} else {
				r = r.WithContext(identitycontext.WithSubject(r.Context(), session.UserID))
			}
		}

		next.ServeHTTP(w, r)
	})
}

func isAuthenticated(r *http.Request) bool {
	return identitycontext.GetSubject(r.Context()) != identitycontext.Anonymous
}

func (h *Handler) AuthenticatedOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAuthenticated(r) {
			writeError(w, http.StatusUnauthorized, "authentication required")

			return
		}

		next.ServeHTTP(w, r)
	})
}

const minPasswordLength = 6

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	University string `json:"university"`
}

// validateRegisterRequest applies the caller-side rules the stores do not
// enforce: all fields present, an educational email, a long enough password.
func validateRegisterRequest(req registerRequest) string {
	switch {
	case req.Email == "", req.Password == "", req.Name == "", req.University == "":
		return "all fields are required"
	case !identity.IsEducationalEmail(req.Email):
		return "only educational email addresses are allowed"
	case len(req.Password) < minPasswordLength:
		return "password must be at least 6 characters"
	default:
		return ""
	}
}

func (h *Handler) HandleRegister() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest

		err := decodeJSON(r, &req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")

			return
		}

		if msg := validateRegisterRequest(req); msg != "" {
			writeError(w, http.StatusBadRequest, msg)

			return
		}

		user, err := h.identitySvc.Register(r.Context(), identity.RegisterRequest{
			Email:      req.Email,
			Password:   req.Password,
			Name:       strings.TrimSpace(req.Name),
			University: strings.TrimSpace(req.University),
		})
		if err != nil {
			var alreadyExistsErr *identity.UserAlreadyExistsError
			if errors.As(err, &alreadyExistsErr) {
				writeError(w, http.StatusConflict, alreadyExistsErr.Error())

				return
			}

			slog.ErrorContext(r.Context(), "failed to register user", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to register user")

			return
		}

		session, err := h.identitySvc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to authenticate after register", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to start session")

			return
		}

		err = h.setSessionValue(w, r, sessionIDKey, session.ID)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to set session value", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to start session")

			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(user))
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func validateLoginRequest(req loginRequest) string {
	switch {
	case req.Email == "", req.Password == "":
		return "email and password are required"
	case !identity.IsEducationalEmail(req.Email):
		return "only educational email addresses are allowed"
	default:
		return ""
	}
}

func (h *Handler) HandleLogin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest

		err := decodeJSON(r, &req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")

			return
		}

		if msg := validateLoginRequest(req); msg != "" {
			writeError(w, http.StatusBadRequest, msg)

			return
		}

		session, err := h.identitySvc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "invalid credentials")

				return
			}

			slog.ErrorContext(r.Context(), "failed to authenticate", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to authenticate")

			return
		}

		err = h.setSessionValue(w, r, sessionIDKey, session.ID)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to set session value", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to start session")

			return
		}

		user, err := h.identitySvc.GetUser(r.Context(), session.UserID)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to get user", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get user")

			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(user))
	})
}

func (h *Handler) HandleLogout() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := h.getSessionValue(r, sessionIDKey)
		if err == nil && sessionID != nil && sessionID.(string) != "" {
			err := h.identitySvc.SignOut(r.Context(), sessionID.(string))
			if err != nil {
				var sessionNotFoundError *identity.SessionNotFoundError
				if !errors.As(err, &sessionNotFoundError) {
					slog.ErrorContext(r.Context(), "failed to sign out", "error", err)
					writeError(w, http.StatusInternalServerError, "failed to sign out")

					return
				}
			}
		}

		err = h.deleteSessionValue(w, r, sessionIDKey)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to delete session value", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to sign out")

			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

type userResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	University string `json:"university"`
	CreatedAt  int64  `json:"createdAt"`
}

func toUserResponse(user *identity.User) userResponse {
	return userResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		University: user.University,
		CreatedAt:  user.CreatedAt.UnixMilli(),
	}
}

func (h *Handler) HandleMe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.identitySvc.CurrentUser(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to get current user", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get current user")

			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(user))
	})
}
