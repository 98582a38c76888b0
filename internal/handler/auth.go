package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
)

type ctxKey int

const userIDKey ctxKey = iota

// userIDFromContext returns the authenticated user id, if any.
func userIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// publicPath reports routes reachable without a token: health, login and the
// option catalogs.
func publicPath(path string) bool {
	switch path {
	case "/api/health", "/api/auth/login", "/api/options":
		return true
	}
	return strings.HasPrefix(path, "/api/") && strings.HasSuffix(path, "-options")
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authenticate resolves the bearer token into a user id. When disabled, a
// valid token still identifies the caller but its absence is not an error.
func (h *HTTPHandler) authenticate(disabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			required := !disabled && !publicPath(r.URL.Path)

			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				if required {
					h.writeError(w, r, errors.Unauthorized("Authentication required"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			id, err := h.svc.Auth.Verify(raw)
			if err != nil {
				if required {
					h.writeError(w, r, err)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
		})
	}
}

type loginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *HTTPHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	login := req.Login
	if login == "" {
		login = req.Username
	}
	if login == "" {
		login = req.Email
	}

	session, err := h.svc.Auth.Login(r.Context(), login, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *HTTPHandler) currentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, errors.Unauthorized("Authentication required"))
		return
	}
	u, err := h.svc.Auth.CurrentUser(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *HTTPHandler) currentUserTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, errors.Unauthorized("Authentication required"))
		return
	}
	tasks, err := h.svc.Auth.CurrentUserTasks(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}
