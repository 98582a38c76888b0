package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// resource binds one entity's service calls to the standard CRUD routes.
// list and byMatter are optional; entities with filtered listings register
// GET / themselves.
type resource[T, In any] struct {
	list     func(ctx context.Context) ([]*T, error)
	get      func(ctx context.Context, id int64) (*T, error)
	create   func(ctx context.Context, in In) (*T, error)
	update   func(ctx context.Context, id int64, in In) (*T, error)
	remove   func(ctx context.Context, id int64) error
	byMatter func(ctx context.Context, matterID int64) ([]*T, error)
}

// mount registers GET /, GET /{id}, POST /, PUT /{id} and DELETE /{id}, plus
// GET /matter/{matterId} for matter-scoped entities.
func mount[T, In any](h *HTTPHandler, r chi.Router, res resource[T, In]) {
	if res.list != nil {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			rows, err := res.list(r.Context())
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, rows)
		})
	}

	if res.byMatter != nil {
		r.Get("/matter/{matterId}", func(w http.ResponseWriter, r *http.Request) {
			listBy(h, w, r, "matterId", res.byMatter)
		})
	}

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		row, err := res.get(r.Context(), id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, row)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := decodeBody(r, &in); err != nil {
			h.writeError(w, r, err)
			return
		}
		row, err := res.create(r.Context(), in)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, row)
	})

	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		var in In
		if err := decodeBody(r, &in); err != nil {
			h.writeError(w, r, err)
			return
		}
		row, err := res.update(r.Context(), id, in)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, row)
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if err := res.remove(r.Context(), id); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// listBy serves a list filtered by one parent id taken from the path.
func listBy[T any](h *HTTPHandler, w http.ResponseWriter, r *http.Request, param string, list func(context.Context, int64) ([]*T, error)) {
	id, err := pathID(r, param)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rows, err := list(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
