package handler

import (
	"net/http"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

func (h *HTTPHandler) allOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Catalog())
}

// options serves a fixed catalog.
func options(catalog []domain.Option) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, catalog)
	}
}
