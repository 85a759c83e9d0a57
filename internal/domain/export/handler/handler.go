// Package handler serves transaction export downloads.
package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kytseng/bankbook/internal/api"
	"github.com/kytseng/bankbook/internal/domain/export"
)

// Handler serves the export endpoint.
type Handler struct {
	svc *export.Service
}

// NewHandler creates a new export handler
func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the export endpoint on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/export", h.export)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatCSV
	}

	contentType := export.ContentType(format)
	if contentType == "" {
		api.Error(w, http.StatusBadRequest, "unsupported format: "+string(format))
		return
	}

	// Rendered into memory first so a mid-export failure still yields a
	// clean error response instead of a truncated file.
	var buf bytes.Buffer
	if err := h.svc.Write(r.Context(), &buf, format); err != nil {
		api.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.`+string(format)+`"`)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to stream export", "error", err)
	}
}
