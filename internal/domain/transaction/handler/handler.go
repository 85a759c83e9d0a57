// Package handler exposes transaction listing, correction and deletion.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kytseng/bankbook/internal/api"
	"github.com/kytseng/bankbook/internal/domain/import/service"
	"github.com/kytseng/bankbook/internal/domain/transaction"
)

// Handler serves the transaction endpoints. Edits go through the import
// service so corrections stay collision-guarded.
type Handler struct {
	repo transaction.Repository
	svc  *service.ImportService
}

// NewHandler creates a new transaction handler
func NewHandler(repo transaction.Repository, svc *service.ImportService) *Handler {
	return &Handler{repo: repo, svc: svc}
}

// Routes mounts the transaction endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	txs, err := h.repo.List(r.Context())
	if err != nil {
		api.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(w, txs)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var fields service.UpdateFields
	if err := api.Decode(r.Body, &fields); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	err = h.svc.Update(r.Context(), id, fields)
	switch {
	case errors.Is(err, service.ErrNotFound):
		api.Error(w, http.StatusNotFound, "transaction not found")
	case errors.Is(err, service.ErrDuplicate):
		api.Error(w, http.StatusConflict, "edit collides with an existing transaction")
	case err != nil:
		api.Error(w, http.StatusInternalServerError, err.Error())
	default:
		api.SuccessMessage(w, "transaction updated", nil)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		api.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.SuccessMessage(w, "transaction deleted", nil)
}
