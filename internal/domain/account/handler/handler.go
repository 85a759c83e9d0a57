// Package handler exposes account CRUD over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kytseng/bankbook/internal/api"
	"github.com/kytseng/bankbook/internal/domain/account"
)

// Handler serves the account endpoints.
type Handler struct {
	repo account.Repository
}

// NewHandler creates a new account handler
func NewHandler(repo account.Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes mounts the account endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type accountRequest struct {
	Name           string          `json:"account_name"`
	AccountNumber  string          `json:"account_number"`
	BankCode       string          `json:"bank_code"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.repo.List(r.Context())
	if err != nil {
		api.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(w, accounts)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := api.Decode(r.Body, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "account_name is required")
		return
	}

	acc := &account.Account{
		Name:           req.Name,
		AccountNumber:  req.AccountNumber,
		BankCode:       req.BankCode,
		InitialBalance: req.InitialBalance,
	}
	err := h.repo.Create(r.Context(), acc)
	if errors.Is(err, account.ErrNameTaken) {
		api.Error(w, http.StatusConflict, "account name already exists")
		return
	}
	if err != nil {
		api.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(w, acc)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}

	var req accountRequest
	if err := api.Decode(r.Body, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	acc := &account.Account{
		ID:             id,
		Name:           req.Name,
		AccountNumber:  req.AccountNumber,
		BankCode:       req.BankCode,
		InitialBalance: req.InitialBalance,
	}
	err = h.repo.Update(r.Context(), acc)
	if errors.Is(err, account.ErrNameTaken) {
		api.Error(w, http.StatusConflict, "account name already exists")
		return
	}
	if err != nil {
		api.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(w, acc)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}

	err = h.repo.Delete(r.Context(), id)
	if errors.Is(err, account.ErrHasTransactions) {
		api.Error(w, http.StatusConflict, "account still has transactions")
		return
	}
	if err != nil {
		api.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.SuccessMessage(w, "account deleted", nil)
}
