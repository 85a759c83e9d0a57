// Package handler exposes the import flows over HTTP.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kytseng/bankbook/internal/api"
	"github.com/kytseng/bankbook/internal/domain/import/service"
	"github.com/kytseng/bankbook/internal/domain/statement/parser"
)

const maxUploadBytes = 32 << 20

// Handler serves the statement import endpoints.
type Handler struct {
	svc *service.ImportService
}

// NewHandler creates a new import handler
func NewHandler(svc *service.ImportService) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the import endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/pdf-preview", h.pdfPreview)
	r.Post("/save-batch", h.saveBatch)
	r.Post("/check-duplicates", h.checkDuplicates)
	r.Post("/ocr-identify", h.ocrIdentify)
	r.Post("/save-manual", h.saveManual)
}

func (h *Handler) pdfPreview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		api.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read file: "+err.Error())
		return
	}

	bankCode := r.FormValue("bank_code")
	opts := parser.ParseOptions{
		Password:      r.FormValue("password"),
		TargetAccount: r.FormValue("account"),
	}

	result, err := h.svc.PreviewDocument(r.Context(), bankCode, data, opts)
	if err != nil {
		api.Error(w, statusForParseError(err), err.Error())
		return
	}
	api.Success(w, map[string]any{
		"account_number": result.AccountFragment,
		"transactions":   result.Drafts,
		"count":          len(result.Drafts),
	})
}

type saveBatchRequest struct {
	AccountID    uuid.UUID      `json:"account_id"`
	Transactions []parser.Draft `json:"transactions"`
}

func (h *Handler) saveBatch(w http.ResponseWriter, r *http.Request) {
	var req saveBatchRequest
	if err := api.Decode(r.Body, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.AccountID == uuid.Nil {
		api.Error(w, http.StatusBadRequest, "account_id is required")
		return
	}

	inserted, err := h.svc.CommitBatch(r.Context(), req.AccountID, req.Transactions)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(w, map[string]int{
		"inserted":  inserted,
		"submitted": len(req.Transactions),
	})
}

type checkDuplicatesRequest struct {
	AccountID    uuid.UUID      `json:"account_id"`
	Transactions []parser.Draft `json:"transactions"`
	ExcludeID    *uuid.UUID     `json:"exclude_id,omitempty"`
}

func (h *Handler) checkDuplicates(w http.ResponseWriter, r *http.Request) {
	var req checkDuplicatesRequest
	if err := api.Decode(r.Body, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.AccountID == uuid.Nil {
		api.Error(w, http.StatusBadRequest, "account_id is required")
		return
	}

	duplicates, err := h.svc.CheckDuplicates(r.Context(), req.AccountID, req.Transactions, req.ExcludeID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(w, map[string][]bool{"duplicates": duplicates})
}

func (h *Handler) ocrIdentify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		api.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		api.Error(w, http.StatusBadRequest, "files field is required")
		return
	}

	bankCode := r.FormValue("bank_code")
	images := make([]service.NamedImage, 0, len(r.MultipartForm.File["files"]))
	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			api.Error(w, http.StatusBadRequest, "failed to open "+header.Filename+": "+err.Error())
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			api.Error(w, http.StatusBadRequest, "failed to read "+header.Filename+": "+err.Error())
			return
		}
		images = append(images, service.NamedImage{Name: header.Filename, Data: data})
	}

	drafts, itemErrors := h.svc.RecognizeScreenshots(r.Context(), bankCode, images)
	payload := map[string]any{
		"transactions": drafts,
		"errors":       itemErrors,
	}
	if len(drafts) == 0 && len(itemErrors) > 0 {
		api.Fail(w, "no transactions recognized", payload)
		return
	}
	api.Success(w, payload)
}

type saveManualRequest struct {
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	parser.Draft
}

func (h *Handler) saveManual(w http.ResponseWriter, r *http.Request) {
	var req saveManualRequest
	if err := api.Decode(r.Body, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.AccountNumber == "" {
		api.Error(w, http.StatusBadRequest, "account_number is required")
		return
	}

	acc, err := h.svc.CommitManual(r.Context(), req.AccountNumber, req.BankCode, req.Draft)
	if errors.Is(err, service.ErrDuplicate) {
		api.Error(w, http.StatusConflict, "transaction already exists")
		return
	}
	if err != nil {
		api.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(w, acc)
}

func statusForParseError(err error) int {
	var unknown *parser.UnknownBankError
	if errors.As(err, &unknown) {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
