package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"recap/internal/domain"
	"recap/internal/excel"
	"recap/internal/logger"
	"recap/internal/upload"
)

const (
	uploadField = "file"
	xlsxType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (h *Handler) PreviewTransactionUpload(w http.ResponseWriter, r *http.Request) {
	name, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	preview, err := h.svc.PreviewTransactions(r.Context(), name, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_name":    name,
		"transactions": preview.Transactions,
		"summary":      preview.Summary,
	})
}

func (h *Handler) PreviewProductUpload(w http.ResponseWriter, r *http.Request) {
	name, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	preview, err := h.svc.PreviewProducts(r.Context(), name, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_name": name,
		"products":  preview.Products,
		"summary":   preview.Summary,
	})
}

type commitTransactionsRequest struct {
	Transactions []upload.TransactionCandidate `json:"transactions"`
}

func (h *Handler) CommitTransactionUpload(w http.ResponseWriter, r *http.Request) {
	var req commitTransactionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.svc.CommitTransactions(r.Context(), req.Transactions)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"created": len(created), "items": created})
}

type commitProductsRequest struct {
	Products []upload.ProductCandidate `json:"products"`
}

// CommitProductUpload reports partial counts alongside duplicate-name and
// storage failures so the client can keep its preview and retry.
func (h *Handler) CommitProductUpload(w http.ResponseWriter, r *http.Request) {
	var req commitProductsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.CommitProducts(r.Context(), req.Products)
	if err != nil {
		status := 0
		switch {
		case errors.Is(err, domain.ErrDuplicateName):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrStorage):
			status = http.StatusInternalServerError
		}
		if status == 0 {
			h.writeServiceError(w, r, err)
			return
		}
		if status == http.StatusInternalServerError {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Int("skipped", result.Skipped).Msg("bulk product insert failed")
		}
		writeJSON(w, status, map[string]any{
			"error":      bulkErrorMessage(status),
			"created":    len(result.Created),
			"skipped":    result.Skipped,
			"duplicates": result.Duplicates,
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"created":    len(result.Created),
		"skipped":    result.Skipped,
		"duplicates": result.Duplicates,
		"items":      result.Created,
	})
}

func (h *Handler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	month, year, err := parsePeriod(r.URL.Query().Get("month"), r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.svc.ListTransactions(r.Context(), month, year, domain.TransactionFilter{})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	fileName := "transactions.xlsx"
	if month > 0 {
		fileName = fmt.Sprintf("transactions-%04d-%02d.xlsx", year, month)
	}
	var buf bytes.Buffer
	if err := excel.WriteTransactions(&buf, items); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) TransactionTemplate(w http.ResponseWriter, _ *http.Request) {
	writeCSV(w, "transactions-template.csv", upload.TransactionTemplateCSV())
}

func (h *Handler) ProductTemplate(w http.ResponseWriter, _ *http.Request) {
	writeCSV(w, "products-template.csv", upload.ProductTemplateCSV())
}

// readUpload pulls the multipart file field, capped at the configured size.
// It writes the error response itself and reports false on failure.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", h.maxUpload))
			return "", nil, false
		}
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return "", nil, false
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return "", nil, false
	}
	return header.Filename, data, true
}

func bulkErrorMessage(status int) string {
	if status == http.StatusConflict {
		return domain.ErrDuplicateName.Error()
	}
	return "failed to save products"
}

func writeCSV(w http.ResponseWriter, fileName, body string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}
