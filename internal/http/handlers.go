package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"recap/internal/domain"
	"recap/internal/logger"
	"recap/internal/service"
	"recap/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	svc       *service.Service
	maxUpload int64
}

func NewHandler(svc *service.Service, maxUploadBytes int64) *Handler {
	return &Handler{svc: svc, maxUpload: maxUploadBytes}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	month, year, err := parsePeriod(query.Get("month"), query.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.svc.ListTransactions(r.Context(), month, year, domain.TransactionFilter{
		Search:        query.Get("search"),
		PaymentMethod: query.Get("payment"),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

type transactionRequest struct {
	Date          string  `json:"date"`
	ItemPurchased string  `json:"item_purchased"`
	CustomerName  string  `json:"customer_name"`
	StoreName     string  `json:"store_name"`
	PaymentMethod string  `json:"payment_method"`
	PurchasePrice int64   `json:"purchase_price"`
	SellingPrice  int64   `json:"selling_price"`
	Notes         *string `json:"notes"`
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, ok := upload.ParseDate(req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	created, err := h.svc.CreateTransaction(r.Context(), domain.TransactionInput{
		Date:          date,
		ItemPurchased: req.ItemPurchased,
		CustomerName:  req.CustomerName,
		StoreName:     req.StoreName,
		PaymentMethod: req.PaymentMethod,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Notes:         req.Notes,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type patchTransactionRequest struct {
	Date          *string `json:"date"`
	ItemPurchased *string `json:"item_purchased"`
	CustomerName  *string `json:"customer_name"`
	StoreName     *string `json:"store_name"`
	PaymentMethod *string `json:"payment_method"`
	PurchasePrice *int64  `json:"purchase_price"`
	SellingPrice  *int64  `json:"selling_price"`
	Notes         *string `json:"notes"`
}

func (h *Handler) PatchTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req patchTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := domain.TransactionPatch{
		ItemPurchased: req.ItemPurchased,
		CustomerName:  req.CustomerName,
		StoreName:     req.StoreName,
		PaymentMethod: req.PaymentMethod,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Notes:         req.Notes,
	}
	if req.Date != nil {
		date, ok := upload.ParseDate(*req.Date)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		patch.Date = &date
	}

	updated, err := h.svc.UpdateTransaction(r.Context(), id, patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) TransactionStats(w http.ResponseWriter, r *http.Request) {
	month, year, err := parsePeriod(r.URL.Query().Get("month"), r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if month == 0 {
		now := time.Now()
		month, year = int(now.Month()), now.Year()
	}
	stats, err := h.svc.MonthStats(r.Context(), month, year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListProducts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type patchProductRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Quantity *int    `json:"quantity"`
	Price    *int64  `json:"price"`
}

func (h *Handler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req patchProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.svc.UpdateProduct(r.Context(), id, domain.ProductPatch{
		Name:     req.Name,
		Type:     req.Type,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type deleteProductsRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *Handler) DeleteProducts(w http.ResponseWriter, r *http.Request) {
	var req deleteProductsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	deleted, err := h.svc.DeleteProducts(r.Context(), req.IDs)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

// writeServiceError maps domain and upload errors onto status codes. Only
// unexpected failures are logged.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var formatErr *upload.FormatError
	switch {
	case errors.As(err, &formatErr):
		writeError(w, http.StatusBadRequest, formatErr.Reason)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateName):
		writeError(w, http.StatusConflict, domain.ErrDuplicateName.Error())
	default:
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func parseOptionalInt(raw string, defaultValue int) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %s", raw)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("value cannot be negative")
	}
	return parsed, nil
}

// parsePeriod reads month and year query values. Both or neither must be set.
func parsePeriod(rawMonth, rawYear string) (int, int, error) {
	month, err := parseOptionalInt(rawMonth, 0)
	if err != nil {
		return 0, 0, err
	}
	year, err := parseOptionalInt(rawYear, 0)
	if err != nil {
		return 0, 0, err
	}
	if (month == 0) != (year == 0) {
		return 0, 0, fmt.Errorf("month and year must be given together")
	}
	if month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12")
	}
	return month, year, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
