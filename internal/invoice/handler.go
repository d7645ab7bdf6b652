package invoice

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/transport"
	"github.com/enviohq/envio-backend/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateInvoice(dto CreateInvoiceDTO) (*Invoice, error)
	GetInvoice(id int64, ident *internal.Identity) (*Invoice, error)
	ListForIdentity(ident *internal.Identity, limit, offset int) ([]*Invoice, error)
	UpdateAmounts(id int64, dto UpdateAmountsDTO) (*Invoice, error)
	Pay(id int64, ident *internal.Identity, dto PayInvoiceDTO) (*Invoice, error)
	SweepOverdue() (int64, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (*internal.Identity, bool) {
	ident, ok := internal.IdentityFromContext(r.Context())
	if !ok || ident == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return ident, true
}

func (h *Handler) invoiceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid invoice ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var dto CreateInvoiceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.Service.CreateInvoice(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "invoice dibuat", inv)
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.invoiceID(w, r)
	if !ok {
		return
	}

	inv, err := h.Service.GetInvoice(id, ident)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "detail invoice", inv)
}

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	limit := 20
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	list, err := h.Service.ListForIdentity(ident, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "daftar invoice", map[string]interface{}{
		"invoices": list,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) UpdateAmounts(w http.ResponseWriter, r *http.Request) {
	id, ok := h.invoiceID(w, r)
	if !ok {
		return
	}

	var dto UpdateAmountsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.Service.UpdateAmounts(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "invoice diperbarui", inv)
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.invoiceID(w, r)
	if !ok {
		return
	}

	var dto PayInvoiceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.Service.Pay(id, ident, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "pembayaran dicatat", inv)
}

// SweepOverdue persists jatuh_tempo for all invoices past due. Admin route.
func (h *Handler) SweepOverdue(w http.ResponseWriter, r *http.Request) {
	count, err := h.Service.SweepOverdue()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "sweep selesai", map[string]interface{}{
		"invoices_marked": count,
	})
}
