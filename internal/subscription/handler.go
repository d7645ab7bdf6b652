package subscription

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
	CreateTransaksi(userID int64, dto CreateTransaksiDTO) (*TransaksiLayanan, error)
	GetTransaksi(id int64, ident *internal.Identity) (*TransaksiLayanan, error)
	ListForIdentity(ident *internal.Identity, limit, offset int) ([]*TransaksiLayanan, error)
	AttachPaymentEvidence(id int64, userID int64, evidencePath string) (*TransaksiLayanan, error)
	Activate(id int64) (*TransaksiLayanan, error)
	Complete(id int64) (*TransaksiLayanan, error)
	Cancel(id int64, ident *internal.Identity) (*TransaksiLayanan, error)
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

func (h *Handler) transaksiID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid transaksi ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateTransaksi(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto CreateTransaksiDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.CreateTransaksi(ident.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "transaksi dibuat", t)
}

func (h *Handler) GetTransaksi(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.transaksiID(w, r)
	if !ok {
		return
	}

	t, err := h.Service.GetTransaksi(id, ident)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "detail transaksi", t)
}

func (h *Handler) ListTransaksi(w http.ResponseWriter, r *http.Request) {
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

	h.WriteSuccess(w, http.StatusOK, "daftar transaksi", map[string]interface{}{
		"transaksi": list,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *Handler) AttachPaymentEvidence(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.transaksiID(w, r)
	if !ok {
		return
	}

	var dto PaymentEvidenceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.Service.AttachPaymentEvidence(id, ident.UserID, dto.BuktiPembayaran)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "bukti pembayaran diterima", t)
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.transaksiID(w, r)
	if !ok {
		return
	}

	t, err := h.Service.Activate(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "transaksi diaktifkan", t)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.transaksiID(w, r)
	if !ok {
		return
	}

	t, err := h.Service.Complete(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "transaksi selesai", t)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.transaksiID(w, r)
	if !ok {
		return
	}

	t, err := h.Service.Cancel(id, ident)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "transaksi dibatalkan", t)
}
