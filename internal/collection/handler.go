package collection

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
	CreatePengangkutan(userID int64, dto CreatePengangkutanDTO) (*RiwayatPengangkutan, error)
	GetPengangkutan(id int64, ident *internal.Identity) (*RiwayatPengangkutan, error)
	ListForIdentity(ident *internal.Identity, limit, offset int) ([]*RiwayatPengangkutan, error)
	UpdateStatus(id int64, ident *internal.Identity, dto UpdateStatusDTO) (*RiwayatPengangkutan, error)
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

func (h *Handler) CreatePengangkutan(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto CreatePengangkutanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	run, err := h.Service.CreatePengangkutan(ident.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "pengangkutan dijadwalkan", run)
}

func (h *Handler) GetPengangkutan(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid pengangkutan ID")
		return
	}

	run, err := h.Service.GetPengangkutan(id, ident)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "detail pengangkutan", run)
}

func (h *Handler) ListPengangkutan(w http.ResponseWriter, r *http.Request) {
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

	h.WriteSuccess(w, http.StatusOK, "daftar pengangkutan", map[string]interface{}{
		"pengangkutan": list,
		"limit":        limit,
		"offset":       offset,
	})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid pengangkutan ID")
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	run, err := h.Service.UpdateStatus(id, ident, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "status pengangkutan diperbarui", run)
}
