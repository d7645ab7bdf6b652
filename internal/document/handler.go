package document

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
	CreateDokumen(userID int64, dto CreateDokumenDTO) (*DokumenKerjasama, error)
	GetDokumen(id int64, ident *internal.Identity) (*DokumenKerjasama, error)
	ListForIdentity(ident *internal.Identity, limit, offset int) ([]*DokumenKerjasama, error)
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

func (h *Handler) CreateDokumen(w http.ResponseWriter, r *http.Request) {
	ident, ok := internal.IdentityFromContext(r.Context())
	if !ok || ident == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateDokumenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.Service.CreateDokumen(ident.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "dokumen dibuat", d)
}

func (h *Handler) GetDokumen(w http.ResponseWriter, r *http.Request) {
	ident, ok := internal.IdentityFromContext(r.Context())
	if !ok || ident == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid dokumen ID")
		return
	}

	d, err := h.Service.GetDokumen(id, ident)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "detail dokumen", d)
}

func (h *Handler) ListDokumen(w http.ResponseWriter, r *http.Request) {
	ident, ok := internal.IdentityFromContext(r.Context())
	if !ok || ident == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
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

	h.WriteSuccess(w, http.StatusOK, "daftar dokumen", map[string]interface{}{
		"dokumen": list,
		"limit":   limit,
		"offset":  offset,
	})
}
