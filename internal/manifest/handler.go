package manifest

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
	CreateManifest(userID int64, dto CreateManifestDTO) (*ManifestElektronik, error)
	GetManifest(id int64, ident *internal.Identity) (*ManifestElektronik, error)
	ListForIdentity(ident *internal.Identity, limit, offset int) ([]*ManifestElektronik, error)
	Submit(id int64, ident *internal.Identity) (*ManifestElektronik, error)
	Decide(id int64, ident *internal.Identity, dto DecisionDTO) (*ManifestElektronik, error)
	Complete(id int64, ident *internal.Identity) (*ManifestElektronik, error)
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

func (h *Handler) manifestID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid manifest ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateManifest(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto CreateManifestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.CreateManifest(ident.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "manifest dibuat", m)
}

func (h *Handler) GetManifest(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}

	m, err := h.Service.GetManifest(id, ident)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "detail manifest", m)
}

func (h *Handler) ListManifests(w http.ResponseWriter, r *http.Request) {
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

	h.WriteSuccess(w, http.StatusOK, "daftar manifest", map[string]interface{}{
		"manifests": list,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}

	m, err := h.Service.Submit(id, ident)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "manifest diajukan", m)
}

func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}

	var dto DecisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.Decide(id, ident, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "keputusan manifest dicatat", m)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}

	m, err := h.Service.Complete(id, ident)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "manifest selesai", m)
}
