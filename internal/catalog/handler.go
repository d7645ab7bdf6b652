package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/enviohq/envio-backend/internal/transport"
	"github.com/enviohq/envio-backend/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateLayanan(dto CreateLayananDTO) (*Layanan, error)
	GetLayanan(id int64) (*Layanan, error)
	ListActive() ([]*Layanan, error)
	DeleteLayanan(id int64) error
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

func (h *Handler) ListLayanan(w http.ResponseWriter, r *http.Request) {
	layanan, err := h.Service.ListActive()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "daftar layanan", layanan)
}

func (h *Handler) GetLayanan(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid layanan ID")
		return
	}

	layanan, err := h.Service.GetLayanan(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "detail layanan", layanan)
}

func (h *Handler) CreateLayanan(w http.ResponseWriter, r *http.Request) {
	var dto CreateLayananDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	layanan, err := h.Service.CreateLayanan(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "layanan dibuat", layanan)
}

func (h *Handler) DeleteLayanan(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid layanan ID")
		return
	}

	if err := h.Service.DeleteLayanan(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "layanan dihapus", nil)
}
