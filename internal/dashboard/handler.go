package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/transport"
	"github.com/enviohq/envio-backend/pkg/logger"
)

type ServiceAPI interface {
	UserSummary(userID int64) (*UserSummary, error)
	AdminSummary() (*AdminSummary, error)
	SuperadminSummary() (*SuperadminSummary, error)
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

func (h *Handler) UserDashboard(w http.ResponseWriter, r *http.Request) {
	ident, ok := internal.IdentityFromContext(r.Context())
	if !ok || ident == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summary, err := h.Service.UserSummary(ident.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "dashboard pengguna", summary)
}

func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.AdminSummary()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "dashboard admin", summary)
}

func (h *Handler) SuperadminDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.SuperadminSummary()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "dashboard superadmin", summary)
}
