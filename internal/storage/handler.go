package storage

import (
	"log/slog"
	"net/http"

	"github.com/enviohq/envio-backend/internal/transport"
	"github.com/enviohq/envio-backend/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Store FileStore
}

func NewHandler(store FileStore) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Store:       store,
	}
}

// Upload accepts a multipart form with a "file" field and returns the
// stored file name for use in later requests.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	name, err := h.Store.Save(file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "file tersimpan", map[string]string{
		"file_path": name,
	})
}
