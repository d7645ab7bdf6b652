package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/pkg/logger"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Code    int         `json:"code,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteSuccess writes a success envelope.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	h.writeJSON(w, status, Envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// WriteError writes an error envelope with the given HTTP status.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Warn("http error", "status", status, "message", message)
	h.writeJSON(w, status, Envelope{
		Status:  "error",
		Message: message,
		Code:    status,
	})
}

// HandleServiceError maps domain errors onto the envelope. AppError carries
// its own status; anything else becomes a genericized 500 with the detail
// kept in the logs only.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		env := Envelope{
			Status:  "error",
			Message: appErr.Message,
			Code:    appErr.StatusCode,
		}
		if appErr.Details != nil {
			env.Errors = appErr.Details
		}
		if appErr.StatusCode >= 500 {
			h.Logger.Error("internal error", "error", appErr.Error())
			env.Message = "internal server error"
		}
		h.writeJSON(w, appErr.StatusCode, env)
		return
	}

	h.Logger.Error("unhandled service error", "error", err)
	h.writeJSON(w, http.StatusInternalServerError, Envelope{
		Status:  "error",
		Message: "internal server error",
		Code:    http.StatusInternalServerError,
	})
}

func (h *BaseHandler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
