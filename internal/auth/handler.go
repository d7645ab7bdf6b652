package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/transport"
	"github.com/enviohq/envio-backend/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	Register(dto RegisterDTO) (int64, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err)

		switch err {
		case ErrInvalidCredentials:
			h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteSuccess(w, http.StatusOK, "login berhasil", tokens)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := h.Service.Register(dto)
	if err != nil {
		h.Logger.Error("registration failed", "error", err)

		switch err {
		case ErrEmailTaken:
			h.WriteError(w, http.StatusConflict, "email already registered")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "registrasi berhasil", map[string]interface{}{
		"user_id": userID,
	})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.Logger.Error("token refresh failed", "error", err)
		h.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "token diperbarui", tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	// Tokens are stateless; logout succeeds once the credential checks out.
	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware is the identity token gate. It verifies the bearer
// credential and places the decoded identity on the request context. It
// never decides per-route authorization; that is RequireRoles' job.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.Warn("auth middleware: missing authorization token", "path", r.URL.Path)
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("auth middleware: token rejected", "error", err, "path", r.URL.Path)
			h.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ident := &internal.Identity{
			UserID: claims.UserID,
			Role:   claims.Role,
		}

		ctx := internal.ContextWithIdentity(r.Context(), ident)
		ctx = logger.With(ctx, "userID", claims.UserID, "role", claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles enforces the role policy for a route group. An empty role
// list admits any authenticated identity.
func (h *Handler) RequireRoles(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := internal.IdentityFromContext(r.Context())
			if !ok || ident == nil {
				h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
				return
			}

			if !Allow(roles, Role(ident.Role)) {
				h.Logger.Warn("access denied: role outside required set",
					"user_id", ident.UserID,
					"role", ident.Role,
					"required_roles", roles,
					"path", r.URL.Path)
				h.WriteError(w, http.StatusForbidden, "role is not allowed to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
