package auth

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/httpx"
)

// Handler exposes the login variants, refresh and the token introspection
// endpoint.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Login returns the handler for one login endpoint.
func (h *Handler) Login(policy Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := httpx.ParsePayload(r, 0, httpx.AcceptJSON|httpx.AcceptForm)
		if err != nil {
			httpx.WriteError(w, h.logger, err)
			return
		}
		var username, password string
		b := httpx.NewBinder(p, false)
		b.RequiredText("username", &username, 150)
		b.Password("password", &password)
		if err := b.Err(); err != nil {
			httpx.WriteError(w, h.logger, err)
			return
		}

		pair, err := h.svc.Login(r.Context(), username, password, policy)
		if err != nil {
			h.logger.Debugw("login failed", "username", username, "policy", policy.String(), "err", err)
			httpx.WriteError(w, h.logger, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, pair)
	}
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Refresh handles POST /refresh/.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	p, err := httpx.ParsePayload(r, 0, httpx.AcceptJSON|httpx.AcceptForm)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	var token string
	b := httpx.NewBinder(p, false)
	b.RequiredText("refresh", &token, 0)
	if err := b.Err(); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	pair, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, refreshResponse{Access: pair.Access, Refresh: pair.Refresh})
}

type meResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	Expires  int64  `json:"exp"`
}

// Me returns the claims of the caller's access token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	c, ok := ClaimsFrom(r.Context())
	if !ok {
		httpx.WriteError(w, h.logger, apperr.Unauthorized("Authentication credentials were not provided."))
		return
	}
	var exp int64
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Unix()
	}
	httpx.WriteJSON(w, http.StatusOK, meResponse{UserID: c.UserID, Username: c.Username, IsAdmin: c.IsAdmin, Expires: exp})
}
