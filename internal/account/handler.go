package account

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/httpx"
)

// Handler exposes HTTP endpoints for registration and account deactivation.
type Handler struct {
	svc       *Service
	logger    *zap.SugaredLogger
	maxMemory int64
}

func NewHandler(svc *Service, logger *zap.SugaredLogger, maxMemory int64) *Handler {
	return &Handler{svc: svc, logger: logger, maxMemory: maxMemory}
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register handles POST /register/.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	p, err := httpx.ParsePayload(r, h.maxMemory, httpx.AcceptForm|httpx.AcceptJSON)
	if err != nil {
		h.logger.Debugw("invalid register payload", "err", err)
		httpx.WriteError(w, h.logger, err)
		return
	}
	var in RegisterInput
	b := httpx.NewBinder(p, false)
	b.RequiredText("username", &in.Username, 150)
	b.Text("email", &in.Email, 254)
	b.NullableText("badge_number", &in.BadgeNumber, 6)
	b.Password("password", &in.Password)
	in.IDImage, _ = b.Image("id_image")
	if err := b.Err(); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	if _, err := h.svc.Register(r.Context(), in); err != nil {
		h.logger.Debugw("register failed", "err", err)
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, messageResponse{Message: "User registered successfully."})
}

// Archive handles the legacy account archive route. Only POST is served;
// any other method is reported as 404.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.WriteError(w, h.logger, apperr.NotFound("Only POST method is allowed"))
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "pk"), 10, 64)
	if err != nil {
		httpx.WriteError(w, h.logger, apperr.NotFound("No Personnel matches the given query."))
		return
	}
	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "Personnel archived successfully"})
}
