package region

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/httpx"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// List handles GET /api/regions/ with optional limit and offset.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := nonNegative(r, "limit")
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	offset, err := nonNegative(r, "offset")
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	out, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func nonNegative(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Invalid(name, "A valid non-negative integer is required.")
	}
	return n, nil
}
