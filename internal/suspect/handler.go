package suspect

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/suspect/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/httpx"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
)

type Handler struct {
	svc       *Service
	storage   *media.Storage
	logger    *zap.SugaredLogger
	maxMemory int64
}

func NewHandler(svc *Service, storage *media.Storage, logger *zap.SugaredLogger, maxMemory int64) *Handler {
	return &Handler{svc: svc, storage: storage, logger: logger, maxMemory: maxMemory}
}

type response struct {
	*entity.Suspect
	SPhoto    *string `json:"s_photo"`
	SPhotoURL string  `json:"s_photo_url"`
}

func (h *Handler) render(r *http.Request, s *entity.Suspect) response {
	out := response{Suspect: s, SPhoto: h.storage.NullableURL(r, s.SPhoto)}
	if s.SPhoto != nil {
		out.SPhotoURL = h.storage.AbsoluteURL(r, *s.SPhoto)
	}
	return out
}

// List handles GET /api/suspects/?search=&ordering=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.list(w, r, entity.ListFilter{Search: q.Get("search"), Ordering: q.Get("ordering")})
}

// ListUnfiltered handles GET /suspects/.
func (h *Handler) ListUnfiltered(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, entity.ListFilter{})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, f entity.ListFilter) {
	rows, err := h.svc.List(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	out := make([]response, len(rows))
	for i := range rows {
		out[i] = h.render(r, &rows[i])
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// Create handles POST /api/suspects/ (multipart or urlencoded).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, httpx.AcceptForm)
}

// CreateUnfiltered handles POST /suspects/, which also takes JSON.
func (h *Handler) CreateUnfiltered(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, httpx.AcceptForm|httpx.AcceptJSON)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, accept httpx.Accept) {
	p, err := httpx.ParsePayload(r, h.maxMemory, accept)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	s := &entity.Suspect{}
	b := httpx.NewBinder(p, false)
	bind(b, s)
	fh, clear := b.Image("s_photo")
	if err := b.Err(); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	out, err := h.svc.Create(r.Context(), s, media.Upload{File: fh, Clear: clear})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, h.render(r, out))
}

// Get handles GET /api/suspects/{id}/.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	s, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.render(r, s))
}

// Update handles PUT (partial=false) and PATCH (partial=true).
func (h *Handler) Update(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.id(w, r)
		if !ok {
			return
		}
		p, err := httpx.ParsePayload(r, h.maxMemory, httpx.AcceptForm)
		if err != nil {
			httpx.WriteError(w, h.logger, err)
			return
		}
		b := httpx.NewBinder(p, partial)
		fh, clear := b.Image("s_photo")
		out, err := h.svc.Update(r.Context(), id, func(s *entity.Suspect) error {
			bind(b, s)
			return b.Err()
		}, media.Upload{File: fh, Clear: clear})
		if err != nil {
			httpx.WriteError(w, h.logger, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, h.render(r, out))
	}
}

// Delete handles DELETE /api/suspects/{id}/.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, h.logger, apperr.NotFound(msgNotFound))
		return 0, false
	}
	return id, true
}

func bind(b *httpx.Binder, s *entity.Suspect) {
	b.RequiredInt("crime_report", &s.CrimeReportID)
	b.Texts([]httpx.TextField{
		{Name: "s_first_name", Dst: &s.SFirstName, Max: 120},
		{Name: "s_middle_name", Dst: &s.SMiddleName, Max: 120},
		{Name: "s_last_name", Dst: &s.SLastName, Max: 120},
		{Name: "s_age", Dst: &s.SAge, Max: 10},
		{Name: "s_crime_type", Dst: &s.SCrimeType, Max: 100},
		{Name: "s_address", Dst: &s.SAddress, Max: 255},
		{Name: "s_region", Dst: &s.SRegion, Max: 120},
		{Name: "s_province", Dst: &s.SProvince, Max: 120},
		{Name: "s_city_municipality", Dst: &s.SCityMunicipality, Max: 120},
		{Name: "s_city_mun_kind", Dst: &s.SCityMunKind, Max: 30},
		{Name: "s_barangay", Dst: &s.SBarangay, Max: 120},
		{Name: "s_region_code", Dst: &s.SRegionCode, Max: 20},
		{Name: "s_province_code", Dst: &s.SProvinceCode, Max: 20},
		{Name: "s_city_mun_code", Dst: &s.SCityMunCode, Max: 20},
		{Name: "s_barangay_code", Dst: &s.SBarangayCode, Max: 20},
	})
	s.Location.Bind(b)
}
