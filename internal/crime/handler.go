package crime

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/crime/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/httpx"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
)

// Handler serves the crime report viewset and the unfiltered list-create
// variant.
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
	*entity.CrimeReport
	VPhoto    *string                 `json:"v_photo"`
	VPhotoURL string                  `json:"v_photo_url"`
	Suspects  []entity.SuspectSummary `json:"suspects"`
}

func (h *Handler) render(r *http.Request, d *Detail) response {
	out := response{CrimeReport: d.Report, VPhoto: h.storage.NullableURL(r, d.Report.VPhoto), Suspects: d.Suspects}
	if d.Report.VPhoto != nil {
		out.VPhotoURL = h.storage.AbsoluteURL(r, *d.Report.VPhoto)
	}
	return out
}

// List handles GET /api/crimes/?search=&ordering=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.list(w, r, entity.ListFilter{Search: q.Get("search"), Ordering: q.Get("ordering")})
}

// ListUnfiltered handles GET /crimes/: every report including archived
// ones, newest first.
func (h *Handler) ListUnfiltered(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, entity.ListFilter{IncludeArchived: true})
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

// Create handles POST /api/crimes/ (multipart or urlencoded).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, httpx.AcceptForm)
}

// CreateUnfiltered handles POST /crimes/, which also takes JSON.
func (h *Handler) CreateUnfiltered(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, httpx.AcceptForm|httpx.AcceptJSON)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, accept httpx.Accept) {
	p, err := httpx.ParsePayload(r, h.maxMemory, accept)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	c := &entity.CrimeReport{Status: entity.StatusOngoing}
	b := httpx.NewBinder(p, false)
	bind(b, c)
	photo := upload(b, "v_photo")
	if err := b.Err(); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	d, err := h.svc.Create(r.Context(), c, photo)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, h.render(r, d))
}

// Get handles GET /api/crimes/{id}/.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.render(r, d))
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
		photo := upload(b, "v_photo")
		d, err := h.svc.Update(r.Context(), id, func(c *entity.CrimeReport) error {
			bind(b, c)
			return b.Err()
		}, photo)
		if err != nil {
			httpx.WriteError(w, h.logger, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, h.render(r, d))
	}
}

// Delete handles DELETE /api/crimes/{id}/.
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

func bind(b *httpx.Binder, c *entity.CrimeReport) {
	b.Choice("crime_type", &c.CrimeType, entity.CrimeTypes, true)
	b.Text("description", &c.Description, 0)
	b.Date("happened_at", &c.HappenedAt)
	b.Choice("status", &c.Status, entity.Statuses, false)
	b.Texts([]httpx.TextField{
		{Name: "v_first_name", Dst: &c.VFirstName, Max: 120},
		{Name: "v_middle_name", Dst: &c.VMiddleName, Max: 120},
		{Name: "v_last_name", Dst: &c.VLastName, Max: 120},
		{Name: "v_age", Dst: &c.VAge, Max: 10},
		{Name: "v_address", Dst: &c.VAddress, Max: 255},
		{Name: "v_region", Dst: &c.VRegion, Max: 120},
		{Name: "v_province", Dst: &c.VProvince, Max: 120},
		{Name: "v_city_municipality", Dst: &c.VCityMunicipality, Max: 120},
		{Name: "v_city_mun_kind", Dst: &c.VCityMunKind, Max: 30},
		{Name: "v_barangay", Dst: &c.VBarangay, Max: 120},
		{Name: "v_region_code", Dst: &c.VRegionCode, Max: 20},
		{Name: "v_province_code", Dst: &c.VProvinceCode, Max: 20},
		{Name: "v_city_mun_code", Dst: &c.VCityMunCode, Max: 20},
		{Name: "v_barangay_code", Dst: &c.VBarangayCode, Max: 20},
	})
	c.Location.Bind(b)
}

func upload(b *httpx.Binder, field string) media.Upload {
	fh, clear := b.Image(field)
	return media.Upload{File: fh, Clear: clear}
}
