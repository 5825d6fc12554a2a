package personnel

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/personnel/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/httpx"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
)

// Handler serves the personnel profile viewset.
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
	*entity.Profile
	IDImage      *string `json:"id_image"`
	ProfileImage *string `json:"profile_image"`
}

func (h *Handler) render(r *http.Request, p *entity.Profile) response {
	return response{
		Profile:      p,
		IDImage:      h.storage.NullableURL(r, p.IDImage),
		ProfileImage: h.storage.NullableURL(r, p.ProfileImage),
	}
}

// List handles GET /api/personnel/?is_archived=&ordering=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := entity.ListFilter{Ordering: q.Get("ordering")}
	if raw := q.Get("is_archived"); raw != "" {
		v, ok := httpx.ParseBool(raw)
		if !ok {
			httpx.WriteError(w, h.logger, apperr.Invalid("is_archived", "Enter a valid boolean."))
			return
		}
		f.IsArchived = &v
	}
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

// Create handles POST /api/personnel/ (JSON or multipart).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	pl, err := httpx.ParsePayload(r, h.maxMemory, httpx.AcceptJSON|httpx.AcceptForm)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	p := &entity.Profile{}
	b := httpx.NewBinder(pl, false)
	bind(b, p)
	img := images(b)
	if err := b.Err(); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	out, err := h.svc.Create(r.Context(), p, img)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, h.render(r, out))
}

// Get handles GET /api/personnel/{id}/.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.render(r, p))
}

// Update handles PUT (partial=false) and PATCH (partial=true).
func (h *Handler) Update(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.id(w, r)
		if !ok {
			return
		}
		pl, err := httpx.ParsePayload(r, h.maxMemory, httpx.AcceptJSON|httpx.AcceptForm)
		if err != nil {
			httpx.WriteError(w, h.logger, err)
			return
		}
		b := httpx.NewBinder(pl, partial)
		img := images(b)
		out, err := h.svc.Update(r.Context(), id, func(p *entity.Profile) error {
			bind(b, p)
			return b.Err()
		}, img)
		if err != nil {
			httpx.WriteError(w, h.logger, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, h.render(r, out))
	}
}

// Delete handles DELETE /api/personnel/{id}/.
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

type archiveResponse struct {
	Status     string `json:"status"`
	ID         int64  `json:"id"`
	IsArchived bool   `json:"is_archived"`
}

// Archive handles POST /api/personnel/{id}/archive/.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.svc.Archive(r.Context(), id); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, archiveResponse{Status: "archived", ID: id, IsArchived: true})
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, h.logger, apperr.NotFound(msgNotFound))
		return 0, false
	}
	return id, true
}

func images(b *httpx.Binder) Images {
	var img Images
	img.IDImage.File, img.IDImage.Clear = b.Image("id_image")
	img.ProfileImage.File, img.ProfileImage.Clear = b.Image("profile_image")
	return img
}

func bind(b *httpx.Binder, p *entity.Profile) {
	b.RequiredText("first_name", &p.FirstName, 150)
	b.RequiredText("last_name", &p.LastName, 150)
	b.RequiredText("officer_id", &p.OfficerID, 100)
	b.Texts([]httpx.TextField{
		{Name: "middle_name", Dst: &p.MiddleName, Max: 150},
		{Name: "suffix", Dst: &p.Suffix, Max: 50},
		{Name: "email", Dst: &p.Email, Max: 254},
		{Name: "phone", Dst: &p.Phone, Max: 50},
		{Name: "department", Dst: &p.Department, Max: 150},
		{Name: "section", Dst: &p.Section, Max: 150},
		{Name: "sex", Dst: &p.Sex, Max: 50},
		{Name: "gender", Dst: &p.Gender, Max: 50},
		{Name: "height", Dst: &p.Height, Max: 50},
		{Name: "weight", Dst: &p.Weight, Max: 50},
		{Name: "birth_place", Dst: &p.BirthPlace, Max: 255},
		{Name: "officer_type", Dst: &p.OfficerType, Max: 100},
		{Name: "regular_officer", Dst: &p.RegularOfficer, Max: 100},
		{Name: "civil_status", Dst: &p.CivilStatus, Max: 50},
		{Name: "nationality", Dst: &p.Nationality, Max: 100},
		{Name: "religion", Dst: &p.Religion, Max: 100},

		{Name: "residential_address", Dst: &p.ResidentialAddress},
		{Name: "residential_region", Dst: &p.ResidentialRegion, Max: 100},
		{Name: "residential_province", Dst: &p.ResidentialProvince, Max: 100},
		{Name: "residential_municipality", Dst: &p.ResidentialMunicipality, Max: 100},
		{Name: "residential_barangay", Dst: &p.ResidentialBarangay, Max: 100},
		{Name: "permanent_address", Dst: &p.PermanentAddress},
		{Name: "permanent_region", Dst: &p.PermanentRegion, Max: 100},
		{Name: "permanent_province", Dst: &p.PermanentProvince, Max: 100},
		{Name: "permanent_municipality", Dst: &p.PermanentMunicipality, Max: 100},
		{Name: "permanent_barangay", Dst: &p.PermanentBarangay, Max: 100},

		{Name: "father_first_name", Dst: &p.FatherFirstName, Max: 150},
		{Name: "father_middle_name", Dst: &p.FatherMiddleName, Max: 150},
		{Name: "father_last_name", Dst: &p.FatherLastName, Max: 150},
		{Name: "father_contact", Dst: &p.FatherContact, Max: 50},
		{Name: "father_region", Dst: &p.FatherRegion, Max: 100},
		{Name: "father_province", Dst: &p.FatherProvince, Max: 100},
		{Name: "father_municipality", Dst: &p.FatherMunicipality, Max: 100},
		{Name: "father_barangay", Dst: &p.FatherBarangay, Max: 100},
		{Name: "mother_first_name", Dst: &p.MotherFirstName, Max: 150},
		{Name: "mother_middle_name", Dst: &p.MotherMiddleName, Max: 150},
		{Name: "mother_last_name", Dst: &p.MotherLastName, Max: 150},
		{Name: "mother_contact", Dst: &p.MotherContact, Max: 50},
		{Name: "mother_region", Dst: &p.MotherRegion, Max: 100},
		{Name: "mother_province", Dst: &p.MotherProvince, Max: 100},
		{Name: "mother_municipality", Dst: &p.MotherMunicipality, Max: 100},
		{Name: "mother_barangay", Dst: &p.MotherBarangay, Max: 100},
	})
	b.Date("birth_date", &p.BirthDate)
	b.Date("father_dob", &p.FatherDOB)
	b.Date("mother_dob", &p.MotherDOB)
	b.Choice("father_occupation", &p.FatherOccupation, entity.Occupations, true)
	b.Choice("mother_occupation", &p.MotherOccupation, entity.Occupations, true)
	b.Bool("lifelong_learner", &p.LifelongLearner)
	b.Bool("indigenous", &p.Indigenous)
}
