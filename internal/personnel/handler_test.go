package personnel

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media/mediatest"
)

func newTestRouter(f *fixture) http.Handler {
	h := NewHandler(f.svc, f.storage, nil, 0)
	r := chi.NewRouter()
	r.Route("/api/personnel", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}/", h.Get)
		r.Put("/{id}/", h.Update(false))
		r.Patch("/{id}/", h.Update(true))
		r.Delete("/{id}/", h.Delete)
		r.Post("/{id}/archive/", h.Archive)
	})
	return r
}

func send(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func object(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestCreateJSON(t *testing.T) {
	f := newFixture(t)
	h := newTestRouter(f)
	w := send(h, http.MethodPost, "/api/personnel/", `{
		"first_name": "Juan", "last_name": "Cruz", "officer_id": "PNP-1",
		"birth_date": "1990-05-17", "father_occupation": "OFW", "lifelong_learner": true,
		"is_archived": true
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := object(t, w)
	assert.Equal(t, "1990-05-17", m["birth_date"])
	assert.Equal(t, "OFW", m["father_occupation"])
	assert.Equal(t, true, m["lifelong_learner"])
	assert.Equal(t, false, m["is_archived"])
	assert.Nil(t, m["profile_image"])
	assert.Nil(t, m["mother_dob"])
}

func TestCreateValidationErrors(t *testing.T) {
	f := newFixture(t)
	h := newTestRouter(f)
	w := send(h, http.MethodPost, "/api/personnel/", `{"first_name": "  ", "mother_occupation": "Farmer", "indigenous": "maybe"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{
		"first_name": ["This field may not be blank."],
		"last_name": ["This field is required."],
		"officer_id": ["This field is required."],
		"mother_occupation": ["\"Farmer\" is not a valid choice."],
		"indigenous": ["Must be a valid boolean."]
	}`, w.Body.String())
}

func TestCreateMultipartImages(t *testing.T) {
	f := newFixture(t)
	h := newTestRouter(f)
	body, ct := mediatest.Body{
		Fields: map[string]string{"first_name": "Ana", "last_name": "Reyes", "officer_id": "PNP-2", "indigenous": "true"},
		Files:  map[string][]byte{"profile_image": mediatest.PNG, "id_image": mediatest.PNG},
	}.Encode(t)
	r := httptest.NewRequest(http.MethodPost, "/api/personnel/", body)
	r.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := object(t, w)
	assert.Equal(t, "http://example.com/media/profiles/profile_image.png", m["profile_image"])
	assert.Equal(t, "http://example.com/media/ids/id_image.png", m["id_image"])
	assert.Equal(t, true, m["indigenous"])
}

func TestArchiveAndFilter(t *testing.T) {
	f := newFixture(t)
	h := newTestRouter(f)
	for _, id := range []string{"A", "B"} {
		w := send(h, http.MethodPost, "/api/personnel/", `{"first_name":"X","last_name":"Y","officer_id":"`+id+`"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := send(h, http.MethodPost, "/api/personnel/1/archive/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"archived","id":1,"is_archived":true}`, w.Body.String())

	w = send(h, http.MethodGet, "/api/personnel/?is_archived=false", "")
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0]["officer_id"])

	w = send(h, http.MethodGet, "/api/personnel/?is_archived=True", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0]["officer_id"])

	w = send(h, http.MethodGet, "/api/personnel/?is_archived=perhaps", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(h, http.MethodGet, "/api/personnel/?ordering=id", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0]["officer_id"])

	w = send(h, http.MethodPost, "/api/personnel/99/archive/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutAndPatch(t *testing.T) {
	f := newFixture(t)
	h := newTestRouter(f)
	w := send(h, http.MethodPost, "/api/personnel/", `{"first_name":"Juan","last_name":"Cruz","officer_id":"P1","religion":"None"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = send(h, http.MethodPatch, "/api/personnel/1/", `{"department":"Intel"}`)
	require.Equal(t, http.StatusOK, w.Code)
	m := object(t, w)
	assert.Equal(t, "Intel", m["department"])
	assert.Equal(t, "Juan", m["first_name"])

	w = send(h, http.MethodPut, "/api/personnel/1/", `{"department":"Ops"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "PUT requires the required fields")

	w = send(h, http.MethodPut, "/api/personnel/1/", `{"first_name":"Juan","last_name":"Dela Cruz","officer_id":"P1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	m = object(t, w)
	assert.Equal(t, "Dela Cruz", m["last_name"])
	assert.Equal(t, "None", m["religion"], "absent optional fields keep their value")

	w = send(h, http.MethodDelete, "/api/personnel/1/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = send(h, http.MethodGet, "/api/personnel/1/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
