package suspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
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
	r.Get("/api/suspects/", h.List)
	r.Post("/api/suspects/", h.Create)
	r.Get("/api/suspects/{id}/", h.Get)
	r.Put("/api/suspects/{id}/", h.Update(false))
	r.Patch("/api/suspects/{id}/", h.Update(true))
	r.Delete("/api/suspects/{id}/", h.Delete)
	r.Get("/suspects/", h.ListUnfiltered)
	r.Post("/suspects/", h.CreateUnfiltered)
	return r
}

func do(h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

const formCT = "application/x-www-form-urlencoded"

func TestCreateSuspectMultipart(t *testing.T) {
	f := newFixture(t)
	id := f.report(t)
	h := newTestRouter(f)
	body, ct := mediatest.Body{
		Fields: map[string]string{"crime_report": strconv.FormatInt(id, 10), "s_first_name": "Jose", "s_last_name": "Rizal", "loc_province": "Cebu"},
		Files:  map[string][]byte{"s_photo": mediatest.PNG},
	}.Encode(t)
	r := httptest.NewRequest(http.MethodPost, "/api/suspects/", body)
	r.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.EqualValues(t, id, m["crime_report"])
	assert.Equal(t, "Cebu", m["loc_province"])
	assert.Equal(t, "http://example.com/media/suspects/new/s_photo.png", m["s_photo_url"])
}

func TestCreateSuspectErrors(t *testing.T) {
	f := newFixture(t)
	h := newTestRouter(f)

	w := do(h, http.MethodPost, "/api/suspects/", formCT, "s_first_name=Jose")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"crime_report":["This field is required."]}`, w.Body.String())

	w = do(h, http.MethodPost, "/api/suspects/", formCT, "crime_report=abc")
	assert.JSONEq(t, `{"crime_report":["Incorrect type. Expected pk value, received str."]}`, w.Body.String())

	w = do(h, http.MethodPost, "/api/suspects/", formCT, "crime_report=5")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"crime_report":["Invalid pk \"5\" - object does not exist."]}`, w.Body.String())

	w = do(h, http.MethodPost, "/api/suspects/", formCT, "crime_report=5&s_photo=notafile")
	assert.JSONEq(t, `{"s_photo":["The submitted data was not a file. Check the encoding type on the form."]}`, w.Body.String())
}

func TestSuspectSearchAndPartialUpdate(t *testing.T) {
	f := newFixture(t)
	id := strconv.FormatInt(f.report(t), 10)
	h := newTestRouter(f)
	for _, body := range []string{
		"crime_report=" + id + "&s_first_name=Jose&s_barangay=Lahug",
		"crime_report=" + id + "&s_first_name=Andres&loc_city_municipality=Lahug%20City",
		"crime_report=" + id + "&s_first_name=Emilio",
	} {
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/suspects/", formCT, body).Code)
	}

	w := do(h, http.MethodGet, "/api/suspects/?search=lahug", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 2)

	w = do(h, http.MethodPatch, "/api/suspects/3/", formCT, "s_age=30")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "30", m["s_age"])
	assert.Equal(t, "Emilio", m["s_first_name"])

	w = do(h, http.MethodPut, "/api/suspects/3/", formCT, "s_age=31")
	assert.Equal(t, http.StatusBadRequest, w.Code, "PUT requires crime_report")

	w = do(h, http.MethodDelete, "/api/suspects/3/", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(h, http.MethodGet, "/suspects/", "", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 2)
}

func TestUnfilteredVariantAcceptsJSON(t *testing.T) {
	f := newFixture(t)
	id := f.report(t)
	h := newTestRouter(f)
	w := do(h, http.MethodPost, "/suspects/", "application/json", `{"crime_report":`+strconv.FormatInt(id, 10)+`,"s_crime_type":"Theft"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"s_photo":null`)
	assert.Contains(t, w.Body.String(), `"s_photo_url":""`)
}
