package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginHandlerJSON(t *testing.T) {
	f := newFixture(t)
	f.register(t, "officer", "pw", false)
	h := NewHandler(f.svc, nil)

	r := httptest.NewRequest(http.MethodPost, "/user/login/", strings.NewReader(`{"username":"officer","password":"pw"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Login(PolicyNonAdminOnly)(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "officer", body["username"])
	assert.Equal(t, false, body["is_admin"])
	assert.NotEmpty(t, body["access"])
	assert.NotEmpty(t, body["refresh"])
}

func TestLoginHandlerForm(t *testing.T) {
	f := newFixture(t)
	f.register(t, "officer", "pw", false)
	h := NewHandler(f.svc, nil)

	form := url.Values{"username": {"officer"}, "password": {"pw"}}
	r := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Login(PolicyAdminOnly)(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"Only admin accounts can log in here."}`, w.Body.String())
}

func TestLoginHandlerMissingFields(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc, nil)

	r := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(`{"username":""}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Login(PolicyAny)(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"username":["This field may not be blank."],"password":["This field is required."]}`, w.Body.String())
}

func TestRefreshHandler(t *testing.T) {
	f := newFixture(t)
	f.register(t, "officer", "pw", false)
	h := NewHandler(f.svc, nil)
	pair, err := f.svc.Login(t.Context(), "officer", "pw", PolicyAny)
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"refresh": pair.Refresh})
	r := httptest.NewRequest(http.MethodPost, "/refresh/", strings.NewReader(string(body)))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Refresh(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	r = httptest.NewRequest(http.MethodPost, "/refresh/", strings.NewReader(string(body)))
	r.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	h.Refresh(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Token is invalid or expired","code":"token_not_valid"}`, w.Body.String())
}

func TestMiddleware(t *testing.T) {
	f := newFixture(t)
	f.register(t, "officer", "pw", false)
	pair, err := f.svc.Login(t.Context(), "officer", "pw", PolicyAny)
	require.NoError(t, err)

	h := NewHandler(f.svc, nil)
	protected := Middleware(f.svc, nil)(RequireAuth(nil)(http.HandlerFunc(h.Me)))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"valid bearer", "Bearer " + pair.Access, http.StatusOK},
		{"lowercase scheme", "bearer " + pair.Access, http.StatusOK},
		{"refresh token", "Bearer " + pair.Refresh, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"bearer without token", "Bearer", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/me/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			protected.ServeHTTP(w, r)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestMiddlewareOtherSchemesAreAnonymous(t *testing.T) {
	f := newFixture(t)
	var sawClaims bool
	open := Middleware(f.svc, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawClaims = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, header := range []string{"Basic Zm9vOmJhcg==", "Token abc", "Bearer"} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		open.ServeHTTP(w, r)
		if header == "Bearer" {
			assert.Equal(t, http.StatusUnauthorized, w.Code, header)
			continue
		}
		assert.Equal(t, http.StatusNoContent, w.Code, header)
		assert.False(t, sawClaims, header)
	}
}
