// Package router mounts every HTTP route of the records service.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/account"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/crime"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/personnel"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/region"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/suspect"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/httpx"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
)

// Services is everything the route table needs.
type Services struct {
	Accounts  *account.Service
	Auth      *auth.Service
	Regions   *region.Service
	Personnel *personnel.Service
	Crimes    *crime.Service
	Suspects  *suspect.Service
	Storage   *media.Storage
	// MaxMemory caps the in-memory part of multipart bodies.
	MaxMemory int64
}

// RegisterRoutes builds the chi router. Every route gets request ids,
// panic recovery, request logging and security headers; bearer tokens are
// only read under /api, outside the login endpoint.
func RegisterRoutes(logger *zap.SugaredLogger, s Services) http.Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	authH := auth.NewHandler(s.Auth, logger)
	accountH := account.NewHandler(s.Accounts, logger, s.MaxMemory)
	regionH := region.NewHandler(s.Regions, logger)
	personnelH := personnel.NewHandler(s.Personnel, s.Storage, logger, s.MaxMemory)
	crimeH := crime.NewHandler(s.Crimes, s.Storage, logger, s.MaxMemory)
	suspectH := suspect.NewHandler(s.Suspects, s.Storage, logger, s.MaxMemory)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.NotFound(httpx.NotFound)
	r.MethodNotAllowed(httpx.MethodNotAllowed)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/login/", authH.Login(auth.PolicyAny))
	r.Post("/user/login/", authH.Login(auth.PolicyNonAdminOnly))
	r.Post("/admin/login/", authH.Login(auth.PolicyAdminOnly))
	r.Post("/refresh/", authH.Refresh)
	r.Post("/register/", accountH.Register)
	r.Get("/crimes/", crimeH.ListUnfiltered)
	r.Post("/crimes/", crimeH.CreateUnfiltered)
	r.Get("/suspects/", suspectH.ListUnfiltered)
	r.Post("/suspects/", suspectH.CreateUnfiltered)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login/", authH.Login(auth.PolicyAny))

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.Auth, logger))
			r.With(auth.RequireAuth(logger)).Get("/me/", authH.Me)
			r.Get("/regions/", regionH.List)
			// any method reaches the handler; it answers 404 for non-POST
			r.HandleFunc("/accounts/{pk}/archive/", accountH.Archive)

			r.Route("/personnel", func(r chi.Router) {
				r.Get("/", personnelH.List)
				r.Post("/", personnelH.Create)
				r.Get("/{id}/", personnelH.Get)
				r.Put("/{id}/", personnelH.Update(false))
				r.Patch("/{id}/", personnelH.Update(true))
				r.Delete("/{id}/", personnelH.Delete)
				r.Post("/{id}/archive/", personnelH.Archive)
			})
			r.Route("/crimes", func(r chi.Router) {
				r.Get("/", crimeH.List)
				r.Post("/", crimeH.Create)
				r.Get("/{id}/", crimeH.Get)
				r.Put("/{id}/", crimeH.Update(false))
				r.Patch("/{id}/", crimeH.Update(true))
				r.Delete("/{id}/", crimeH.Delete)
			})
			r.Route("/suspects", func(r chi.Router) {
				r.Get("/", suspectH.List)
				r.Post("/", suspectH.Create)
				r.Get("/{id}/", suspectH.Get)
				r.Put("/{id}/", suspectH.Update(false))
				r.Patch("/{id}/", suspectH.Update(true))
				r.Delete("/{id}/", suspectH.Delete)
			})
		})
	})

	// an absolute MEDIA_URL points at another host, nothing to serve here
	if prefix := s.Storage.Prefix(); strings.HasPrefix(prefix, "/") {
		r.Method(http.MethodGet, prefix+"*", s.Storage.Handler())
	}
	return r
}
