package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/health"
	"github.com/schoolsuite/institute-admin-api/internal/http/handler"
	"github.com/schoolsuite/institute-admin-api/internal/http/middleware"
	"github.com/schoolsuite/institute-admin-api/internal/http/response"
	"github.com/schoolsuite/institute-admin-api/internal/security"
	"github.com/schoolsuite/institute-admin-api/internal/service"
)

// GlobalRateLimiterFunc throttles the whole API surface; AuthRateLimiterFunc
// throttles the login endpoint only. Both are chosen by the DI layer: a
// Redis-backed fixed window when Redis is enabled, a local one otherwise.
type GlobalRateLimiterFunc func(http.Handler) http.Handler

type AuthRateLimiterFunc func(http.Handler) http.Handler

// ResourceRoutes is the route surface shared by every catalogue entity.
type ResourceRoutes interface {
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Patch(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Toggle(w http.ResponseWriter, r *http.Request)
}

type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	StaffHandler     *handler.StaffHandler
	GroupHandler     *handler.GroupHandler
	IntentHandler    *handler.IntentHandler
	MealSetupHandler *handler.MealSetupHandler

	InstituteType ResourceRoutes
	Institute     ResourceRoutes
	Event         ResourceRoutes
	FeeHead       ResourceRoutes
	FeeSubHead    ResourceRoutes
	FeeName       ResourceRoutes
	FeePackage    ResourceRoutes
	MealName      ResourceRoutes
	MealItem      ResourceRoutes
	Fund          ResourceRoutes

	JWTManager         *security.JWTManager
	RBACService        service.RBACAuthorizer
	PermissionResolver service.PermissionResolver

	CORSOrigins       []string
	GlobalRateLimiter GlobalRateLimiterFunc
	AuthRateLimiter   AuthRateLimiterFunc
	Readiness         *health.ProbeRunner
	EnableOTelHTTP    bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	if dep.GlobalRateLimiter != nil {
		r.Use(func(next http.Handler) http.Handler { return dep.GlobalRateLimiter(next) })
	}

	authn := middleware.AuthMiddleware(dep.JWTManager)
	requires := func(action, resource string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(dep.RBACService, dep.PermissionResolver, domain.Codename(action, resource))
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	mountResource := func(r chi.Router, pattern, tag string, h ResourceRoutes) {
		r.Route(pattern, func(r chi.Router) {
			r.Use(authn)
			r.With(requires(domain.ActionView, tag)).Get("/", h.List)
			r.With(requires(domain.ActionView, tag)).Get("/{id}", h.GetByID)
			r.With(requires(domain.ActionAdd, tag)).Post("/", h.Create)
			r.With(requires(domain.ActionChange, tag)).Put("/{id}", h.Update)
			r.With(requires(domain.ActionChange, tag)).Patch("/{id}/toggle", h.Toggle)
			r.With(requires(domain.ActionDelete, tag)).Delete("/{id}", h.Delete)
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		login := http.HandlerFunc(dep.AuthHandler.Login)
		if dep.AuthRateLimiter != nil {
			r.Method(http.MethodPost, "/auth/login", dep.AuthRateLimiter(login))
		} else {
			r.Post("/auth/login", login)
		}
		r.With(authn).Get("/auth/me", dep.AuthHandler.Me)
		r.With(authn).Get("/auth/me/permissions", dep.AuthHandler.MyPermissions)

		mountResource(r, "/institutetype", service.TagInstituteType, dep.InstituteType)
		mountResource(r, "/events", service.TagEvent, dep.Event)
		mountResource(r, "/fee-heads", service.TagFeeHead, dep.FeeHead)
		mountResource(r, "/gfee-subheads", service.TagFeeSubHead, dep.FeeSubHead)
		mountResource(r, "/fees-names", service.TagFeeName, dep.FeeName)
		mountResource(r, "/fee-packages", service.TagFeePackage, dep.FeePackage)
		mountResource(r, "/meal-names", service.TagMealName, dep.MealName)
		mountResource(r, "/meal-items", service.TagMealItem, dep.MealItem)
		mountResource(r, "/funds", service.TagFund, dep.Fund)

		// Institute keeps list/get/create from the shared shape and updates
		// through PATCH partial semantics instead of PUT replace.
		r.Route("/institute", func(r chi.Router) {
			r.Use(authn)
			r.With(requires(domain.ActionView, service.TagInstitute)).Get("/", dep.Institute.List)
			r.With(requires(domain.ActionView, service.TagInstitute)).Get("/{id}", dep.Institute.GetByID)
			r.With(requires(domain.ActionAdd, service.TagInstitute)).Post("/", dep.Institute.Create)
			r.With(requires(domain.ActionChange, service.TagInstitute)).Patch("/{id}", dep.Institute.Patch)
			r.With(requires(domain.ActionChange, service.TagInstitute)).Patch("/{id}/toggle", dep.Institute.Toggle)
			r.With(requires(domain.ActionDelete, service.TagInstitute)).Delete("/{id}", dep.Institute.Delete)
		})

		r.Route("/meal-setup", func(r chi.Router) {
			r.Use(authn)
			r.With(requires(domain.ActionView, service.TagMealSetup)).Get("/", dep.MealSetupHandler.List)
			r.With(requires(domain.ActionView, service.TagMealSetup)).Get("/{id}", dep.MealSetupHandler.GetByID)
			r.With(requires(domain.ActionAdd, service.TagMealSetup)).Post("/", dep.MealSetupHandler.Create)
			r.With(requires(domain.ActionChange, service.TagMealSetup)).Put("/{id}", dep.MealSetupHandler.Update)
			r.With(requires(domain.ActionDelete, service.TagMealSetup)).Delete("/{id}", dep.MealSetupHandler.Delete)
		})

		r.Route("/staff-list", func(r chi.Router) {
			r.Use(authn)
			r.With(requires(domain.ActionView, service.TagStaff)).Get("/", dep.StaffHandler.List)
			r.With(requires(domain.ActionView, service.TagStaff)).Get("/{id}", dep.StaffHandler.GetByID)
			r.With(requires(domain.ActionView, service.TagStaff)).Get("/{id}/photo", dep.StaffHandler.PhotoURL)
			r.With(requires(domain.ActionAdd, service.TagStaff)).Post("/", dep.StaffHandler.Create)
			r.With(requires(domain.ActionChange, service.TagStaff)).Put("/{id}", dep.StaffHandler.Update)
			// Photo upload needs a higher body limit than the global 1MB.
			r.With(requires(domain.ActionChange, service.TagStaff), middleware.BodyLimit(6<<20)).Post("/{id}/photo", dep.StaffHandler.UploadPhoto)
			r.With(requires(domain.ActionChange, service.TagStaff)).Delete("/{id}/photo", dep.StaffHandler.DeletePhoto)
			r.With(requires(domain.ActionDelete, service.TagStaff)).Delete("/{id}", dep.StaffHandler.Delete)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Use(authn)
			r.Use(middleware.RequireSuperAdmin)
			r.Get("/", dep.GroupHandler.List)
			r.Get("/{id}", dep.GroupHandler.GetByID)
			r.Post("/", dep.GroupHandler.Create)
			r.Put("/{id}", dep.GroupHandler.Rename)
			r.Delete("/{id}", dep.GroupHandler.Delete)
			r.Get("/{id}/permissions", dep.GroupHandler.Permissions)
			r.Put("/{id}/permissions", dep.GroupHandler.ReplacePermissions)
		})
		r.With(authn, middleware.RequireSuperAdmin).Get("/permissions", dep.GroupHandler.ListPermissionCatalogue)

		r.Route("/intents", func(r chi.Router) {
			r.Use(authn)
			r.Post("/", dep.IntentHandler.Raise)
			r.Get("/{id}", dep.IntentHandler.Get)
			r.Post("/{id}/confirm", dep.IntentHandler.Confirm)
			r.Post("/{id}/cancel", dep.IntentHandler.Cancel)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
