package routes

import (
	"attendly/internal/adapters/http/handlers"
	"attendly/internal/adapters/http/middleware"
	"attendly/internal/adapters/persistence/store"
	"attendly/internal/config"
	"attendly/internal/core/domain"
	"attendly/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// entitySegments maps a route path segment to its entity. The same groups
// are registered under both platform surfaces; the seeded grant table
// decides who may call what.
var entitySegments = []struct {
	segment string
	entity  domain.Entity
}{
	{"attendance", domain.EntityAttendance},
	{"employee", domain.EntityEmployee},
	{"organisation", domain.EntityOrganisation},
	{"preference", domain.EntityPreference},
	{"user", domain.EntityUser},
	{"usertokens", domain.EntityUserToken},
	{"role", domain.EntityRole},
	{"projectroute", domain.EntityProjectRoute},
	{"routerole", domain.EntityRouteRole},
	{"userrole", domain.EntityUserRole},
}

// Setup configures all routes for the application
func Setup(app *fiber.App, st store.Store, cfg *config.Config) {
	// Initialize services
	locationService := services.NewLocationService(st)
	attendanceService := services.NewAttendanceService(st, locationService)
	cascadeService := services.NewCascadeService(st)
	crudService := services.NewCrudService(st, cascadeService)
	permissionService := services.NewPermissionService(st)
	authService := services.NewAuthService(st, cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Platform surfaces
	setupPlatform(app.Group("/client/api/v1"), domain.PlatformClient, cfg, authService, permissionService, crudService, attendanceHandler)
	setupPlatform(app.Group("/admin"), domain.PlatformAdmin, cfg, authService, permissionService, crudService, attendanceHandler)
}

// setupPlatform registers one platform surface: its auth endpoints, the
// attendance lifecycle, and the entity CRUD groups behind the route-role
// permission check.
func setupPlatform(
	scope fiber.Router,
	platform domain.Platform,
	cfg *config.Config,
	authService *services.AuthService,
	permissionService *services.PermissionService,
	crudService *services.CrudService,
	attendanceHandler *handlers.AttendanceHandler,
) {
	authHandler := handlers.NewAuthHandler(authService, platform)

	scope.Post("/auth/login", middleware.AuthRateLimiter(), authHandler.Login)

	// Everything below requires a valid token for this surface
	scope.Use(middleware.AuthMiddleware(cfg, authService, platform))

	scope.Post("/auth/logout", authHandler.Logout)
	scope.Get("/auth/me", authHandler.Me)

	// Attendance lifecycle is available to any authenticated account;
	// ownership scoping inside the service keeps records private.
	scope.Post("/attendance/signin", attendanceHandler.SignIn)
	scope.Post("/attendance/signout", attendanceHandler.SignOut)

	authorize := middleware.PermissionMiddleware(permissionService)

	// Attendance mutations bypass the generic entity handler: create runs
	// the full sign-in flow and updates stay owner-scoped. Registered
	// first, they win over the group routes.
	scope.Post("/attendance/create", authorize, attendanceHandler.SignIn)
	scope.Put("/attendance/update/:id", authorize, attendanceHandler.Update)
	scope.Put("/attendance/partial-update/:id", authorize, attendanceHandler.Update)

	for _, es := range entitySegments {
		h := handlers.NewEntityHandler(es.entity, crudService)
		if es.entity == domain.EntityAttendance && platform == domain.PlatformClient {
			h = handlers.NewOwnerScopedEntityHandler(es.entity, crudService)
		}
		registerEntityRoutes(scope, es.segment, authorize, h)
	}
}

// registerEntityRoutes declares the CRUD group for one entity. The paths
// mirror the seeded route table exactly; a route registered here but not
// seeded would deny everyone. The permission check sits on each route,
// where the matched template is visible; mounted on the group it would
// only ever see the mount path.
func registerEntityRoutes(scope fiber.Router, segment string, authorize fiber.Handler, h *handlers.EntityHandler) {
	g := scope.Group("/" + segment)

	g.Post("/create", authorize, h.Create)
	g.Post("/addbulk", authorize, h.AddBulk)
	g.Post("/list", authorize, h.List)
	g.Post("/count", authorize, h.Count)
	g.Get("/:id", authorize, h.Get)
	g.Put("/update/:id", authorize, h.Update)
	g.Put("/partial-update/:id", authorize, h.Update)
	g.Put("/updatebulk", authorize, h.UpdateBulk)
	g.Put("/softdelete/:id", authorize, h.SoftDelete)
	g.Put("/softdeletemany", authorize, h.SoftDeleteMany)
	g.Delete("/delete/:id", authorize, h.Delete)
	g.Post("/deletemany", authorize, h.DeleteMany)
}
