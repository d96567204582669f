package http

import (
	"net/http"

	"clinic-queue/internal/delivery/http/handler"
	"clinic-queue/internal/delivery/http/middleware"
	"clinic-queue/internal/delivery/ws"
	"clinic-queue/internal/domain/entity"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router              *mux.Router
	registrationHandler *handler.RegistrationHandler
	receptionHandler    *handler.ReceptionHandler
	doctorHandler       *handler.DoctorHandler
	staffHandler        *handler.StaffHandler
	auditLogHandler     *handler.AuditLogHandler
	displayHub          *ws.Hub
	gatherer            prometheus.Gatherer
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
	metricsMiddleware   *middleware.MetricsMiddleware
	registrationLimiter *middleware.RateLimiter
}

func NewRouter(
	registrationHandler *handler.RegistrationHandler,
	receptionHandler *handler.ReceptionHandler,
	doctorHandler *handler.DoctorHandler,
	staffHandler *handler.StaffHandler,
	auditLogHandler *handler.AuditLogHandler,
	displayHub *ws.Hub,
	gatherer prometheus.Gatherer,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
	registrationLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		registrationHandler: registrationHandler,
		receptionHandler:    receptionHandler,
		doctorHandler:       doctorHandler,
		staffHandler:        staffHandler,
		auditLogHandler:     auditLogHandler,
		displayHub:          displayHub,
		gatherer:            gatherer,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		loggingMiddleware:   loggingMiddleware,
		metricsMiddleware:   metricsMiddleware,
		registrationLimiter: registrationLimiter,
	}
}

// Setup registers every route. CORS wraps the whole router: preflight requests
// match no method-restricted route and never reach router middleware.
func (r *Router) Setup() http.Handler {
	// Operational endpoints
	r.router.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Display screens (public, read only)
	api.HandleFunc("/display/ws", r.displayHub.ServeWS).Methods(http.MethodGet)
	api.HandleFunc("/display/screens/{screen:[0-9]+}/calls", r.receptionHandler.RecentCalls).Methods(http.MethodGet)

	// Staff routes, roles checked per route
	staff := api.NewRoute().Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Handle("/registrations", r.registrationLimiter.Handle(
		middleware.RequireFrontDesk(http.HandlerFunc(r.registrationHandler.Register)))).Methods(http.MethodPost)
	staff.Handle("/doctors", middleware.RequireFrontDesk(http.HandlerFunc(r.receptionHandler.ListDoctors))).Methods(http.MethodGet)
	staff.Handle("/reception/queue", withRoles(r.receptionHandler.ListQueue,
		entity.RoleIDReception, entity.RoleIDRegistrar, entity.RoleIDAdmin, entity.RoleIDDoctor)).Methods(http.MethodGet)
	staff.Handle("/reception/lookup/{code}", middleware.RequireFrontDesk(http.HandlerFunc(r.receptionHandler.Lookup))).Methods(http.MethodGet)
	staff.Handle("/reception/patients/{id}", withRoles(r.receptionHandler.RemovePatient,
		entity.RoleIDReception, entity.RoleIDAdmin)).Methods(http.MethodDelete)
	staff.Handle("/reception/tickets/{id}/complete", withRoles(r.receptionHandler.CompleteTicket,
		entity.RoleIDReception, entity.RoleIDDoctor, entity.RoleIDAdmin)).Methods(http.MethodPost)
	staff.Handle("/reception/tickets/{id}/call", withRoles(r.receptionHandler.CallTicket,
		entity.RoleIDReception, entity.RoleIDDoctor)).Methods(http.MethodPost)

	// Signed-in doctor
	staff.Handle("/doctor/status", withRoles(r.doctorHandler.GetStatus, entity.RoleIDDoctor)).Methods(http.MethodGet)
	staff.Handle("/doctor/status", withRoles(r.doctorHandler.UpdateStatus, entity.RoleIDDoctor)).Methods(http.MethodPatch)
	staff.Handle("/doctor/queue", withRoles(r.doctorHandler.ListQueue, entity.RoleIDDoctor)).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Staff management
	admin.HandleFunc("/staff", r.staffHandler.CreateStaff).Methods(http.MethodPost)
	admin.HandleFunc("/staff", r.staffHandler.ListStaff).Methods(http.MethodGet)
	admin.HandleFunc("/staff/{id}/active", r.staffHandler.SetActive).Methods(http.MethodPatch)

	// Audit trail
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.metricsMiddleware.Handle)

	return r.corsMiddleware.Handle(r.router)
}

func withRoles(fn http.HandlerFunc, roleIDs ...int) http.Handler {
	return middleware.RequireRole(roleIDs...)(fn)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
