package http

import (
	"net/http"

	"lab-booking-engine/internal/delivery/http/handler"
	"lab-booking-engine/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router          *mux.Router
	authHandler     *handler.AuthHandler
	bookingHandler  *handler.BookingHandler
	adminHandler    *handler.AdminHandler
	sampleHandler   *handler.SampleHandler
	documentHandler *handler.DocumentHandler
	auditLogHandler *handler.AuditLogHandler
	authMiddleware  *middleware.AuthMiddleware
	corsMiddleware  *middleware.CORSMiddleware
	metricsHandler  http.Handler
}

func NewRouter(
	authHandler *handler.AuthHandler,
	bookingHandler *handler.BookingHandler,
	adminHandler *handler.AdminHandler,
	sampleHandler *handler.SampleHandler,
	documentHandler *handler.DocumentHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:          mux.NewRouter(),
		authHandler:     authHandler,
		bookingHandler:  bookingHandler,
		adminHandler:    adminHandler,
		sampleHandler:   sampleHandler,
		documentHandler: documentHandler,
		auditLogHandler: auditLogHandler,
		authMiddleware:  authMiddleware,
		corsMiddleware:  corsMiddleware,
		metricsHandler:  metricsHandler,
	}
}

func (r *Router) Setup() *mux.Router {
	// Prometheus scrape endpoint, nil when metrics are disabled
	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Booking routes readable by the owner and by admins
	bookingRead := api.PathPrefix("/bookings").Subrouter()
	bookingRead.Use(r.authMiddleware.Authenticate)
	bookingRead.HandleFunc("/{id}", r.bookingHandler.GetBooking).Methods(http.MethodGet)
	bookingRead.HandleFunc("/{id}/samples", r.sampleHandler.ListSamples).Methods(http.MethodGet)
	bookingRead.HandleFunc("/{id}/documents", r.documentHandler.ListDocuments).Methods(http.MethodGet)
	bookingRead.HandleFunc("/{id}/documents", r.documentHandler.UploadDocument).Methods(http.MethodPost)
	bookingRead.HandleFunc("/{id}/results", r.documentHandler.GetResultAccess).Methods(http.MethodGet)

	// Customer routes
	customer := api.PathPrefix("/bookings").Subrouter()
	customer.Use(r.authMiddleware.Authenticate)
	customer.Use(middleware.RequireCustomer)
	customer.HandleFunc("", r.bookingHandler.CreateDraft).Methods(http.MethodPost)
	customer.HandleFunc("", r.bookingHandler.GetMyBookings).Methods(http.MethodGet)
	customer.HandleFunc("/{id}", r.bookingHandler.SaveDraft).Methods(http.MethodPut)
	customer.HandleFunc("/{id}", r.bookingHandler.DeleteDraft).Methods(http.MethodDelete)
	customer.HandleFunc("/{id}/submit", r.bookingHandler.Submit).Methods(http.MethodPost)
	customer.HandleFunc("/{id}/cancel", r.bookingHandler.Cancel).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Booking review (admin)
	admin.HandleFunc("/bookings", r.adminHandler.ListBookings).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id}", r.adminHandler.GetBooking).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id}/approve", r.adminHandler.Approve).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/reject", r.adminHandler.Reject).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/return", r.adminHandler.ReturnForEdit).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/start", r.adminHandler.Start).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/cancel", r.adminHandler.Cancel).Methods(http.MethodPost)
	admin.HandleFunc("/workspace-bookings/overlaps", r.adminHandler.ListWorkspaceOverlaps).Methods(http.MethodGet)

	// Accounts, samples and documents (admin)
	admin.HandleFunc("/users/{id}/verify", r.adminHandler.VerifyUser).Methods(http.MethodPost)
	admin.HandleFunc("/samples/{id}/status", r.sampleHandler.UpdateSampleStatus).Methods(http.MethodPut)
	admin.HandleFunc("/documents/{id}/verify", r.documentHandler.VerifyDocument).Methods(http.MethodPost)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
