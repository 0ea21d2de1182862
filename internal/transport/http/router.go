// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// domain services and encode; no business logic lives here.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"samadhan/internal/audit"
	"samadhan/internal/catalog"
	"samadhan/internal/eligibility"
	"samadhan/internal/family"
	"samadhan/internal/member"
	"samadhan/internal/platform/metrics"
	"samadhan/internal/platform/middleware"
	"samadhan/internal/registration"
)

type Handler struct {
	registrations *registration.Service
	members       *member.Service
	families      *family.Service
	catalog       *catalog.Service
	rules         eligibility.Store
	auditTrail    audit.Store
	reconciler    *family.Reconciler
	health        []HealthCheck
	logger        *slog.Logger
}

func NewHandler(registrations *registration.Service, members *member.Service,
	families *family.Service, cat *catalog.Service, rules eligibility.Store,
	auditTrail audit.Store, reconciler *family.Reconciler, health []HealthCheck,
	logger *slog.Logger) *Handler {
	return &Handler{
		registrations: registrations,
		members:       members,
		families:      families,
		catalog:       cat,
		rules:         rules,
		auditTrail:    auditTrail,
		reconciler:    reconciler,
		health:        health,
		logger:        logger,
	}
}

// NewRouter wires the full API surface. Everything under /api/v1 requires a
// valid agent token; health and metrics stay open for probes and scrapers.
func NewRouter(h *Handler, validator middleware.JWTValidator, m *metrics.Metrics,
	requestTimeout time.Duration, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(m))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", h.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))
		r.Use(middleware.ContentTypeJSON)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.handleStartSession)
			r.Get("/{sessionID}", h.handleGetSession)
			r.Put("/{sessionID}/answers", h.handleSetAnswers)
			r.Post("/{sessionID}/eligibility", h.handleEvaluate)
			r.Post("/{sessionID}/register", h.handleRegister)
		})

		r.Route("/members", func(r chi.Router) {
			r.Get("/", h.handleListMembers)
			r.Get("/{memberID}", h.handleGetMember)
			r.Get("/{memberID}/audit", h.handleMemberAudit)
		})

		r.Route("/families", func(r chi.Router) {
			r.Post("/", h.handleCreateFamily)
			r.Get("/", h.handleListFamilies)
			r.Get("/{familyID}", h.handleGetFamily)
			r.Post("/{familyID}/members", h.handleAttachMember)
			r.Put("/{familyID}/members", h.handleSetMembership)
		})

		r.Get("/schemes", h.handleListSchemes)
		r.Get("/documents", h.handleListDocuments)
		r.Get("/questions", h.handleGetQuestions)

		r.Post("/admin/reconcile", h.handleReconcile)
	})

	return r
}
