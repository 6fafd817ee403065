package controller

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/intelebee/connect/internal/config"
	"github.com/intelebee/connect/internal/infrastructure/observability"
	customMW "github.com/intelebee/connect/internal/middleware"
	"github.com/intelebee/connect/internal/service"
)

type RouterDeps struct {
	OnboardingService *service.OnboardingService
	PaymentService    *service.PaymentService
	MerchantService   *service.MerchantService
	Metrics           *observability.Metrics
	CORSConfig        config.CORSConfig
	StripeConfigured  bool
	PayrixConfigured  bool
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSConfig.AllowedOrigins,
		AllowedMethods: deps.CORSConfig.AllowedMethods,
		AllowedHeaders: deps.CORSConfig.AllowedHeaders,
		MaxAge:         deps.CORSConfig.MaxAge,
	}))
	r.Use(customMW.SecurityHeaders())
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.StripeConfigured, deps.PayrixConfigured)
	stripeH := NewStripeController(deps.OnboardingService, deps.PaymentService)
	payrixH := NewPayrixController(deps.MerchantService)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/stripe", func(r chi.Router) {
			// Onboarding
			r.Post("/express/onboarding-link", stripeH.CreateExpressOnboardingLink)
			r.Post("/express/dashboard-link", stripeH.CreateExpressDashboardLink)
			r.Post("/express/dashboard-settings", stripeH.UpdateDashboardSettings)
			r.Post("/standard/onboarding-link", stripeH.CreateStandardOnboardingLink)
			r.Post("/standard/dashboard-link", stripeH.CreateStandardDashboardLink)
			r.Post("/standard/capabilities", stripeH.UpdateCapabilities)

			// Accounts
			r.Get("/accounts", stripeH.ListAccounts)
			r.Get("/accounts/{accountId}", stripeH.GetAccount)
			r.Delete("/accounts/{accountId}", stripeH.DeleteAccount)
			r.Get("/accounts/{accountId}/status", stripeH.GetAccountStatus)
			r.Post("/accounts/{accountId}/settings", stripeH.UpdateAccountSettings)
			r.Post("/accounts/{accountId}/session", stripeH.CreateAccountSession)

			// Funds movement
			r.Post("/payments", stripeH.CreatePayment)
			r.Post("/payments/direct", stripeH.CreateDirectPayment)
			r.Post("/refunds", stripeH.CreateDirectRefund)
			r.Post("/checkout-sessions", stripeH.CreateCheckoutSession)
		})

		r.Route("/payrix", func(r chi.Router) {
			r.Post("/merchants", payrixH.CreateMerchant)
			r.Get("/merchants", payrixH.ListMerchants)
			r.Delete("/merchants/{merchantId}", payrixH.DeleteMerchant)
			r.Put("/merchants/{merchantId}/onboarding", payrixH.UpdateOnboarding)
			r.Get("/merchants/{merchantId}/dashboard", payrixH.GetDashboard)
		})
	})

	return r
}
