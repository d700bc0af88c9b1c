package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/config"
	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/handler"
	mw "github.com/KaduPegasus/Frango-supremo/internal/middleware"
	"github.com/KaduPegasus/Frango-supremo/internal/ws"
)

// BreakerState reports the payment gateway's circuit state for /health.
// Satisfied by *payment.Gateway.
type BreakerState interface {
	State() string
}

// Services bundles everything the HTTP layer talks to.
type Services struct {
	Catalog    handler.CatalogStore
	Carts      handler.CartServicer
	Checkout   handler.CheckoutServicer
	Orders     handler.OrderServicer
	Courier    handler.CourierServicer
	Business   handler.BusinessInfoStore
	Feedback   handler.FeedbackStore
	Reports    handler.ReportServicer
	Passphrase handler.PassphraseChecker
	Gateway    BreakerState
	Hub        *ws.Hub
}

// New creates a Chi router with all application routes wired up.
// Operator routes sit under /admin and /courier behind the admin role.
func New(cfg *config.Config, svc Services, log logrus.FieldLogger) (chi.Router, error) {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(mw.Metrics)

	if cfg.RateLimit != "" {
		limit, err := mw.RateLimit(cfg.RateLimit)
		if err != nil {
			return nil, err
		}
		r.Use(limit)
	}

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		state := "unknown"
		if svc.Gateway != nil {
			state = svc.Gateway.State()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","payment_gateway":"` + state + `"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	authHandler := handler.NewAuthHandler(svc.Passphrase, cfg.JWTSecret, cfg.AdminTokenTTL, log)
	productHandler := handler.NewProductHandler(svc.Catalog, cfg.PublicBaseURL, log)
	comboHandler := handler.NewComboHandler(svc.Catalog, log)
	categoryHandler := handler.NewCategoryHandler(svc.Catalog)
	sessionHandler := handler.NewSessionHandler(svc.Carts, log)
	paymentHandler := handler.NewPaymentHandler(svc.Checkout, log)
	orderHandler := handler.NewOrderHandler(svc.Orders, log)
	courierHandler := handler.NewCourierHandler(svc.Courier, log)
	businessHandler := handler.NewBusinessHandler(svc.Business, log)
	feedbackHandler := handler.NewFeedbackHandler(svc.Feedback, log)
	reportsHandler := handler.NewReportsHandler(svc.Reports, log)
	wsHandler := handler.NewWSHandler(svc.Hub, svc.Orders, log)

	// Public routes
	authHandler.RegisterRoutes(r)
	productHandler.RegisterRoutes(r)
	comboHandler.RegisterRoutes(r)
	categoryHandler.RegisterRoutes(r)
	businessHandler.RegisterRoutes(r)
	feedbackHandler.RegisterRoutes(r)
	wsHandler.RegisterRoutes(r)

	r.Route("/sessions", func(r chi.Router) {
		sessionHandler.RegisterRoutes(r)
		paymentHandler.RegisterRoutes(r)
	})
	r.Route("/orders", orderHandler.RegisterRoutes)

	// Operator routes
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireRole(enum.RoleAdmin))

		r.Route("/admin", func(r chi.Router) {
			productHandler.RegisterAdminRoutes(r)
			comboHandler.RegisterAdminRoutes(r)
			businessHandler.RegisterAdminRoutes(r)
			feedbackHandler.RegisterAdminRoutes(r)
			r.Route("/orders", orderHandler.RegisterAdminRoutes)
			r.Route("/reports", reportsHandler.RegisterRoutes)
		})
		r.Route("/courier", courierHandler.RegisterRoutes)
	})

	// Courier feed; the token may travel in the query on upgrade only
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthenticateUpgrade(cfg.JWTSecret))
		r.Use(mw.RequireRole(enum.RoleAdmin))
		wsHandler.RegisterCourierRoutes(r)
	})

	log.Info("router initialized")
	return r, nil
}
