package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/intelebee/connect/internal/bootstrap"
	"github.com/intelebee/connect/internal/controller"
	"github.com/intelebee/connect/internal/gateway/payrix"
	stripegw "github.com/intelebee/connect/internal/gateway/stripe"
	"github.com/intelebee/connect/internal/service"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "connect-api", "connect")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}

	// --- Gateways ---
	pspGateway := stripegw.New(app.Config.Stripe.SecretKey, app.Logger, app.Metrics)
	acquirerClient := payrix.NewClient(app.Config.Payrix, app.Logger, app.Metrics)

	// --- Services ---
	onboardingService := service.NewOnboardingService(pspGateway, app.Config.Platform, app.Logger, app.Metrics)
	paymentService := service.NewPaymentService(pspGateway, app.Config.Platform, app.Logger, app.Metrics)
	merchantService := service.NewMerchantService(acquirerClient, app.Logger)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		OnboardingService: onboardingService,
		PaymentService:    paymentService,
		MerchantService:   merchantService,
		Metrics:           app.Metrics,
		CORSConfig:        app.Config.Server.CORS,
		StripeConfigured:  app.Config.Stripe.SecretKey != "",
		PayrixConfigured:  app.Config.Payrix.APIKey != "",
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
