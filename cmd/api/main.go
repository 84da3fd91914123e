package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coaching-checkout/internal/auth"
	"coaching-checkout/internal/client"
	"coaching-checkout/internal/config"
	"coaching-checkout/internal/metrics"
	"coaching-checkout/internal/repository"
	"coaching-checkout/internal/server"
	"coaching-checkout/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	metrics.Register()

	db := client.InitDBClient(cfg.DatabaseURL)
	mpClient := client.NewMercadoPagoClient(&cfg.MercadoPago)
	storageClient := client.NewStorageClient(&cfg.Storage)

	planRepo := repository.NewPlanRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	if err := planRepo.Seed(context.Background()); err != nil {
		log.Fatal("seed plan catalog:", err)
	}

	orderService := service.NewOrderService(
		mpClient, cfg.BaseURL, cfg.Pricing.ExtraVideoPriceARS,
		planRepo,
		orderRepo,
		webhookEventRepo,
	)
	receiptService := service.NewReceiptService(storageClient, orderRepo, receiptRepo)
	planService := service.NewPlanService(planRepo, cfg.Pricing.ExtraVideoPriceARS)

	sessions := auth.NewSessionManager(cfg.Admin.Password, cfg.Environment.IsProduction())

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(orderService, receiptService, planService, sessions)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
