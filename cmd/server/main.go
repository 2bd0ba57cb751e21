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

	"bus-ticketing-platform/internal/config"
	"bus-ticketing-platform/internal/database"
	"bus-ticketing-platform/internal/handlers"
	"bus-ticketing-platform/internal/repositories"
	"bus-ticketing-platform/internal/server"
	"bus-ticketing-platform/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	bookingRepo := repositories.NewBookingRepository(db.DB)

	bookingService := services.NewBookingService(bookingRepo, cfg.Booking.ReservationWindow, cfg.Booking.ConfirmationPrefix)
	cleanupService := services.NewCleanupService(bookingRepo)
	eticketService := services.NewETicketService()

	bookingHandler := handlers.NewBookingHandler(bookingService, eticketService)
	cleanupHandler := handlers.NewCleanupHandler(cleanupService, cfg.Cron.Secret)
	healthHandler := handlers.NewHealthHandler(db.DB)

	router := server.NewRouter(cfg, bookingHandler, cleanupHandler, healthHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Background sweeper races the payment finalizer on the same rows; both
	// sides are safe, see services.CleanupService.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go cleanupService.Run(sweepCtx, cfg.Booking.CleanupInterval)

	go func() {
		log.Printf("Server listening on http://%s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
