package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/cineghar/cineghar-api/internal/config"
	"github.com/cineghar/cineghar-api/internal/database"
	"github.com/cineghar/cineghar-api/internal/handler"
	"github.com/cineghar/cineghar-api/internal/mailer"
	"github.com/cineghar/cineghar-api/internal/payment"
	"github.com/cineghar/cineghar-api/internal/queue"
	"github.com/cineghar/cineghar-api/internal/repository"
	"github.com/cineghar/cineghar-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; middlewares degrade

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	var mail mailer.Mailer
	if cfg.SMTPHost == "" {
		mail = mailer.NewDevMailer()
	} else {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass)
	}

	users := repository.NewUserRepo(db)
	resets := repository.NewResetRepo(db)
	movies := repository.NewMovieRepo(db)
	halls := repository.NewHallRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	offers := repository.NewOfferRepo(db)
	payments := repository.NewPaymentRepo(db)

	khalti := payment.NewKhaltiClient(cfg.KhaltiBaseURL, cfg.KhaltiSecretKey)

	authH := handler.NewAuthHandler(cfg, users, resets, mail)
	adminH := handler.NewAdminHandler(cfg, users, movies, halls, showtimes, offers)
	publicH := handler.NewPublicHandler(movies, halls, showtimes, offers)
	paymentH := handler.NewPaymentHandler(cfg, payments, khalti, nil)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Static("/uploads", cfg.UploadDir)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, cfg, rdb, authH)
	router.RegisterPublic(e, rdb, publicH)
	router.RegisterAdmin(e, cfg, adminH)
	router.RegisterPayments(e, cfg, paymentH)

	// Stale reset tokens are rejected at redemption anyway; the hourly
	// prune just keeps the table from growing without bound.
	go func() {
		for {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := resets.DeleteExpired(ctx); err != nil {
				log.Printf("reset prune: %v", err)
			} else if n > 0 {
				log.Printf("reset prune: removed %d tokens", n)
			}
			cancel()
			time.Sleep(time.Hour)
		}
	}()

	go func() {
		if err := queue.StartPaymentConsumer(); err != nil {
			log.Printf("payment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
