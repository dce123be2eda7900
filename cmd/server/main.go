package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/instasoft/devatshop/internal/config"
	"github.com/instasoft/devatshop/internal/db"
	"github.com/instasoft/devatshop/internal/httpserver"
	"github.com/instasoft/devatshop/internal/logging"
	"github.com/instasoft/devatshop/internal/mail"
	authmw "github.com/instasoft/devatshop/internal/middleware/auth"
	loggingmw "github.com/instasoft/devatshop/internal/middleware/logging"
	"github.com/instasoft/devatshop/internal/mykafka"
	"github.com/instasoft/devatshop/internal/repo"
	"github.com/instasoft/devatshop/internal/service"
	"github.com/instasoft/devatshop/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmptyBytes(cfg.AccessSecret, "ACCESS_TOKEN_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_TOKEN_SECRET")
	config.MustNonEmptyBytes(cfg.ResetSecret, "RESET_TOKEN_SECRET")
	config.MustNonEmpty(cfg.ClientURL, "CLIENT_URL")

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	tokenSvc := tokens.New(tokens.Config{
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		ResetSecret:   cfg.ResetSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
		ResetTTL:      cfg.ResetTTL,
	})

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
	}

	sender := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	mailQueue := mail.NewQueue(sender, logger, 64)
	mailCtx, mailCancel := context.WithCancel(context.Background())
	mailQueue.Start(mailCtx)

	gormRepo := &repo.GormRepo{DB: gormDB}

	deps := &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:       gormRepo,
				Tokens:     tokenSvc,
				Producer:   producer,
				BcryptCost: cfg.BcryptCost,
			},
			Cookies: httpserver.CookieOptions{
				Secure:   cfg.CookieSecure,
				SameSite: cfg.CookieSameSite,
			},
		},
		Account: &httpserver.AccountHTTP{
			Svc: &service.AccountService{
				Repo:       gormRepo,
				Tokens:     tokenSvc,
				Mail:       mailQueue,
				Producer:   producer,
				ClientURL:  cfg.ClientURL,
				BcryptCost: cfg.BcryptCost,
			},
		},
		AuthMW: authmw.New(tokenSvc),
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	mailCancel()
	mailQueue.Close()

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	log.Println("shutdown complete")
}
