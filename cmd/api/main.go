package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canteen-backend/internal/cache"
	"canteen-backend/internal/config"
	"canteen-backend/internal/db"
	"canteen-backend/internal/httpserver"
	"canteen-backend/internal/notify"
	campaignrepo "canteen-backend/internal/repository/campaign"
	hoursrepo "canteen-backend/internal/repository/hours"
	menurepo "canteen-backend/internal/repository/menu"
	orderrepo "canteen-backend/internal/repository/order"
	pushtokenrepo "canteen-backend/internal/repository/pushtoken"
	staffrepo "canteen-backend/internal/repository/staff"
	tokenrepo "canteen-backend/internal/repository/token"
	campaignsvc "canteen-backend/internal/service/campaign"
	canteensvc "canteen-backend/internal/service/canteen"
	menusvc "canteen-backend/internal/service/menu"
	ordersvc "canteen-backend/internal/service/order"
	pricingsvc "canteen-backend/internal/service/pricing"
	staffsvc "canteen-backend/internal/service/staff"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	loc := cfg.Location(logger)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var menuCache cache.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		menuCache = cache.NewRedisCache(client, 30*time.Second)
	}

	var pushSender notify.PushSender
	if cfg.FirebaseCredsFile != "" {
		sender, err := notify.NewFCMSender(ctx, cfg.FirebaseCredsFile)
		if err != nil {
			logger.Fatalf("init fcm: %v", err)
		}
		pushSender = sender
	} else {
		logger.Printf("push notifications disabled: no firebase credentials")
	}

	campaignRepo := campaignrepo.NewPostgres(dbpool, logger)
	menuRepo := menurepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	staffRepo := staffrepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	pushTokenRepo := pushtokenrepo.NewPostgres(dbpool)
	hoursRepo := hoursrepo.NewPostgres(dbpool)

	dispatcher := notify.NewDispatcher(pushTokenRepo, pushSender, logger)
	pricingResolver := pricingsvc.New(campaignRepo, loc, logger)
	canteenService := canteensvc.New(hoursRepo, loc, logger)
	menuService := menusvc.New(menuRepo, pricingResolver, canteenService, menuCache, loc, logger)
	campaignService := campaignsvc.New(campaignRepo, loc, logger)
	orderService := ordersvc.New(orderRepo, menuRepo, pricingResolver, dispatcher, loc, logger)
	staffService := staffsvc.New(staffRepo, tokenRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		OrderSvc:    orderService,
		MenuSvc:     menuService,
		CampaignSvc: campaignService,
		StaffSvc:    staffService,
		CanteenSvc:  canteenService,
		Notify:      dispatcher,
		BaseURL:     cfg.BaseURL,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
