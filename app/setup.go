package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sahilchouksey/curriculum-catalog/api"
	"github.com/sahilchouksey/curriculum-catalog/config"
	"github.com/sahilchouksey/curriculum-catalog/database"
	"github.com/sahilchouksey/curriculum-catalog/router"
	"github.com/sahilchouksey/curriculum-catalog/utils/auth"
	"github.com/sahilchouksey/curriculum-catalog/utils/cache"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {
	// .env is optional outside development
	if err := config.LoadENV(); err != nil && !os.IsNotExist(err) {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	log, err := logger.New(getEnv.GO_ENV)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := database.StartGORM(getEnv, log)
	if err != nil {
		log.Error("check whether PostgreSQL is running", "host", getEnv.DB_HOST, "port", getEnv.DB_PORT)
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Error("failed to initialize database tables", "error", err)
		return err
	}

	if db, ok := store.GetDB().(*gorm.DB); ok {
		removed, err := auth.NewBlacklistService(db).CleanupExpiredTokens(context.Background())
		if err != nil {
			log.Warn("failed to clean up expired tokens", "error", err)
		} else if removed > 0 {
			log.Info("removed expired revoked tokens", "count", removed)
		}
	}

	opts := router.Options{Env: getEnv, Log: log}
	redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL)
	if err != nil {
		log.Warn("failed to connect to Redis, login lockout disabled", "error", err)
	} else {
		defer redisCache.Close()
		opts.Attempts = redisCache
	}

	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT), log)
	if err := router.SetupRoutes(server.GetEngine(), store, opts); err != nil {
		return err
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down API server")
		if err := server.Shutdown(); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	return server.Run()
}
