package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront-cms/config"
	"storefront-cms/database"
	editorapi "storefront-cms/internal/api/editor"
	pagesapi "storefront-cms/internal/api/pages"
	routes "storefront-cms/internal/app/http"
	"storefront-cms/internal/app/http/middleware"
	"storefront-cms/internal/domain/composer"
	"storefront-cms/internal/infra/metrics"
	"storefront-cms/internal/infra/pagestore"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(config.LOG_LEVEL); err == nil {
		log.SetLevel(lvl)
	}
	logrus.SetLevel(log.GetLevel())

	database.InitDB()
	store := pagestore.NewGormStore(database.DB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	library, err := composer.LoadLibrary(config.TEMPLATES_FILE)
	if err != nil {
		log.WithError(err).Fatal("❌ Failed to load template catalog")
	}
	if config.TEMPLATES_FILE != "" {
		if err := composer.WatchCatalogFile(ctx, config.TEMPLATES_FILE, library, log); err != nil {
			log.WithError(err).Warn("template catalog hot reload disabled")
		}
	}

	scheduler := composer.NewCronScheduler(log)
	scheduler.Start()

	defaults := composer.NewDefaultsResolver(composer.DefaultRegistry(), log)
	sessions := editorapi.NewSessions(store, composer.Options{
		Defaults:         defaults,
		Library:          library,
		Scheduler:        scheduler,
		AutosaveInterval: config.AUTOSAVE_INTERVAL,
		SaveTimeout:      config.SAVE_TIMEOUT,
		Logger:           log,
	})
	if _, err := sessions.ExpireIdle(scheduler, config.SESSION_IDLE_TIMEOUT); err != nil {
		log.WithError(err).Fatal("❌ Failed to schedule idle session sweep")
	}

	r := gin.Default()
	r.Use(metrics.GinMiddleware())

	// ✅ Add CORS middleware BEFORE registering routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Pages: &pagesapi.Handler{
			Store:    store,
			Library:  library,
			Defaults: defaults,
			Logger:   log,
		},
		Editor:      &editorapi.Handler{Sessions: sessions, Logger: log},
		RateLimiter: middleware.NewRateLimiter(config.RATE_LIMIT_RPS, config.RATE_LIMIT_BURST, log),
	})

	srv := &http.Server{Addr: ":" + config.PORT, Handler: r}
	go func() {
		log.Infof("🚀 Listening on :%s", config.PORT)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("❌ Server error")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP shutdown failed")
	}
	sessions.CloseAll()
	<-scheduler.Stop().Done()
}
