package app

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"qrtrack/internal/cache"
	"qrtrack/internal/config"
	mid "qrtrack/internal/middleware"
	"qrtrack/internal/repositories"
	"qrtrack/internal/services"
)

type App struct {
	cfg config.Config
	db  *gorm.DB

	stop     chan struct{}
	stopOnce sync.Once
}

func New(cfg config.Config, db *gorm.DB) *App {
	return &App{cfg: cfg, db: db, stop: make(chan struct{})}
}

// Close stops the background cleanup goroutines. Safe to call more than once.
func (a *App) Close() {
	a.stopOnce.Do(func() { close(a.stop) })
}

func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	apiLimiter := mid.NewRateLimiter(100, 15*time.Minute, 30*time.Minute)
	redirectLimiter := mid.NewRateLimiter(60, time.Minute, 30*time.Minute)
	go apiLimiter.CleanupLoop(a.stop)
	go redirectLimiter.CleanupLoop(a.stop)

	qrRepo := repositories.NewQRCodeRepo(a.db)
	scanRepo := repositories.NewScanRepo(a.db)

	scanSvc := services.NewScanService(scanRepo, a.cfg.HashSalt)
	statsSvc := services.NewStatsService(scanRepo)

	var qrCache *cache.QRCodeCache
	if a.cfg.RedisURL != "" {
		opt, err := redis.ParseURL(a.cfg.RedisURL)
		if err != nil {
			log.Printf("invalid REDIS_URL, running without cache: %v", err)
		} else {
			qrCache = cache.New(redis.NewClient(opt), a.cfg.CacheTTL)
		}
	}

	h := NewHandlers(a.cfg, qrRepo, scanSvc, statsSvc, qrCache)

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(mid.RateLimitMiddleware(apiLimiter))
		api.Post("/qrcodes", h.CreateQRCode)
		api.Get("/qrcodes", h.ListQRCodes)
		api.Get("/qrcodes/{id}", h.GetQRCode)
		api.Put("/qrcodes/{id}", h.UpdateQRCode)
		api.Delete("/qrcodes/{id}", h.DeleteQRCode)
		api.Get("/qrcodes/{id}/stats", h.QRCodeStats)
	})

	r.Route("/r", func(rr chi.Router) {
		rr.Use(mid.RateLimitMiddleware(redirectLimiter))
		rr.Get("/{slug}", h.Redirect)
	})

	return r
}

func (a *App) Run(addr string) error {
	defer a.Close()
	log.Println("qrtrack listening on", addr)
	return http.ListenAndServe(addr, a.Router())
}
