package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"smap/internal/cache"
	"smap/internal/config"
	"smap/internal/database"
	"smap/internal/middleware"
	"smap/internal/modules/auth"
	"smap/internal/modules/dashboard"
	"smap/internal/modules/file"
	"smap/internal/modules/item"
	"smap/internal/modules/loan"
	"smap/internal/modules/maintenance"
	"smap/internal/modules/report"
	"smap/internal/modules/user"
	jwtsvc "smap/internal/pkg/jwt"
	"smap/internal/repository"
	"smap/internal/storage"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	itemRepo := repository.NewItemRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	userRepo := repository.NewUserRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	summaryCache := buildSummaryCache(cfg)
	hub := dashboard.NewHub()
	defer hub.Close()

	dashboardService := dashboard.NewService(summaryCache, itemRepo, loanRepo, ticketRepo, hub)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	dashboardWS := dashboard.NewWSHandler(hub, j, dashboardService)

	fileStore := buildFileStore(cfg)
	fileHandler := file.NewHandler(fileStore)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	itemService := item.NewService(itemRepo, dashboardService)
	itemHandler := item.NewHandler(itemService)

	loanService := loan.NewService(loanRepo, userRepo, fileStore, dashboardService)
	loanHandler := loan.NewHandler(loanService)

	maintenanceService := maintenance.NewService(ticketRepo, userRepo, dashboardService)
	maintenanceHandler := maintenance.NewHandler(maintenanceService)

	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	reportService := report.NewService(itemRepo)
	reportHandler := report.NewHandler(reportService)

	r := gin.Default()
	r.Use(middleware.ErrorLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			dashboardHandler.RegisterRoutes(protected)
			reportHandler.RegisterRoutes(protected)

			loanHandler.RegisterRoutes(protected)
			maintenanceHandler.RegisterRoutes(protected)

			staff := protected.Group("/")
			staff.Use(middleware.StaffOnly())
			{
				itemHandler.RegisterRoutes(staff)
				fileHandler.RegisterRoutes(staff)
			}

			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				userHandler.RegisterRoutes(admin)
			}
		}

		// Websocket authenticates via query token, outside the bearer
		// middleware.
		v1.GET("/dashboard/ws", dashboardWS.HandleWebSocket)
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}

func buildSummaryCache(cfg config.Config) cache.SummaryCache {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, using in-memory summary cache")
		return cache.NewMemoryCache()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	return cache.NewRedisCache(rdb)
}

func buildFileStore(cfg config.Config) loan.FileStore {
	if cfg.S3Bucket == "" {
		log.Println("S3_BUCKET not set, evidence uploads disabled")
		return nil
	}

	store, err := storage.NewS3Store(context.Background(), storage.Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		PublicURL:       cfg.S3PublicURL,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		PathStyle:       cfg.S3PathStyle,
	})
	if err != nil {
		log.Fatal(err)
	}
	return store
}
