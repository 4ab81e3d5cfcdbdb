package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/nege373/namazingo/handlers"
	"github.com/nege373/namazingo/middleware"
	"github.com/nege373/namazingo/services"
	"github.com/nege373/namazingo/storage"

	_ "net/http/pprof"
)

var (
	dbPool          *pgxpool.Pool
	store           storage.Store
	progressService *services.ProgressService
	campaignService *services.CampaignService
	profileService  *services.ProfileService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "" {
		backend = "file"
	}

	var err error
	switch backend {
	case "postgres":
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			log.Fatal("DATABASE_URL environment variable is not set")
		}

		poolConfig, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			log.Fatal("Failed to parse database URL:", err)
		}

		poolConfig.MaxConns = 25
		poolConfig.MinConns = 5
		poolConfig.MaxConnLifetime = time.Hour
		poolConfig.MaxConnIdleTime = 30 * time.Minute
		poolConfig.HealthCheckPeriod = time.Minute

		dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			log.Fatal("Failed to create connection pool:", err)
		}

		if err := dbPool.Ping(ctx); err != nil {
			log.Fatal("Failed to ping database:", err)
		}

		store, err = storage.NewPostgresStore(ctx, dbPool)
		if err != nil {
			log.Fatal("Failed to initialize postgres store:", err)
		}
		log.Println("Using postgres storage backend")

	case "redis":
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		client := redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     os.Getenv("REDIS_PASSWORD"),
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to ping redis:", err)
		}
		store = storage.NewRedisStore(client)
		log.Println("Using redis storage backend")

	case "file":
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "./data"
		}
		store, err = storage.NewFileStore(dataDir)
		if err != nil {
			log.Fatal("Failed to initialize file store:", err)
		}
		log.Printf("Using file storage backend at %s", dataDir)

	default:
		log.Fatalf("Unknown STORAGE_BACKEND %q (expected postgres, redis or file)", backend)
	}

	progressService = services.NewProgressService(ctx, store)
	campaignService = services.NewCampaignService(ctx, store)
	profileService = services.NewProfileService(store)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		if dbPool != nil {
			log.Println("Closing database connection pool...")
			dbPool.Close()
		}
	}()

	progressHandler := handlers.NewProgressHandler(progressService)
	campaignHandler := handlers.NewCampaignHandler(campaignService)
	profileHandler := handlers.NewProfileHandler(profileService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if _, _, err := store.Get(ctx, storage.KeyTheme); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "storage unreachable"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "namazingo-api"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")
	api.HandleFunc("/progress/prayer/toggle", progressHandler.TogglePrayer).Methods("POST")
	api.HandleFunc("/progress/prayer/undo", progressHandler.UndoPrayer).Methods("POST")
	api.HandleFunc("/progress/qadha", progressHandler.AddQadha).Methods("POST")
	api.HandleFunc("/progress/action", progressHandler.PerformAction).Methods("POST")
	api.HandleFunc("/progress/percent", progressHandler.GetDailyPercent).Methods("GET")
	api.HandleFunc("/progress/percents", progressHandler.GetLastPercents).Methods("GET")
	api.HandleFunc("/progress/stats/weekly", progressHandler.GetWeeklyStats).Methods("GET")
	api.HandleFunc("/progress/stats/monthly", progressHandler.GetMonthlyStats).Methods("GET")

	api.HandleFunc("/campaigns", campaignHandler.ListCampaigns).Methods("GET")
	api.HandleFunc("/campaigns", campaignHandler.CreateCampaign).Methods("POST")
	api.HandleFunc("/campaigns/lookup", campaignHandler.LookupByCode).Methods("GET")
	api.HandleFunc("/campaigns/join", campaignHandler.JoinByCode).Methods("POST")
	api.HandleFunc("/campaigns/{id}", campaignHandler.GetCampaign).Methods("GET")
	api.HandleFunc("/campaigns/{id}/slots/claim", campaignHandler.ClaimSlot).Methods("POST")
	api.HandleFunc("/campaigns/{id}/contributions", campaignHandler.AddContribution).Methods("POST")

	api.HandleFunc("/user/profile", profileHandler.GetProfile).Methods("GET")
	api.HandleFunc("/user/profile", profileHandler.SaveProfile).Methods("PUT")
	api.HandleFunc("/user/profile", profileHandler.DeleteProfile).Methods("DELETE")
	api.HandleFunc("/user/theme", profileHandler.GetTheme).Methods("GET")
	api.HandleFunc("/user/theme", profileHandler.SetTheme).Methods("PUT")
	api.HandleFunc("/user/leaderboard", progressHandler.GetLeaderboard).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
