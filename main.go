package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skillConnectAPI/handlers"
	"skillConnectAPI/internal/database"
	"skillConnectAPI/middleware"
	"skillConnectAPI/services"
)

var (
	dbPool              *pgxpool.Pool
	authService         *services.AuthService
	userService         *services.UserService
	messageService      *services.MessageService
	subscriptionService *services.SubscriptionService
	emailService        *services.EmailService
	broadcastService    *services.BroadcastService
	uploadService       *services.UploadService
	donationService     *services.DonationService
	retentionWorker     *services.RetentionWorker
)

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	dbPool, err = database.Connect(ctx, dbURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := database.Migrate(ctx, dbPool); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Successfully connected to Postgres")

	authService = services.NewAuthService(dbPool)
	userService = services.NewUserService(dbPool)
	messageService = services.NewMessageService(dbPool)
	subscriptionService = services.NewSubscriptionService(dbPool)
	donationService = services.NewDonationService(dbPool)

	var provider services.EmailProvider
	mailjetKey := os.Getenv("MAILJET_API_KEY")
	mailjetSecret := os.Getenv("MAILJET_SECRET_KEY")
	sender := os.Getenv("MAILJET_SENDER")
	if mailjetKey != "" && mailjetSecret != "" && sender != "" {
		provider = services.NewMailjetProvider(sender, mailjetKey, mailjetSecret)
		log.Println("Mailjet email provider initialized")
	} else {
		provider = &services.MockEmailProvider{}
		log.Println("Warning: Mailjet credentials not set, using mock email provider")
	}

	emailService = services.NewEmailService(dbPool, provider, "skill-connect-api", envInt("EMAIL_MONTHLY_LIMIT", 12000))
	broadcastService = services.NewBroadcastService(dbPool, emailService, envInt("BROADCAST_BATCH_LIMIT", 300))

	uploadService, err = services.NewUploadService(dbPool, services.MinioConfig{
		Endpoint:  os.Getenv("MINIO_ENDPOINT"),
		AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_SECRET_KEY"),
		Bucket:    os.Getenv("MINIO_BUCKET"),
		UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	})
	if err != nil {
		log.Fatal("Failed to initialize object storage client:", err)
	}
	if err := uploadService.EnsureBucket(ctx); err != nil {
		log.Printf("Warning: could not ensure storage bucket: %v", err)
	}

	retentionWorker = services.NewRetentionWorker(messageService, envInt("MESSAGE_RETENTION_DAYS", 0))

	middleware.InitPrometheus()
	services.InitEmailMetrics()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	messageHandler := handlers.NewMessageHandler(messageService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, emailService)
	broadcastHandler := handlers.NewBroadcastHandler(broadcastService)
	uploadHandler := handlers.NewUploadHandler(uploadService, userService)
	donationHandler := handlers.NewDonationHandler(donationService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := dbPool.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "skill-connect-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/forgot-password", authHandler.ForgotPassword).Methods("POST")

	api.HandleFunc("/subscriptions/plans", subscriptionHandler.GetPlans).Methods("GET")

	api.HandleFunc("/donations/orphans", donationHandler.GetOrphanages).Methods("GET")
	api.HandleFunc("/donations/old-age-homes", donationHandler.GetOldAgeHomes).Methods("GET")
	api.HandleFunc("/donate", donationHandler.Donate).Methods("POST")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuthMiddleware)

	protected.HandleFunc("/user/{email}", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/{email}", userHandler.UpdateProfile).Methods("PUT")

	protected.HandleFunc("/user-message/send", messageHandler.SendUserMessage).Methods("POST")
	protected.HandleFunc("/user-message/{senderId}/{receiverId}", messageHandler.GetMessages).Methods("GET")
	protected.HandleFunc("/conversations/{userId}", messageHandler.GetConversations).Methods("GET")

	protected.HandleFunc("/subscriptions/request", subscriptionHandler.RequestSubscription).Methods("POST")
	protected.HandleFunc("/subscriptions/cancel/{userId}", subscriptionHandler.Cancel).Methods("POST")
	protected.HandleFunc("/subscriptions/check-premium/{userId}", subscriptionHandler.CheckPremium).Methods("GET")

	protected.HandleFunc("/upload-resume", uploadHandler.UploadResume).Methods("POST")
	protected.HandleFunc("/upload-profile-photo", uploadHandler.UploadProfilePhoto).Methods("POST")
	protected.HandleFunc("/upload-payment-screenshot", uploadHandler.UploadPaymentScreenshot).Methods("POST")
	protected.HandleFunc("/upload-qr-code", uploadHandler.UploadQRCode).Methods("POST")
	protected.HandleFunc("/resumes/{email}", uploadHandler.GetResume).Methods("GET")

	protected.HandleFunc("/notifications/{userId}", broadcastHandler.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/{userId}/read-all", broadcastHandler.MarkAllRead).Methods("PUT")

	// -------------------------------------------------------------------------
	// ADMIN ROUTES
	// -------------------------------------------------------------------------
	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.AdminOnlyMiddleware)

	admin.HandleFunc("/send-message", broadcastHandler.SendMessage).Methods("POST")
	admin.HandleFunc("/subscriptions/admin/approve/{id}", subscriptionHandler.Approve).Methods("POST")
	admin.HandleFunc("/subscriptions/admin/reject/{id}", subscriptionHandler.Reject).Methods("POST")

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	if err := retentionWorker.Start(); err != nil {
		log.Printf("Warning: retention worker failed to start: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	retentionWorker.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
