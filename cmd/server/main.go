package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/campuslink/campuslink/internal/config"
	"github.com/campuslink/campuslink/internal/database"
	"github.com/campuslink/campuslink/internal/handlers"
	"github.com/campuslink/campuslink/internal/repository"
	cronjobs "github.com/campuslink/campuslink/internal/scheduler"
	"github.com/campuslink/campuslink/internal/services"
	"github.com/campuslink/campuslink/pkg/email"
	"github.com/campuslink/campuslink/pkg/logger"
	"github.com/campuslink/campuslink/pkg/media"
	"github.com/campuslink/campuslink/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	mediaStore, err := media.NewStore(context.Background(), cfg.S3Region, cfg.S3Bucket)
	if err != nil {
		log.Fatalf("Media store init error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	if err := connectionRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Index creation error: %v", err)
	}
	communityRepo := repository.NewCommunityRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo)
	userService := services.NewUserService(userRepo, cfg.AdminEmail)
	postService := services.NewPostService(postRepo, notificationService)
	connectionService := services.NewConnectionService(connectionRepo, userRepo, notificationService)
	communityService := services.NewCommunityService(communityRepo, notificationService)
	messageService := services.NewMessageService(messageRepo, userRepo, connectionService)
	adminService := services.NewAdminService(userRepo, postRepo, communityRepo, notificationService, email.NewSender(cfg))

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService, userService)
	connectionHandler := handlers.NewConnectionHandler(connectionService, userService)
	communityHandler := handlers.NewCommunityHandler(communityService, userService)
	messageHandler := handlers.NewMessageHandler(messageService, userService)
	chatHandler := handlers.NewChatHandler(messageService, userService, cfg.JWTSecret)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(adminService, postService, userService)
	mediaHandler := handlers.NewMediaHandler(mediaStore)
	healthHandler := handlers.NewHealthHandler(db)

	router := mux.NewRouter()

	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	verified := middleware.RequireVerified(userService)
	rateLimiter := middleware.NewRateLimiter(redisClient, "campuslink", cfg.RateLimit, cfg.RateLimitBurst)

	// Auth routes; login and registration sit behind the rate limiter.
	authRoutes := router.PathPrefix("/auth").Subrouter()
	authRoutes.Use(rateLimiter.Middleware)
	authRoutes.HandleFunc("/register", authHandler.RegisterHandler).Methods("POST")
	authRoutes.HandleFunc("/login", authHandler.LoginHandler).Methods("POST")
	authRoutes.HandleFunc("/admin/login", authHandler.AdminLoginHandler).Methods("POST")

	meRoutes := router.PathPrefix("/auth/me").Subrouter()
	meRoutes.Use(auth)
	meRoutes.HandleFunc("", authHandler.MeHandler).Methods("GET")

	// User routes
	userRoutes := router.PathPrefix("/users").Subrouter()
	userRoutes.Use(auth)
	userRoutes.Use(verified)
	userRoutes.HandleFunc("", userHandler.SearchUsersHandler).Methods("GET")
	userRoutes.HandleFunc("/{id}", userHandler.GetProfileHandler).Methods("GET")
	userRoutes.HandleFunc("/{id}", userHandler.UpdateProfileHandler).Methods("PATCH")

	// Feed routes
	postRoutes := router.PathPrefix("/posts").Subrouter()
	postRoutes.Use(auth)
	postRoutes.Use(verified)
	postRoutes.HandleFunc("", postHandler.CreatePostHandler).Methods("POST")
	postRoutes.HandleFunc("", postHandler.GetFeedHandler).Methods("GET")
	postRoutes.HandleFunc("/{id}", postHandler.GetPostHandler).Methods("GET")
	postRoutes.HandleFunc("/{id}", postHandler.DeletePostHandler).Methods("DELETE")
	postRoutes.HandleFunc("/{id}/like", postHandler.LikeHandler).Methods("POST")
	postRoutes.HandleFunc("/{id}/comment", postHandler.CommentHandler).Methods("POST")
	postRoutes.HandleFunc("/{id}/comments", postHandler.GetCommentsHandler).Methods("GET")
	postRoutes.HandleFunc("/{id}/share", postHandler.ShareHandler).Methods("POST")
	postRoutes.HandleFunc("/{id}/vote", postHandler.VoteHandler).Methods("POST")
	postRoutes.HandleFunc("/{id}/report", postHandler.ReportHandler).Methods("POST")

	// Connection routes
	connectionRoutes := router.PathPrefix("/connections").Subrouter()
	connectionRoutes.Use(auth)
	connectionRoutes.Use(verified)
	connectionRoutes.HandleFunc("", connectionHandler.GetConnectionsHandler).Methods("GET")
	connectionRoutes.HandleFunc("/requests", connectionHandler.GetPendingRequestsHandler).Methods("GET")
	connectionRoutes.HandleFunc("/request/{userId}", connectionHandler.RequestConnectionHandler).Methods("POST")
	connectionRoutes.HandleFunc("/respond/{id}", connectionHandler.RespondHandler).Methods("POST")
	connectionRoutes.HandleFunc("/{userId}", connectionHandler.RemoveConnectionHandler).Methods("DELETE")

	// Community routes
	communityRoutes := router.PathPrefix("/communities").Subrouter()
	communityRoutes.Use(auth)
	communityRoutes.Use(verified)
	communityRoutes.HandleFunc("", communityHandler.CreateCommunityHandler).Methods("POST")
	communityRoutes.HandleFunc("", communityHandler.ListCommunitiesHandler).Methods("GET")
	communityRoutes.HandleFunc("/{id}", communityHandler.GetCommunityHandler).Methods("GET")
	communityRoutes.HandleFunc("/{id}/join", communityHandler.JoinCommunityHandler).Methods("POST")
	communityRoutes.HandleFunc("/{id}/leave", communityHandler.LeaveCommunityHandler).Methods("DELETE")
	communityRoutes.HandleFunc("/{id}/requests/{userId}", communityHandler.RespondToJoinRequestHandler).Methods("POST")

	// Messaging routes
	messageRoutes := router.PathPrefix("/messages").Subrouter()
	messageRoutes.Use(auth)
	messageRoutes.Use(verified)
	messageRoutes.HandleFunc("/send", messageHandler.SendMessageHandler).Methods("POST")
	messageRoutes.HandleFunc("", messageHandler.ListConversationsHandler).Methods("GET")
	messageRoutes.HandleFunc("/{userId}", messageHandler.GetConversationHandler).Methods("GET")

	// Realtime chat socket authenticates via query token.
	router.HandleFunc("/ws/chat", chatHandler.ChatWebSocketHandler)

	// Notification routes
	notificationRoutes := router.PathPrefix("/notifications").Subrouter()
	notificationRoutes.Use(auth)
	notificationRoutes.Use(verified)
	notificationRoutes.HandleFunc("", notificationHandler.ListNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/read-all", notificationHandler.MarkAllReadHandler).Methods("POST")
	notificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkReadHandler).Methods("POST")
	notificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Media upload
	mediaRoutes := router.PathPrefix("/media").Subrouter()
	mediaRoutes.Use(auth)
	mediaRoutes.Use(verified)
	mediaRoutes.HandleFunc("/upload", mediaHandler.UploadHandler).Methods("POST")

	// Admin routes
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(auth)
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/users", adminHandler.ListUsersHandler).Methods("GET")
	adminRoutes.HandleFunc("/users/{id}/verify", adminHandler.VerifyUserHandler).Methods("POST")
	adminRoutes.HandleFunc("/users/{id}/block", adminHandler.BlockUserHandler).Methods("POST")
	adminRoutes.HandleFunc("/users/{id}/unblock", adminHandler.UnblockUserHandler).Methods("POST")
	adminRoutes.HandleFunc("/reports", adminHandler.ListReportedPostsHandler).Methods("GET")
	adminRoutes.HandleFunc("/posts/{id}/approve", adminHandler.ApprovePostHandler).Methods("POST")
	adminRoutes.HandleFunc("/posts/{id}", adminHandler.RemovePostHandler).Methods("DELETE")
	adminRoutes.HandleFunc("/stats", adminHandler.StatsHandler).Methods("GET")

	// Ops endpoints
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.Handle("/metrics", middleware.MetricsHandler()).Methods("GET")

	// Apply middleware for logging and metrics
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.MetricsMiddleware)

	// Background sweeps for expired stories and stale notifications
	cronjobs.StartSweeperJobs(postService, notificationService)

	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
