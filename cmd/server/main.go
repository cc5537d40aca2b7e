package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"github.com/forgo/gather/api/internal/config"
	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/handler"
	"github.com/forgo/gather/api/internal/metrics"
	"github.com/forgo/gather/api/internal/middleware"
	"github.com/forgo/gather/api/internal/repository"
	"github.com/forgo/gather/api/internal/service"
	"github.com/forgo/gather/api/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	slog.SetDefault(newLogger(cfg))

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Apply schema migrations
	if err := database.Migrate(ctx, db, "migrations"); err != nil {
		slog.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	eventRepo := repository.NewEventRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	pollRepo := repository.NewPollRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	addonRepo := repository.NewAddonRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	groupService := service.NewGroupService(groupRepo, userRepo)
	eventService := service.NewEventService(eventRepo, groupRepo, userRepo)
	discussionService := service.NewDiscussionService(discussionRepo, groupRepo, eventRepo)
	mediaService := service.NewMediaService(mediaRepo, eventRepo)
	pollService := service.NewPollService(pollRepo, eventRepo)
	ticketService := service.NewTicketService(ticketRepo, eventRepo)
	addonService := service.NewAddonService(addonRepo, eventRepo)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.RequestsPerMinute,
		Window: time.Minute,
		Burst:  cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	// Initialize idempotency store
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     24 * time.Hour,
		Cleanup: time.Hour,
	})
	defer idempotencyStore.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	groupHandler := handler.NewGroupHandler(groupService)
	eventHandler := handler.NewEventHandler(eventService)
	discussionHandler := handler.NewDiscussionHandler(discussionService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	pollHandler := handler.NewPollHandler(pollService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	addonHandler := handler.NewAddonHandler(addonService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health and metrics endpoints
	mux.HandleFunc("GET /healthz", healthz(db))
	mux.Handle("GET /metrics", metrics.Handler())

	// Auth endpoints (public)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// User endpoints
	authMiddleware := middleware.Auth(jwtService)
	mux.Handle("GET /api/users/me", authMiddleware(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /api/users/me/password", authMiddleware(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /api/users/{userId}", authMiddleware(http.HandlerFunc(authHandler.GetUser)))

	// Group endpoints
	mux.Handle("GET /api/groups", authMiddleware(http.HandlerFunc(groupHandler.List)))
	mux.Handle("POST /api/groups", authMiddleware(http.HandlerFunc(groupHandler.Create)))
	mux.Handle("GET /api/groups/{groupId}", authMiddleware(http.HandlerFunc(groupHandler.Get)))
	mux.Handle("PATCH /api/groups/{groupId}", authMiddleware(http.HandlerFunc(groupHandler.Update)))
	mux.Handle("DELETE /api/groups/{groupId}", authMiddleware(http.HandlerFunc(groupHandler.Delete)))
	mux.Handle("POST /api/groups/{groupId}/members", authMiddleware(http.HandlerFunc(groupHandler.AddMember)))
	mux.Handle("GET /api/groups/{groupId}/members", authMiddleware(http.HandlerFunc(groupHandler.ListMembers)))
	mux.Handle("PATCH /api/groups/{groupId}/members/{userId}", authMiddleware(http.HandlerFunc(groupHandler.UpdateMember)))
	mux.Handle("DELETE /api/groups/{groupId}/members/{userId}", authMiddleware(http.HandlerFunc(groupHandler.RemoveMember)))
	mux.Handle("GET /api/groups/{groupId}/events", authMiddleware(http.HandlerFunc(eventHandler.ListForGroup)))

	// Event endpoints
	mux.Handle("GET /api/events", authMiddleware(http.HandlerFunc(eventHandler.List)))
	mux.Handle("POST /api/events", authMiddleware(http.HandlerFunc(eventHandler.Create)))
	mux.Handle("GET /api/events/{eventId}", authMiddleware(http.HandlerFunc(eventHandler.Get)))
	mux.Handle("PATCH /api/events/{eventId}", authMiddleware(http.HandlerFunc(eventHandler.Update)))
	mux.Handle("DELETE /api/events/{eventId}", authMiddleware(http.HandlerFunc(eventHandler.Delete)))
	mux.Handle("POST /api/events/{eventId}/organizers", authMiddleware(http.HandlerFunc(eventHandler.AddOrganizer)))
	mux.Handle("DELETE /api/events/{eventId}/organizers/{userId}", authMiddleware(http.HandlerFunc(eventHandler.RemoveOrganizer)))
	mux.Handle("POST /api/events/{eventId}/participants", authMiddleware(http.HandlerFunc(eventHandler.AddParticipant)))
	mux.Handle("GET /api/events/{eventId}/participants", authMiddleware(http.HandlerFunc(eventHandler.ListParticipants)))
	mux.Handle("DELETE /api/events/{eventId}/participants/{userId}", authMiddleware(http.HandlerFunc(eventHandler.RemoveParticipant)))

	// Discussion endpoints
	mux.Handle("POST /api/discussions/threads", authMiddleware(http.HandlerFunc(discussionHandler.CreateThread)))
	mux.Handle("GET /api/discussions/groups/{groupId}/threads", authMiddleware(http.HandlerFunc(discussionHandler.ListGroupThreads)))
	mux.Handle("GET /api/discussions/events/{eventId}/threads", authMiddleware(http.HandlerFunc(discussionHandler.ListEventThreads)))
	mux.Handle("GET /api/discussions/threads/{threadId}", authMiddleware(http.HandlerFunc(discussionHandler.GetThread)))
	mux.Handle("DELETE /api/discussions/threads/{threadId}", authMiddleware(http.HandlerFunc(discussionHandler.DeleteThread)))
	mux.Handle("POST /api/discussions/threads/{threadId}/messages", authMiddleware(http.HandlerFunc(discussionHandler.CreateMessage)))
	mux.Handle("GET /api/discussions/threads/{threadId}/messages", authMiddleware(http.HandlerFunc(discussionHandler.ListMessages)))
	mux.Handle("PATCH /api/discussions/messages/{messageId}", authMiddleware(http.HandlerFunc(discussionHandler.UpdateMessage)))
	mux.Handle("DELETE /api/discussions/messages/{messageId}", authMiddleware(http.HandlerFunc(discussionHandler.DeleteMessage)))

	// Media endpoints
	mux.Handle("POST /api/media/events/{eventId}/albums", authMiddleware(http.HandlerFunc(mediaHandler.CreateAlbum)))
	mux.Handle("GET /api/media/events/{eventId}/albums", authMiddleware(http.HandlerFunc(mediaHandler.ListAlbums)))
	mux.Handle("GET /api/media/albums/{albumId}", authMiddleware(http.HandlerFunc(mediaHandler.GetAlbum)))
	mux.Handle("PATCH /api/media/albums/{albumId}", authMiddleware(http.HandlerFunc(mediaHandler.UpdateAlbum)))
	mux.Handle("DELETE /api/media/albums/{albumId}", authMiddleware(http.HandlerFunc(mediaHandler.DeleteAlbum)))
	mux.Handle("POST /api/media/albums/{albumId}/photos", authMiddleware(http.HandlerFunc(mediaHandler.AddPhoto)))
	mux.Handle("GET /api/media/albums/{albumId}/photos", authMiddleware(http.HandlerFunc(mediaHandler.ListPhotos)))
	mux.Handle("DELETE /api/media/photos/{photoId}", authMiddleware(http.HandlerFunc(mediaHandler.DeletePhoto)))
	mux.Handle("POST /api/media/photos/{photoId}/comments", authMiddleware(http.HandlerFunc(mediaHandler.AddComment)))
	mux.Handle("GET /api/media/photos/{photoId}/comments", authMiddleware(http.HandlerFunc(mediaHandler.ListComments)))
	mux.Handle("DELETE /api/media/comments/{commentId}", authMiddleware(http.HandlerFunc(mediaHandler.DeleteComment)))

	// Poll endpoints. Casting is a PUT: a re-vote replaces the ballot.
	mux.Handle("POST /api/polls/events/{eventId}", authMiddleware(http.HandlerFunc(pollHandler.Create)))
	mux.Handle("GET /api/polls/events/{eventId}", authMiddleware(http.HandlerFunc(pollHandler.List)))
	mux.Handle("GET /api/polls/{pollId}", authMiddleware(http.HandlerFunc(pollHandler.Get)))
	mux.Handle("PATCH /api/polls/{pollId}", authMiddleware(http.HandlerFunc(pollHandler.Update)))
	mux.Handle("DELETE /api/polls/{pollId}", authMiddleware(http.HandlerFunc(pollHandler.Delete)))
	mux.Handle("PUT /api/polls/{pollId}/votes", authMiddleware(http.HandlerFunc(pollHandler.CastVotes)))

	// Ticketing endpoints. Listing types and purchasing are public so
	// ticket pages can be shared with people who have no account; a
	// valid token still attaches the caller so purchases can default
	// to the account email.
	optionalAuth := middleware.OptionalAuth(jwtService)
	mux.Handle("POST /api/tickets/events/{eventId}/types", authMiddleware(http.HandlerFunc(ticketHandler.CreateType)))
	mux.Handle("GET /api/tickets/events/{eventId}/types", optionalAuth(http.HandlerFunc(ticketHandler.ListTypes)))
	mux.Handle("PATCH /api/tickets/types/{typeId}", authMiddleware(http.HandlerFunc(ticketHandler.UpdateType)))
	mux.Handle("DELETE /api/tickets/types/{typeId}", authMiddleware(http.HandlerFunc(ticketHandler.DeleteType)))
	mux.Handle("POST /api/tickets/types/{typeId}/purchase", optionalAuth(http.HandlerFunc(ticketHandler.Purchase)))
	mux.Handle("GET /api/tickets/types/{typeId}/purchases", authMiddleware(http.HandlerFunc(ticketHandler.ListPurchases)))
	mux.Handle("DELETE /api/tickets/{ticketId}", authMiddleware(http.HandlerFunc(ticketHandler.Cancel)))

	// Shopping list endpoints
	mux.Handle("POST /api/shopping/events/{eventId}/items", authMiddleware(http.HandlerFunc(addonHandler.CreateShoppingItem)))
	mux.Handle("GET /api/shopping/events/{eventId}/items", authMiddleware(http.HandlerFunc(addonHandler.ListShoppingItems)))
	mux.Handle("PATCH /api/shopping/items/{itemId}", authMiddleware(http.HandlerFunc(addonHandler.UpdateShoppingItem)))
	mux.Handle("DELETE /api/shopping/items/{itemId}", authMiddleware(http.HandlerFunc(addonHandler.DeleteShoppingItem)))

	// Carpool endpoints
	mux.Handle("POST /api/carpool/events/{eventId}/offers", authMiddleware(http.HandlerFunc(addonHandler.CreateCarpoolOffer)))
	mux.Handle("GET /api/carpool/events/{eventId}/offers", authMiddleware(http.HandlerFunc(addonHandler.ListCarpoolOffers)))
	mux.Handle("PATCH /api/carpool/offers/{offerId}", authMiddleware(http.HandlerFunc(addonHandler.UpdateCarpoolOffer)))
	mux.Handle("DELETE /api/carpool/offers/{offerId}", authMiddleware(http.HandlerFunc(addonHandler.DeleteCarpoolOffer)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		metrics.Instrument,
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(wrapped)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// newLogger builds the process logger. Development gets colorized
// console output, everything else gets JSON for log shippers.
func newLogger(cfg *config.Config) *slog.Logger {
	level := parseLogLevel(cfg.Log.Level)
	if cfg.IsDevelopment() {
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// healthz reports liveness and verifies the database is reachable.
func healthz(db database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := db.Ping(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
			slog.Warn("health check database ping failed", slog.String("error", err.Error()))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}
