package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/kioskcare/helpdesk/internal/api/handler"
	customMiddleware "github.com/kioskcare/helpdesk/internal/api/middleware"
	"github.com/kioskcare/helpdesk/internal/config"
	"github.com/kioskcare/helpdesk/internal/repository/mongo"
	"github.com/kioskcare/helpdesk/internal/repository/postgres"
	"github.com/kioskcare/helpdesk/internal/repository/redis"
	"github.com/kioskcare/helpdesk/internal/security"
	"github.com/kioskcare/helpdesk/internal/service"
)

// NewRouter creates and configures the HTTP router. activityRepo may be
// nil, which disables ticket activity recording.
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client, activityRepo *mongo.ActivityRepository) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Sealing key for download tokens, derived from the JWT secret
	sealKey := []byte(cfg.Auth.JWTSecret)
	if len(sealKey) > 32 {
		sealKey = sealKey[:32]
	} else if len(sealKey) < 32 {
		padded := make([]byte, 32)
		copy(padded, sealKey)
		sealKey = padded
	}
	sealer, err := security.NewTokenSealer(sealKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token sealer")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	workspaceRepo := postgres.NewWorkspaceRepository(db)
	kioskRepo := postgres.NewKioskRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	attachmentRepo := postgres.NewAttachmentRepository(db)

	// Initialize rate limiter and stats cache
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)
	statsCache := redis.NewStatsCache(redisClient)

	// A typed nil pointer must not become a non-nil interface
	var activity service.ActivityStore
	if activityRepo != nil {
		activity = activityRepo
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, workspaceRepo, jwtManager)
	accessService := service.NewAccessService(workspaceRepo)
	workspaceService := service.NewWorkspaceService(workspaceRepo, userRepo, accessService)
	kioskService := service.NewKioskService(kioskRepo, accessService)
	ticketService := service.NewTicketService(
		ticketRepo,
		kioskRepo,
		commentRepo,
		userRepo,
		accessService,
		activity,
		statsCache,
	)
	attachmentService := service.NewAttachmentService(
		attachmentRepo,
		ticketRepo,
		accessService,
		activity,
		sealer,
		cfg.Storage.UploadDir,
		cfg.Server.BaseURL,
		cfg.Storage.DownloadTTL,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	kioskHandler := handler.NewKioskHandler(kioskService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService, cfg.Storage.MaxUploadSize)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	// Public routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Sealed-token downloads (the token is the credential)
		r.Get("/files", attachmentHandler.Download)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/auth/me", authHandler.Me)

			// Workspace routes
			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/", workspaceHandler.List)
				r.Post("/", workspaceHandler.Create)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Use(customMiddleware.WorkspaceContext)

					r.Get("/", workspaceHandler.Get)
					r.Patch("/", workspaceHandler.Update)
					r.Delete("/", workspaceHandler.Delete)

					// Membership routes
					r.Route("/members", func(r chi.Router) {
						r.Get("/", workspaceHandler.ListMembers)
						r.Post("/", workspaceHandler.AddMember)
						r.Patch("/{userID}", workspaceHandler.UpdateMemberRole)
						r.Delete("/{userID}", workspaceHandler.RemoveMember)
					})

					// Kiosk routes
					r.Route("/kiosks", func(r chi.Router) {
						r.Get("/", kioskHandler.List)
						r.Post("/", kioskHandler.Create)

						r.Route("/{kioskID}", func(r chi.Router) {
							r.Get("/", kioskHandler.Get)
							r.Patch("/", kioskHandler.Update)
							r.Delete("/", kioskHandler.Delete)
						})
					})

					// Ticket routes
					r.Route("/tickets", func(r chi.Router) {
						r.Get("/", ticketHandler.List)
						r.Post("/", ticketHandler.Create)
						r.Get("/stats", ticketHandler.Stats)

						r.Route("/{ticketID}", func(r chi.Router) {
							r.Get("/", ticketHandler.Get)
							r.Patch("/", ticketHandler.Update)
							r.Delete("/", ticketHandler.Delete)
							r.Get("/activity", ticketHandler.Activity)

							r.Route("/comments", func(r chi.Router) {
								r.Get("/", ticketHandler.ListComments)
								r.Post("/", ticketHandler.AddComment)
							})

							r.Route("/attachments", func(r chi.Router) {
								r.Get("/", attachmentHandler.List)
								r.Post("/", attachmentHandler.Upload)
								r.Get("/{attachmentID}/url", attachmentHandler.DownloadURL)
							})
						})
					})
				})
			})
		})
	})

	return r
}
