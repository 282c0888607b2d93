// Package rest wires the HTTP surface: routes, middleware and the handler
// set behind them.
package rest

import (
	"net/http"

	"github.com/fullstackyodha/wechat-backend/infrastructure/config"
	"github.com/fullstackyodha/wechat-backend/interfaces/http/rest/handlers"
	"github.com/fullstackyodha/wechat-backend/interfaces/http/rest/middleware"
	"github.com/fullstackyodha/wechat-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers bundles every route handler the router mounts.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Posts         *handlers.PostHandler
	Reactions     *handlers.ReactionHandler
	Comments      *handlers.CommentHandler
	Connections   *handlers.ConnectionHandler
	Chats         *handlers.ChatHandler
	Users         *handlers.UserHandler
	Notifications *handlers.NotificationHandler
}

// Router creates and configures the HTTP router.
type Router struct {
	cfg         *config.Config
	handlers    Handlers
	tokens      *auth.TokenManager
	ipLimiter   auth.RateLimiter
	userLimiter auth.RateLimiter
	registry    *prometheus.Registry
	logger      *zap.Logger
}

// NewRouter creates a new router instance.
func NewRouter(
	cfg *config.Config,
	h Handlers,
	tokens *auth.TokenManager,
	ipLimiter, userLimiter auth.RateLimiter,
	registry *prometheus.Registry,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:         cfg,
		handlers:    h,
		tokens:      tokens,
		ipLimiter:   ipLimiter,
		userLimiter: userLimiter,
		registry:    registry,
		logger:      logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{rt.cfg.ClientURL},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.cfg.EnableMetrics && rt.registry != nil {
		router.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/signup", rt.handlers.Auth.Signup)
		r.Post("/signin", rt.handlers.Auth.Signin)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.tokens, rt.ipLimiter, rt.userLimiter, rt.logger))

			r.Route("/post", func(r chi.Router) {
				r.Post("/", rt.handlers.Posts.Create)
				r.Get("/all", rt.handlers.Posts.GetPage)
				r.Get("/images", rt.handlers.Posts.GetPageWithImages)
				r.Get("/videos", rt.handlers.Posts.GetPageWithVideos)
				r.Get("/user/{uid}", rt.handlers.Posts.GetByAuthor)
				r.Get("/{postId}", rt.handlers.Posts.Get)
				r.Put("/{postId}", rt.handlers.Posts.Update)
				r.Delete("/{postId}", rt.handlers.Posts.Delete)

				r.Post("/reaction", rt.handlers.Reactions.Add)
				r.Delete("/reaction/{postId}/{previousReaction}", rt.handlers.Reactions.Remove)
				r.Get("/reactions/{postId}", rt.handlers.Reactions.List)
				r.Get("/single/reaction/{postId}/{username}", rt.handlers.Reactions.GetByUsername)

				r.Post("/comment", rt.handlers.Comments.Add)
				r.Get("/comments/{postId}", rt.handlers.Comments.List)
				r.Get("/commentsnames/{postId}", rt.handlers.Comments.Names)
				r.Get("/single/comment/{postId}/{commentId}", rt.handlers.Comments.Get)
			})

			r.Route("/user", func(r chi.Router) {
				r.Get("/all", rt.handlers.Users.List)
				r.Get("/profile", rt.handlers.Users.Profile)
				r.Get("/profile/{userId}", rt.handlers.Users.ProfileByID)
				r.Get("/profile/user/suggestions", rt.handlers.Users.Suggestions)
				r.Put("/profile/basic-info", rt.handlers.Users.UpdateBasicInfo)
				r.Put("/profile/social-links", rt.handlers.Users.UpdateSocialLinks)
				r.Put("/profile/settings", rt.handlers.Users.UpdateNotificationSettings)

				r.Put("/follow/{followeeId}", rt.handlers.Connections.Follow)
				r.Put("/unfollow/{followeeId}", rt.handlers.Connections.Unfollow)
				r.Get("/following", rt.handlers.Connections.Following)
				r.Get("/followers", rt.handlers.Connections.Followers)
				r.Get("/followers/{userId}", rt.handlers.Connections.Followers)
				r.Put("/block/{peerId}", rt.handlers.Connections.Block)
				r.Put("/unblock/{peerId}", rt.handlers.Connections.Unblock)
			})

			r.Route("/chat", func(r chi.Router) {
				r.Post("/message", rt.handlers.Chats.SendMessage)
				r.Get("/conversations", rt.handlers.Chats.ConversationList)
				r.Get("/messages/{receiverId}", rt.handlers.Chats.Messages)
				r.Put("/message/read", rt.handlers.Chats.MarkRead)
				r.Delete("/message/{receiverId}/{messageId}/{type}", rt.handlers.Chats.MarkDeleted)
				r.Put("/message/reaction", rt.handlers.Chats.UpdateReaction)
				r.Post("/users", rt.handlers.Chats.AddChatUsers)
				r.Put("/users/remove", rt.handlers.Chats.RemoveChatUsers)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.handlers.Notifications.List)
				r.Put("/{notificationId}", rt.handlers.Notifications.MarkRead)
				r.Delete("/{notificationId}", rt.handlers.Notifications.Delete)
			})
		})
	})

	return router
}

// healthCheck handles health check requests.
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
