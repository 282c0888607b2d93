// Package di wires the application's components together explicitly, in
// dependency order, with no hidden registry between them.
package di

import (
	"context"
	"time"

	"github.com/fullstackyodha/wechat-backend/application/ports"
	"github.com/fullstackyodha/wechat-backend/application/workers"
	"github.com/fullstackyodha/wechat-backend/infrastructure/cache"
	"github.com/fullstackyodha/wechat-backend/infrastructure/config"
	"github.com/fullstackyodha/wechat-backend/infrastructure/email"
	"github.com/fullstackyodha/wechat-backend/infrastructure/persistence/mongodb"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"
	"github.com/fullstackyodha/wechat-backend/infrastructure/realtime"
	"github.com/fullstackyodha/wechat-backend/interfaces/http/rest"
	"github.com/fullstackyodha/wechat-backend/interfaces/http/rest/handlers"
	"github.com/fullstackyodha/wechat-backend/pkg/auth"
	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"
	"github.com/fullstackyodha/wechat-backend/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Container holds every long-lived component of one process. Both the API
// and the worker binaries build the same container and pick the pieces they
// serve.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry

	RedisClient *redis.Client
	MongoClient *mongo.Client

	Store       *cache.Store
	Locker      *cache.Locker
	Posts       *cache.PostCache
	Users       *cache.UserCache
	Comments    *cache.CommentCache
	Reactions   *cache.ReactionCache
	Connections *cache.ConnectionCache
	Messages    *cache.MessageCache

	PostRepo         ports.PostRepository
	UserRepo         ports.UserRepository
	CommentRepo      ports.CommentRepository
	ReactionRepo     ports.ReactionRepository
	ConnectionRepo   ports.ConnectionRepository
	ChatRepo         ports.ChatRepository
	NotificationRepo ports.NotificationRepository

	Producer    *queue.Producer
	Broadcaster *realtime.Broadcaster
	Mailer      *email.Mailer

	Tokens      *auth.TokenManager
	IPLimiter   auth.RateLimiter
	UserLimiter auth.RateLimiter

	CacheMetrics *metrics.CacheMetrics
	JobMetrics   *metrics.JobMetrics
}

// NewContainer builds the full component graph.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	cacheMetrics := metrics.NewCacheMetrics(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	redisClient, err := cache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, apperrors.Wrapf(err, "connect redis %s", cfg.RedisURL)
	}
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoURI)
	if err != nil {
		return nil, apperrors.Wrapf(err, "connect mongo")
	}
	db := mongoClient.Database(cfg.MongoDatabase)

	store := cache.NewStore(redisClient, logger, cacheMetrics)
	locker := cache.NewLocker(redisClient)

	producer, err := queue.NewProducer(cfg, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,

		RedisClient: redisClient,
		MongoClient: mongoClient,

		Store:       store,
		Locker:      locker,
		Posts:       cache.NewPostCache(store),
		Users:       cache.NewUserCache(store),
		Comments:    cache.NewCommentCache(store),
		Reactions:   cache.NewReactionCache(store),
		Connections: cache.NewConnectionCache(store, locker),
		Messages:    cache.NewMessageCache(store),

		PostRepo:         mongodb.NewPostRepository(db),
		UserRepo:         mongodb.NewUserRepository(db),
		CommentRepo:      mongodb.NewCommentRepository(db),
		ReactionRepo:     mongodb.NewReactionRepository(db),
		ConnectionRepo:   mongodb.NewConnectionRepository(db),
		ChatRepo:         mongodb.NewChatRepository(db),
		NotificationRepo: mongodb.NewNotificationRepository(db),

		Producer:    producer,
		Broadcaster: realtime.NewBroadcaster(redisClient, logger),
		Mailer:      email.NewMailer(cfg, logger),

		Tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, 24*time.Hour),
		// IP limiting is shared across replicas through Redis; the per-user
		// limiter stays in process since a user sticks to one replica.
		IPLimiter:   auth.NewRedisRateLimiter(redisClient, 300, time.Minute),
		UserLimiter: auth.NewUserRateLimiter(120),

		CacheMetrics: cacheMetrics,
		JobMetrics:   jobMetrics,
	}
	return c, nil
}

// HTTPHandler assembles the REST router over the container's components.
func (c *Container) HTTPHandler() *rest.Router {
	validate := validator.New()
	errorHandler := apperrors.NewErrorHandler(c.Logger, c.Config.IsDevelopment())

	h := rest.Handlers{
		Auth: handlers.NewAuthHandler(
			c.Users, c.UserRepo, c.Tokens,
			c.Producer, validate, errorHandler, c.Logger),
		Posts: handlers.NewPostHandler(
			c.Posts, c.Users, c.PostRepo, c.UserRepo, c.Broadcaster,
			c.Producer, validate, errorHandler, c.Logger),
		Reactions: handlers.NewReactionHandler(
			c.Posts, c.Reactions, c.Broadcaster,
			c.Producer, validate, errorHandler, c.Logger),
		Comments: handlers.NewCommentHandler(
			c.Comments, c.Broadcaster,
			c.Producer, validate, errorHandler, c.Logger),
		Connections: handlers.NewConnectionHandler(
			c.Connections, c.Broadcaster,
			c.Producer, validate, errorHandler, c.Logger),
		Chats: handlers.NewChatHandler(
			c.Messages, c.Connections, c.Broadcaster,
			c.Producer, validate, errorHandler, c.Logger),
		Users: handlers.NewUserHandler(
			c.Users, c.UserRepo, c.Broadcaster,
			c.Producer, validate, errorHandler, c.Logger),
		Notifications: handlers.NewNotificationHandler(
			c.NotificationRepo, c.Broadcaster,
			c.Producer, validate, errorHandler, c.Logger),
	}

	return rest.NewRouter(c.Config, h, c.Tokens, c.IPLimiter, c.UserLimiter, c.Registry, c.Logger)
}

// WorkerMux registers every background job handler onto one mux.
func (c *Container) WorkerMux() *asynq.ServeMux {
	notifier := workers.NewNotifier(c.UserRepo, c.NotificationRepo, c.Broadcaster, c.Producer, c.Logger)

	mux := asynq.NewServeMux()
	mux.Use(workers.LoggingMiddleware(c.Logger))
	mux.Use(workers.MetricsMiddleware(c.JobMetrics))

	workers.NewPostWorker(c.PostRepo, c.UserRepo, c.Logger).Register(mux)
	workers.NewCommentWorker(c.CommentRepo, c.PostRepo, notifier, c.Logger).Register(mux)
	workers.NewReactionWorker(c.ReactionRepo, c.PostRepo, notifier, c.Logger).Register(mux)
	workers.NewConnectionWorker(c.ConnectionRepo, c.UserRepo, notifier, c.Logger).Register(mux)
	workers.NewChatWorker(c.ChatRepo, notifier, c.Logger).Register(mux)
	workers.NewUserWorker(c.UserRepo, c.Logger).Register(mux)
	workers.NewNotificationWorker(c.NotificationRepo, c.Logger).Register(mux)
	workers.NewEmailWorker(c.Mailer, c.Logger).Register(mux)
	return mux
}

// WorkerServer builds the job server with the container's retry policy.
func (c *Container) WorkerServer() (*asynq.Server, error) {
	return queue.NewServer(c.Config, c.Logger, c.JobMetrics)
}

// Close releases every external connection; safe to call once on shutdown.
func (c *Container) Close(ctx context.Context) {
	if c.Producer != nil {
		if err := c.Producer.Close(); err != nil {
			c.Logger.Warn("queue producer close failed", zap.Error(err))
		}
	}
	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			c.Logger.Warn("mongo disconnect failed", zap.Error(err))
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("redis close failed", zap.Error(err))
		}
	}
	_ = c.Logger.Sync()
}

// newLogger builds the process logger honoring LOG_LEVEL and environment.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zapCfg.Build()
}
