package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-maze/api"
	generationapi "github.com/beka-birhanu/vinom-maze/api/generation"
	api_i "github.com/beka-birhanu/vinom-maze/api/i"
	"github.com/beka-birhanu/vinom-maze/api/identity"
	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/beka-birhanu/vinom-maze/infrastruture/metrics"
	"github.com/beka-birhanu/vinom-maze/infrastruture/repo"
	"github.com/beka-birhanu/vinom-maze/infrastruture/snapshotstore"
	"github.com/beka-birhanu/vinom-maze/infrastruture/token"
	"github.com/beka-birhanu/vinom-maze/logger"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const shutdownTimeout = 10 * time.Second

// Server dependencies
var (
	redisClient          *redis.Client
	mongoClient          *mongo.Client
	snapshotStore        i.SnapshotStore
	mazeArchive          i.MazeArchive
	metricsCollector     *metrics.Collector
	generationManager    *service.GenerationManager
	generationController api_i.Controller
	jwtTokenizer         i.Tokenizer
	router               *api.Router
	appLogger            *logger.Logger
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Host generations behind the HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			serve()
		},
	}
}

func initLogger() {
	var err error
	appLogger, err = logger.New("APP", config.ColorGreen, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating app logger: %v\n", err)
		os.Exit(1)
	}
}

func initRedis(ctx context.Context) {
	if config.Envs.RedisAddr == "" {
		appLogger.Warning("REDIS_ADDR is not set, generations will not survive a restart")
		return
	}
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}

	store, err := snapshotstore.NewRedisSnapshotStore(redisClient, "maze", config.Envs.SnapshotTTL)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating snapshot store: %v", err))
		os.Exit(1)
	}
	snapshotStore = store
	appLogger.Info("Connected to Redis")
}

func initMongo(ctx context.Context) {
	if config.Envs.MongoURI == "" {
		appLogger.Warning("MONGO_URI is not set, completed mazes will not be archived")
		return
	}
	var err error
	mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(config.Envs.MongoURI))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	mazeArchive = repo.NewMazeRepo(mongoClient, config.Envs.MongoDB, config.Envs.MongoCollection)
	appLogger.Info("Connected to MongoDB")
}

func initMetrics() {
	metricsCollector = metrics.New("vinom_maze")
	appLogger.Info("Metrics initialized")
}

func initGenerationManager() {
	managerLogger, err := logger.New("GENERATIONS", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating generation manager logger: %v", err))
		os.Exit(1)
	}

	generationManager, err = service.NewGenerationManager(&service.Config{
		Store:   snapshotStore,
		Archive: mazeArchive,
		Metrics: metricsCollector,
		Logger:  managerLogger,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating generation manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Generation manager initialized")
}

func initGenerationController() {
	var err error
	generationController, err = generationapi.NewGenerationController(generationManager, generationapi.Defaults{
		Width:  config.Envs.MazeWidth,
		Height: config.Envs.MazeHeight,
		Rate:   config.Envs.StepRate,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating generation controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Generation controller initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{generationController},
		AuthorizationMiddleware: identity.Authoriz(t),
		MetricsHandler:          metricsCollector.Handler(),
	})
	appLogger.Info("Router initialized")
}

func serve() {
	initLogger()
	if err := config.Envs.ValidateServer(); err != nil {
		appLogger.Error(fmt.Sprintf("Invalid configuration: %v", err))
		os.Exit(1)
	}
	gin.SetMode(config.Envs.GinMode)

	initCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	initRedis(initCtx)
	initMongo(initCtx)
	initMetrics()
	initGenerationManager()
	initGenerationController()
	initJWTTokenizer()
	initRouter(jwtTokenizer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    router.Addr(),
		Handler: router.Engine(),
	}
	go func() {
		appLogger.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(fmt.Sprintf("Starting server: %v", err))
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(fmt.Sprintf("Server shutdown: %v", err))
	}

	// Persist every live generation before the stores go away.
	generationManager.StopAll()

	if mongoClient != nil {
		_ = mongoClient.Disconnect(shutdownCtx)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
