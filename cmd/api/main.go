// @title Quiz Hub API
// @version 1.0
// @description Accounts with email verification, quiz questions and results for the Quiz Hub application.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quiz-hub/internal/adapter"
	"quiz-hub/internal/adapter/identity"
	"quiz-hub/internal/adapter/imagestore"
	"quiz-hub/internal/adapter/notification"
	"quiz-hub/internal/adapter/quizgen"
	"quiz-hub/internal/cache"
	"quiz-hub/internal/config"
	"quiz-hub/internal/database"
	"quiz-hub/internal/handler"
	"quiz-hub/internal/logger"
	"quiz-hub/internal/repository"
	"quiz-hub/internal/service"

	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewSQLXDB(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	accountRepository := repository.NewSQLXAccountRepository(db)
	questionRepository := repository.NewSQLXQuestionRepository(db)
	resultRepository := repository.NewSQLXResultRepository(db)
	contactRepository := repository.NewSQLXContactRepository(db)

	mailClient, err := notification.NewSMTPClient(cfg.SMTP)
	if err != nil {
		appLogger.Fatal("Failed to create SMTP client", zap.Error(err))
	}
	notifier := notification.NewSMTPNotificationSender(mailClient, cfg.SMTP.From, cfg.OTP.TTL)

	googleVerifier := identity.NewGoogleIdentityVerifier(cfg.Auth.GoogleOAuth)

	imageStore, err := imagestore.NewCloudinaryImageStore(cfg.Cloudinary)
	if err != nil {
		appLogger.Fatal("Failed to create Cloudinary client", zap.Error(err))
	}

	llm, err := ollama.New(
		ollama.WithServerURL(cfg.LLM.ServerURL),
		ollama.WithModel(cfg.LLM.Model),
		ollama.WithHTTPClient(&http.Client{Timeout: 90 * time.Second}),
	)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	authService, err := service.NewAuthService(service.AuthDeps{
		Accounts:  accountRepository,
		Hasher:    service.NewBcryptHasher(bcrypt.DefaultCost),
		Notifier:  notifier,
		Verifier:  googleVerifier,
		Exchanger: googleVerifier,
		Limiter:   service.NewVerificationLimiter(redisClient, cfg.OTP),
	}, cfg.Auth, cfg.OTP)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(accountRepository, imageStore)
	questionService := service.NewQuestionService(questionRepository, cacheAdapter, quizgen.NewLLMQuestionGenerator(llm), cfg.Cache.QuestionListTTL)
	resultService := service.NewResultService(resultRepository, accountRepository)
	contactService := service.NewContactService(contactRepository)
	appLogger.Info("Services initialized")

	app := newServer(cfg, handler.Handlers{
		Auth:     handler.NewAuthHandler(authService, cfg.Auth.GoogleOAuth),
		User:     handler.NewUserHandler(userService),
		Question: handler.NewQuestionHandler(questionService, resultService),
		Contact:  handler.NewContactHandler(contactService),
	}, authService)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		return app.Listen(":" + strconv.Itoa(cfg.Server.Port))
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("Server exited gracefully")
}
