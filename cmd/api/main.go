package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adanest-api/internal/application/nlp"
	"github.com/adanest-api/internal/application/token"
	"github.com/adanest-api/internal/config"
	"github.com/adanest-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/adanest-api/internal/infrastructure/jwt"
	s3infra "github.com/adanest-api/internal/infrastructure/s3"
	"github.com/adanest-api/internal/infrastructure/smtp"
	"github.com/adanest-api/internal/infrastructure/sns"
	"github.com/adanest-api/internal/observability"
	"github.com/adanest-api/internal/pkg/password"
	transporthttp "github.com/adanest-api/internal/transport/http"
	appmiddleware "github.com/adanest-api/internal/transport/http/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found, reading from environment")
	}

	cfg := config.Load()
	slog.SetDefault(newLogger(cfg.AppEnv))

	if err := run(cfg); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func newLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	signer, err := jwtinfra.NewProvider(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("jwt provider: %w", err)
	}

	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("s3 client: %w", err)
	}

	publisher, err := sns.NewPublisher(ctx, cfg)
	if err != nil {
		return fmt.Errorf("sns publisher: %w", err)
	}

	nlpSvc, err := nlp.NewServiceFromFile(cfg.NLPCorpusPath)
	if err != nil {
		return fmt.Errorf("nlp corpus: %w", err)
	}

	reg := observability.NewRegistry()
	metrics := observability.NewMetrics(reg)

	tokenSvc := token.NewService(token.ServiceDeps{
		TokenRepo: dynamo.NewTokenRepo(dynamoClient, cfg.DynamoTables.Tokens),
		Signer:    signer,
		Metrics:   metrics,
	})

	// 5 requests/second, burst of 10, applied to the public auth endpoints.
	limiter := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	defer limiter.Stop()

	deps := &transporthttp.Deps{
		UserRepo:       dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		ChallengeRepo:  dynamo.NewChallengeRepo(dynamoClient, cfg.DynamoTables.Challenges),
		PostRepo:       dynamo.NewPostRepo(dynamoClient, cfg.DynamoTables.Posts),
		CommentRepo:    dynamo.NewCommentRepo(dynamoClient, cfg.DynamoTables.Comments),
		ReplyRepo:      dynamo.NewReplyRepo(dynamoClient, cfg.DynamoTables.Replies),
		LikeRepo:       dynamo.NewLikeRepo(dynamoClient, cfg.DynamoTables.Likes),
		ChatRepo:       dynamo.NewChatRepo(dynamoClient, cfg.DynamoTables.Chats),
		FileRepo:       dynamo.NewFileRepo(dynamoClient, cfg.DynamoTables.Files),
		S3Store:        s3infra.NewStore(s3Client, cfg),
		Mailer:         smtp.NewMailer(cfg),
		ChatPublisher:  publisher,
		Hasher:         password.NewBcryptHasher(cfg.SaltRounds),
		Tokens:         tokenSvc,
		NLP:            nlpSvc,
		Metrics:        metrics,
		MetricsHandler: observability.Handler(reg),
		RateLimiter:    limiter,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	// Let detached token writes land before the process exits.
	tokenSvc.Wait()
	slog.Info("server stopped")
	return nil
}
