package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/config"
	"github.com/Samuel-soita/project-tracker-backend/internal/challenge"
	"github.com/Samuel-soita/project-tracker-backend/internal/email"
	"github.com/Samuel-soita/project-tracker-backend/internal/health"
	"github.com/Samuel-soita/project-tracker-backend/internal/infrastructure/memory"
	"github.com/Samuel-soita/project-tracker-backend/internal/infrastructure/postgres"
	ctxlog "github.com/Samuel-soita/project-tracker-backend/internal/log"
	"github.com/Samuel-soita/project-tracker-backend/internal/metrics"
	"github.com/Samuel-soita/project-tracker-backend/internal/password"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
	"github.com/Samuel-soita/project-tracker-backend/internal/scheduler"
	"github.com/Samuel-soita/project-tracker-backend/internal/token"
	httptransport "github.com/Samuel-soita/project-tracker-backend/internal/transport/http"
	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type repos struct {
	users    repository.UserRepository
	cohorts  repository.CohortRepository
	classes  repository.ClassRepository
	projects repository.ProjectRepository
	members  repository.MemberRepository
	tasks    repository.TaskRepository
	activity repository.ActivityRepository
}

func memoryRepos(store *memory.Store) repos {
	return repos{
		users:    store.Users(),
		cohorts:  store.Cohorts(),
		classes:  store.Classes(),
		projects: store.Projects(),
		members:  store.Members(),
		tasks:    store.Tasks(),
		activity: store.Activity(),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(cfg.Env, cfg.SlogLevel(), os.Stdout)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer)

	// Storage
	var r repos
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		r = memoryRepos(memory.NewStore())
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("db: %v", err)
		}
		checker.Add("postgres", pool)
		r = repos{
			users:    postgres.NewUserRepository(pool),
			cohorts:  postgres.NewCohortRepository(pool),
			classes:  postgres.NewClassRepository(pool),
			projects: postgres.NewProjectRepository(pool),
			members:  postgres.NewMemberRepository(pool),
			tasks:    postgres.NewTaskRepository(pool),
			activity: postgres.NewActivityRepository(pool),
		}
	}

	// 2FA challenges
	var pending challenge.Store = challenge.NewMemoryStore()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		rs := challenge.NewRedisStore(client, "tracker:2fa")
		checker.Add("redis", rs)
		pending = rs
	}
	challenges := challenge.NewManager(pending, challenge.WithTTL(cfg.TwoFactorCodeTTL))

	// Mail
	sender, err := email.NewSender(email.Options{
		Provider:     cfg.MailProvider,
		From:         cfg.MailFrom,
		ResendAPIKey: cfg.ResendAPIKey,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUsername: cfg.SMTPUsername,
		SMTPPassword: cfg.SMTPPassword,
	}, logger)
	if err != nil {
		log.Fatalf("mail: %v", err)
	}
	outbox := email.NewOutbox(sender, logger)

	tokens, err := token.NewService([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatalf("token: %v", err)
	}
	hasher := password.NewHasher(bcrypt.DefaultCost)

	activity := usecase.NewActivityUsecase(r.activity, logger)
	authUsecase := usecase.NewAuthUsecase(r.users, hasher, tokens, challenges, outbox, activity, usecase.AuthConfig{
		AccessTTL:                cfg.AccessTokenTTL,
		VerificationTTL:          cfg.VerificationTokenTTL,
		RequireEmailVerification: cfg.RequireEmailVerification,
		FrontendURL:              cfg.FrontendURL,
	}, logger)

	router := httptransport.NewRouter(logger, httptransport.Usecases{
		Auth:     authUsecase,
		Users:    usecase.NewUserUsecase(r.users, hasher, activity),
		Cohorts:  usecase.NewCohortUsecase(r.cohorts, r.users, activity),
		Classes:  usecase.NewClassUsecase(r.classes, r.users, activity),
		Projects: usecase.NewProjectUsecase(r.projects, activity),
		Members:  usecase.NewMemberUsecase(r.projects, r.members, r.users, outbox, activity, cfg.FrontendURL),
		Tasks:    usecase.NewTaskUsecase(r.tasks, r.projects, r.users, activity),
		Activity: activity,
	})

	retention := time.Duration(cfg.ActivityRetentionDays) * 24 * time.Hour
	janitor, err := scheduler.NewJanitor(cfg.JanitorSchedule, challenges, activity, retention, logger)
	if err != nil {
		log.Fatalf("janitor: %v", err)
	}

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		janitor.Start(ctx)
	}()

	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	wg.Wait()
	outbox.Wait()
	logger.Info("shutdown complete")
}
