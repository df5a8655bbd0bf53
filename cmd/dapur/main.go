package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	authsvc "dapur/internal/app/services/auth"
	chatsvc "dapur/internal/app/services/chat"
	domainauth "dapur/internal/domain/auth"
	domainchat "dapur/internal/domain/chat"
	domainuser "dapur/internal/domain/user"
	"dapur/internal/infra/broker/kafka"
	"dapur/internal/infra/config"
	mongodb "dapur/internal/infra/db/mongo"
	redisdb "dapur/internal/infra/db/redis"
	ginserver "dapur/internal/infra/http/gin"
	"dapur/internal/infra/obs"
	"dapur/internal/infra/push/beams"
	"dapur/internal/infra/realtime/natsgw"
	"dapur/internal/infra/security"
	"dapur/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.StoreMode = config.StoreMemory
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	if cfg.StaffFixtures != "" {
		if err := seedParticipants(ctx, cfg.StaffFixtures, app.users, app.hasher, logger); err != nil {
			logger.Warn("participant fixtures load failed", "error", err, "path", cfg.StaffFixtures)
		}
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	users    domainuser.Repository
	hasher   authsvc.PasswordHasher
	ready    func() error
	closers  []func()
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{hasher: security.BcryptHasher{}}
	readyChecks := make([]func() error, 0, 2)

	var users domainuser.Repository
	var staff domainuser.StaffDirectory
	var messages domainchat.Store

	switch cfg.StoreMode {
	case config.StoreMongo:
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		userRepo := mongodb.NewUserRepository(client.DB)
		messageStore := mongodb.NewMessageStore(client.DB)
		indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := userRepo.EnsureIndexes(indexCtx); err != nil {
			logger.Warn("user index creation failed", "error", err)
		}
		if err := messageStore.EnsureIndexes(indexCtx); err != nil {
			logger.Warn("message index creation failed", "error", err)
		}
		users = userRepo
		staff = userRepo
		messages = messageStore
		readyChecks = append(readyChecks, func() error { return client.Ping(context.Background()) })
		app.closers = append(app.closers, func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(disconnectCtx)
		})
	default:
		userRepo := memory.NewUserRepository()
		users = userRepo
		staff = userRepo
		messages = memory.NewMessageStore()
	}

	var sessions domainauth.SessionStore
	if cfg.RedisAddr != "" {
		store := redisdb.NewSessionStore(cfg.RedisAddr, cfg.RedisPassword)
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		sessions = store
		app.closers = append(app.closers, func() { _ = store.Close() })
		readyChecks = append(readyChecks, func() error { return store.Ping(context.Background()) })
		logger.Info("session store ready", "backend", "redis", "addr", cfg.RedisAddr)
	} else {
		sessions = memory.NewSessionStore()
	}

	chatService := &chatsvc.Service{
		Store:      messages,
		Users:      users,
		Staff:      staff,
		AuditTopic: cfg.AuditTopic,
		Logger:     logger,
	}

	if cfg.NATSURL != "" {
		gateway, err := natsgw.New(cfg.NATSURL, logger)
		if err != nil {
			return nil, fmt.Errorf("realtime connect: %w", err)
		}
		chatService.Realtime = gateway
		app.closers = append(app.closers, gateway.Close)
		logger.Info("realtime gateway ready", "url", cfg.NATSURL)
	} else {
		logger.Warn("realtime gateway disabled, clients fall back to polling")
	}

	if cfg.BeamsInstanceID != "" {
		chatService.Notifier = beams.NewClient(cfg.BeamsInstanceID, cfg.BeamsSecretKey)
		logger.Info("push notifications ready", "instance", cfg.BeamsInstanceID)
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, fmt.Errorf("kafka connect: %w", err)
		}
		chatService.Audit = producer
		app.closers = append(app.closers, func() { _ = producer.Close() })
		logger.Info("audit stream ready", "topic", cfg.AuditTopic)
	}

	authService := &authsvc.Service{
		Users:      users,
		Sessions:   sessions,
		Passwords:  app.hasher,
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	authMW := ginserver.AuthMiddleware{Service: authService, Logger: logger}
	app.users = users
	app.handlers = ginserver.Handlers{
		Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
		Chat:           ginserver.ChatHandler{Service: chatService, Logger: logger},
		AuthMiddleware: authMW.Handle,
	}
	app.ready = func() error {
		for _, check := range readyChecks {
			if err := check(); err != nil {
				return err
			}
		}
		return nil
	}
	return app, nil
}

func (a *application) close() {
	for _, closer := range a.closers {
		closer()
	}
}

type participantFixture struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// seedParticipants loads the initial accounts, most importantly the staff
// member the customer routing pool needs. Existing usernames are skipped so
// the seed is safe to re-run.
func seedParticipants(ctx context.Context, path string, users domainuser.Repository, hasher authsvc.PasswordHasher, logger *slog.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fixtures []participantFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	seeded := 0
	for _, fixture := range fixtures {
		if _, err := users.ByUsername(ctx, fixture.Username); err == nil {
			continue
		}
		hash, err := hasher.Hash(fixture.Password)
		if err != nil {
			return err
		}
		user, err := domainuser.New(domainuser.CreateParams{
			ID:           domainuser.ID(uuid.NewString()),
			Username:     fixture.Username,
			FullName:     fixture.FullName,
			PasswordHash: hash,
			Role:         domainuser.Role(fixture.Role),
		})
		if err != nil {
			return fmt.Errorf("fixture %q: %w", fixture.Username, err)
		}
		if err := users.Save(ctx, user); err != nil {
			return fmt.Errorf("fixture %q: %w", fixture.Username, err)
		}
		seeded++
	}
	logger.Info("participant fixtures loaded", "path", path, "seeded", seeded)
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
