package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/emergent-shell/shell-backend/config"
	"github.com/emergent-shell/shell-backend/internal/applog"
	"github.com/emergent-shell/shell-backend/internal/auth"
	"github.com/emergent-shell/shell-backend/internal/bootstrap"
	"github.com/emergent-shell/shell-backend/internal/commands/dispatcher"
	"github.com/emergent-shell/shell-backend/internal/commands/executor"
	cmdhttp "github.com/emergent-shell/shell-backend/internal/commands/http"
	"github.com/emergent-shell/shell-backend/internal/commands/janitor"
	cmdrepo "github.com/emergent-shell/shell-backend/internal/commands/repository"
	"github.com/emergent-shell/shell-backend/internal/events"
	projrepo "github.com/emergent-shell/shell-backend/internal/projects/repository"
	"github.com/emergent-shell/shell-backend/internal/projects/service"
	"github.com/emergent-shell/shell-backend/internal/storage/memory"
)

const serviceName = "emergent-shell-backend"

// commandStore is everything the pipeline needs from command persistence,
// satisfied by both the Postgres repo and the in-memory store.
type commandStore interface {
	dispatcher.CommandStore
	janitor.Store
	cmdhttp.Store
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := applog.New(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		pool      *pgxpool.Pool
		cmdStore  commandStore
		projStore service.Store
	)
	if cfg.Database.DSN != "" {
		pool, err = bootstrap.OpenDB(ctx, cfg.Database)
		if err != nil {
			log.WithError(err).Fatal("failed to open database")
		}
		defer pool.Close()
		cmdStore = cmdrepo.NewRepo(pool)
		projStore = projrepo.NewRepo(pool)
		log.Info("using postgres store")
	} else {
		cmdStore = memory.NewCommandStore()
		projStore = memory.NewProjectStore()
		log.Warn("DB_DSN not set, using in-memory store")
	}

	var (
		rdb *redis.Client
		bus events.Bus = events.Noop{}
	)
	if cfg.Redis.Addr != "" {
		rdb, err = bootstrap.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			log.WithError(err).Fatal("failed to open redis")
		}
		defer rdb.Close()
		bus = events.NewRedisBus(rdb, log)
	} else {
		log.Warn("REDIS_ADDR not set, live streams fall back to polling")
	}

	var authClient *fbauth.Client
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err = auth.InitializeFirebase(&cfg.Firebase)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize firebase")
		}
	} else {
		log.Warn("FIREBASE_CREDENTIALS_PATH not set, identity from X-User-Id header")
	}

	exec := executor.New(projStore, log)
	disp := dispatcher.New(cmdStore, exec, bus, log, dispatcher.Options{
		Workers:   cfg.Dispatcher.Workers,
		QueueSize: cfg.Dispatcher.QueueSize,
		Timeout:   cfg.Dispatcher.CommandTimeout,
	})
	disp.Start()
	defer disp.Stop()

	jan := janitor.New(cmdStore, bus, log, cfg.Dispatcher.CommandTimeout)
	if err := jan.Start(); err != nil {
		log.WithError(err).Fatal("failed to start janitor")
	}
	defer jan.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            log,
		DB:             pool,
		Redis:          rdb,
		AuthClient:     authClient,
		CommandHandler: cmdhttp.New(disp, cmdStore, bus, log),
		ProjectService: service.New(projStore),
		Bus:            bus,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
}
