package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/skz_roster/internal/config"
	"github.com/Skotchmaster/skz_roster/internal/events"
	"github.com/Skotchmaster/skz_roster/internal/httpserver"
	"github.com/Skotchmaster/skz_roster/internal/middleware"
	"github.com/Skotchmaster/skz_roster/internal/repo"
	"github.com/Skotchmaster/skz_roster/internal/search"
	"github.com/Skotchmaster/skz_roster/internal/service"
	"github.com/Skotchmaster/skz_roster/pkg/db"
	"github.com/Skotchmaster/skz_roster/pkg/hash"
	"github.com/Skotchmaster/skz_roster/pkg/logging"
	loggingmw "github.com/Skotchmaster/skz_roster/pkg/middleware/logging"
	"github.com/Skotchmaster/skz_roster/pkg/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Service: cfg.ServiceName})
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db init error: %v", err)
	}
	store := &repo.GormRepo{DB: gdb}
	if err := store.Migrate(initCtx); err != nil {
		cancel()
		log.Fatalf("db migrate error: %v", err)
	}
	cancel()

	codec, err := tokens.NewCodec(cfg.Tokens())
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		defer kp.Close()
		publisher = kp
		logger.Info("kafka publisher enabled", "brokers", cfg.KafkaBrokers)
	}

	roster := &service.RosterService{Repo: store, Events: publisher}
	if cfg.ESURL != "" {
		idx, err := search.NewMemberIndex(search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := idx.Ping(pingCtx); err != nil {
			logger.Warn("elasticsearch unavailable, member search uses the database", "error", err)
		} else {
			roster.Index = idx
		}
		cancel()
	}

	hasher, err := hash.NewBcrypt(cfg.BcryptCost)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{Svc: &service.AccountService{
			Repo:   store,
			Hasher: hasher,
			Tokens: codec,
			Events: publisher,
		}},
		Users: &httpserver.UsersHTTP{Svc: &service.UserService{
			Repo:   store,
			Hasher: hasher,
			Events: publisher,
		}},
		Roster: &httpserver.RosterHTTP{Svc: roster},
		AuthMW: middleware.NewAuth(codec),
		Ready:  store.Ping,
	})

	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close", "error", err)
	}
}
