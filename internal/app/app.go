package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-leaderboard/internal/config"
	"github.com/vancomm/minesweeper-leaderboard/internal/database"
	"github.com/vancomm/minesweeper-leaderboard/internal/handlers"
	"github.com/vancomm/minesweeper-leaderboard/internal/repository"
)

type Repository interface {
	handlers.PlayerRepository
	handlers.GameRepository
	handlers.LeaderboardRepository
}

type App struct {
	log     logrus.FieldLogger
	cfg     *config.App
	repo    Repository
	jwt     *config.JWT
	cookies *config.Cookies
	ws      *config.WebSocket

	BcryptCost      int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

func New(
	log logrus.FieldLogger,
	cfg *config.App,
	repo Repository,
	jwt *config.JWT,
	cookies *config.Cookies,
	ws *config.WebSocket,
) *App {
	return &App{
		log:             log,
		cfg:             cfg,
		repo:            repo,
		jwt:             jwt,
		cookies:         cookies,
		ws:              ws,
		BcryptCost:      bcrypt.DefaultCost,
		ShutdownTimeout: 15 * time.Second,
	}
}

// FromEnv reads every config section, migrates the database and returns an
// App backed by it. The returned func releases the pool.
func FromEnv(ctx context.Context, log logrus.FieldLogger) (*App, func(), error) {
	cfg, err := config.NewApp()
	if err != nil {
		return nil, nil, fmt.Errorf("app config: %w", err)
	}
	jwt, err := config.NewJWT()
	if err != nil {
		return nil, nil, fmt.Errorf("jwt config: %w", err)
	}
	cookies, err := config.NewCookies()
	if err != nil {
		return nil, nil, fmt.Errorf("cookies config: %w", err)
	}
	ws, err := config.NewWebSocket()
	if err != nil {
		return nil, nil, fmt.Errorf("websocket config: %w", err)
	}

	pool, migrator, err := database.ConnectAndMigrate(ctx)
	if err != nil {
		return nil, nil, err
	}
	if version, dirty, err := migrator.Version(); err == nil {
		log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("database migrated")
	}
	migrator.Close()

	a := New(log, cfg, repository.New(pool), jwt, cookies, ws)
	return a, pool.Close, nil
}

// Serve listens on the configured address until ctx is done, then shuts the
// server down gracefully.
func (a *App) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Infof("ready to serve @ %s", a.cfg.Addr)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
