package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"rpssl/internal/cache"
	"rpssl/internal/config"
	"rpssl/internal/service"
	"rpssl/internal/transport/rest"
	"rpssl/internal/transport/ws"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// App holds the wired dependencies of the game server
type App struct {
	Store   cache.SessionStore
	Games   *service.GameService
	Choices *service.ChoiceService
	Play    *service.PlayService
	Hub     *ws.Hub
	Handler http.Handler

	closers []func() error
}

// New connects the session store and builds the services and router
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Store = store

	var random service.RandomSource = service.LocalRandom{}
	if cfg.RandomServiceURL != "" {
		random = service.NewRandomClient(cfg.RandomServiceURL, cfg.RandomServiceTimeout)
		log.Printf("Using random number service at %s", cfg.RandomServiceURL)
	}

	a.Games = service.NewGameService(store, cache.TTLPolicy{
		Sliding:  cfg.SessionSlidingTTL,
		Absolute: cfg.SessionAbsoluteTTL,
	})
	a.Choices = service.NewChoiceService(random)
	a.Play = service.NewPlayService(a.Choices)

	a.Hub = ws.NewHub()
	log.Println("WebSocket hub started")

	a.Handler = rest.NewRouter(&rest.Container{
		Sessions: a.Games,
		Rounds:   a.Play,
		Choices:  a.Choices,
		Gateway:  ws.NewGateway(a.Hub, a.Games),
		CORS:     cfg.CORS,
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (cache.SessionStore, error) {
	if cfg.SessionStore == config.StoreMemory {
		log.Println("Warning: using in-memory session store, sessions are not shared between instances")
		return cache.NewMemorySessionCache(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", cfg.RedisAddr(), err)
	}
	log.Println("Connected to Redis")

	a.closers = append(a.closers, rdb.Close)
	return cache.NewSessionCache(rdb), nil
}

// Close releases the store connection
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
