package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stefiix92/unbreakable24/internal/config"
	"github.com/stefiix92/unbreakable24/internal/db"
	"github.com/stefiix92/unbreakable24/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	migrate         func(context.Context, db.Querier) error
	connectRedis    func(config.Config) *redis.Client
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, *pgxpool.Pool, *redis.Client, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		connectPostgres: db.ConnectPostgres,
		migrate:         db.Migrate,
		connectRedis:    db.ConnectRedis,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()
	if err := cfg.Validate(); err != nil {
		log.Printf("invalid configuration: %v", err)
		return
	}

	var pg *pgxpool.Pool
	if cfg.StoreDriver == config.DriverPostgres {
		var err error
		pg, err = deps.connectPostgres(cfg)
		if err != nil {
			log.Printf("postgres connection failed: %v", err)
			return
		}
		if err := deps.migrate(context.Background(), pg); err != nil {
			log.Printf("postgres migration failed: %v", err)
			pg.Close()
			return
		}
	} else {
		log.Printf("using in-memory store; data is lost on restart")
	}

	rdb := deps.connectRedis(cfg)

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, pg, rdb, signals, nil); err != nil {
		log.Printf("server exited with error: %v", err)
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, pg *pgxpool.Pool, rdb *redis.Client, signals <-chan os.Signal, listen ListenFunc) error {
	srv := server.NewServer(cfg, pg, rdb)
	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}

	srv.Stream.Close()
	if pg != nil {
		pg.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	return nil
}
