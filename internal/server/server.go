package server

import (
	"errors"

	"github.com/stefiix92/unbreakable24/internal/auth"
	"github.com/stefiix92/unbreakable24/internal/config"
	"github.com/stefiix92/unbreakable24/internal/stream"
	"github.com/stefiix92/unbreakable24/internal/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	Store   tracking.Store
	Redis   *redis.Client
	Stream  *stream.Hub
	Ledger  *tracking.Ledger
	Tracker *tracking.Tracker
}

// NewServer wires the tracking routes. A nil pool selects the in-memory
// store.
func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	var store tracking.Store = tracking.NewMemoryStore()
	if db != nil {
		store = tracking.NewPostgresStore(db)
	}
	return newServer(cfg, store, redisClient)
}

func newServer(cfg config.Config, store tracking.Store, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, " + auth.HeaderAPIKey,
	}))

	hub := stream.NewHub(redisClient)
	ledger := tracking.NewLedger(store)
	s := &Server{
		App:     app,
		Cfg:     cfg,
		Store:   store,
		Redis:   redisClient,
		Stream:  hub,
		Ledger:  ledger,
		Tracker: tracking.NewTracker(store, ledger, hub),
	}
	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	apiKey := auth.APIKeyMiddleware(s.Cfg.APIKey)
	tracking.RegisterRoutes(s.App, s.Tracker, s.Ledger, apiKey)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, tracking.LocationTopic)
}

// errorHandler renders every error as {"message": ...}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"message": message})
}
