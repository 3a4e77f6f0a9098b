package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"

	"github.com/deepcore-chess/deepcore-backend/internal/controller"
	"github.com/deepcore-chess/deepcore-backend/internal/engine"
	"github.com/deepcore-chess/deepcore-backend/internal/middleware"
	"github.com/deepcore-chess/deepcore-backend/internal/service"
	"github.com/deepcore-chess/deepcore-backend/internal/storage"
)

func main() {
	addr := flag.String("addr", ":3000", "listen address")
	dataDir := flag.String("data-dir", "", "storage directory (default: platform data dir)")
	origins := flag.String("origins", "http://localhost:5173", "allowed CORS origins")
	flag.Parse()

	dir := *dataDir
	if dir == "" {
		var err error
		dir, err = storage.DefaultDataDir()
		if err != nil {
			log.Fatalf("resolve data dir: %v", err)
		}
	}

	store, err := storage.Open(dir)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.Close()

	eng := engine.New(time.Now().UnixNano())
	if prefs, err := store.LoadPreferences(); err == nil && len(prefs.Engine) > 0 {
		if err := eng.Configure(prefs.Engine); err != nil {
			log.Printf("stored engine config rejected: %v", err)
		}
	}

	gameManager := service.NewGameManager(store, eng)
	gameService := service.NewGameService(gameManager, store, eng)

	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     *origins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, PUT, OPTIONS",
		AllowCredentials: true,
	}))

	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(func(c *websocket.Conn) {
		wsController.HandleConnection(c)
	}, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Get("/matchmaking/events", gameController.MatchmakingEvents)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/import", gameController.ImportGame)
	gameRoutes.Get("/saved", gameController.ListSavedGames)
	gameRoutes.Post("/saved/:recordId/load", gameController.LoadSavedGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Post("/:gameId/undo", gameController.UndoMove)
	gameRoutes.Post("/:gameId/engine-move", gameController.EngineMove)
	gameRoutes.Get("/:gameId/export", gameController.ExportGame)

	engineRoutes := api.Group("/engine")
	engineRoutes.Get("/config", gameController.GetEngineConfig)
	engineRoutes.Put("/config", gameController.SetEngineConfig)

	prefRoutes := api.Group("/preferences")
	prefRoutes.Get("/", gameController.GetPreferences)
	prefRoutes.Put("/", gameController.SetPreferences)

	if err := app.Listen(*addr); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
