package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbeisheim/draughts-backend/internal/config"
	"github.com/benbeisheim/draughts-backend/internal/controller"
	"github.com/benbeisheim/draughts-backend/internal/middleware"
	"github.com/benbeisheim/draughts-backend/internal/selection"
	"github.com/benbeisheim/draughts-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.Log.Development)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	selector, err := selection.Build(cfg, logger.Named("selection"))
	if err != nil {
		logger.Fatal("build agents", zap.Error(err))
	}

	// Initialize services
	gameManager := service.NewGameManager(selector, service.ManagerOptions{
		DefaultAgent:  cfg.Agents[0].Name,
		AutoplayDelay: cfg.Selection.AutoplayDelay,
	}, logger.Named("games"))
	gameService := service.NewGameService(gameManager)
	engineService := service.NewEngineService(selector, logger.Named("engine"))

	app := fiber.New(fiber.Config{DisableStartupMessage: !cfg.Log.Development})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger.Named("http")))
	app.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	controller.Register(app, controller.Controllers{
		Game:      controller.NewGameController(gameService),
		Engine:    controller.NewEngineController(engineService, logger.Named("engine")),
		WebSocket: controller.NewWebSocketController(gameService, logger.Named("ws")),
		WSOrigins: cfg.AllowOrigins,
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		gameManager.Shutdown()
		if err := app.Shutdown(); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.Addr), zap.Strings("agents", selector.Agents()))
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// corsConfig allows credentials only for an explicit origin list; fiber
// refuses credentials together with a wildcard origin.
func corsConfig(origins []string) cors.Config {
	wildcard := slices.Contains(origins, "*")
	allow := strings.Join(origins, ", ")
	if wildcard {
		allow = "*"
	}
	return cors.Config{
		AllowOrigins:     allow,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: !wildcard,
	}
}
