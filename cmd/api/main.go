package main

import (
	"encoding/json"
	"log"
	"os"

	"botcontrol/internal/handlers"
	"botcontrol/internal/models"
	"botcontrol/internal/routes"
	"botcontrol/internal/strategy"
	"botcontrol/internal/telemetry"
	"botcontrol/pkg/config"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present, real env wins
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	config.InitDB()

	// SQL migrations are opt-in, AutoMigrate covers the common case
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		config.ExecuteMigrations()
	}

	// Initialize RabbitMQ (optional, will log warning if not configured)
	if os.Getenv("RABBITMQ_HOST") != "" {
		config.InitRabbitMQ()
		defer func() {
			if config.RabbitMQ != nil {
				config.RabbitMQ.Close()
			}
		}()

		publisher, err := config.NewPublisher()
		if err != nil {
			log.Fatal("Create publisher failed:", err)
		}
		defer publisher.Close()
		handlers.Publisher = publisher

		log.Println("RabbitMQ initialized successfully")
	} else {
		log.Println("RabbitMQ not configured, skipping initialization")
	}

	// Websocket hub for config change subscribers
	handlers.Hub = telemetry.NewHub()

	// Bootstrap the active strategy config
	if err := bootstrapActiveConfig(); err != nil {
		log.Fatal("Failed to bootstrap strategy config:", err)
	}

	// Set up router
	r := routes.SetupRouter()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// bootstrapActiveConfig loads the initial active config. Priority: the
// YAML file named by STRATEGY_CONFIG_FILE, then the latest persisted
// revision, then built-in defaults.
func bootstrapActiveConfig() error {
	if path := os.Getenv("STRATEGY_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		doc, err := strategy.DocumentFromYAML(data)
		if err != nil {
			return err
		}
		cfg, unknown, err := strategy.Parse(doc)
		if err != nil {
			return err
		}
		if len(unknown) > 0 {
			log.Printf("Config file carries unknown keys, ignored: %v", unknown)
		}
		strategy.Activate(cfg)
		log.Printf("Active strategy config loaded from %s", path)
		return nil
	}

	var revision models.StrategyRevision
	if err := config.DB.Order("version desc").First(&revision).Error; err == nil {
		var doc strategy.Document
		if err := json.Unmarshal(revision.Document, &doc); err != nil {
			return err
		}
		cfg, _, err := strategy.Parse(doc)
		if err != nil {
			return err
		}
		strategy.Activate(cfg)
		log.Printf("Active strategy config restored from revision %d", revision.Version)
		return nil
	}

	cfg, _, err := strategy.Parse(strategy.DefaultDocument())
	if err != nil {
		return err
	}
	strategy.Activate(cfg)
	log.Println("Active strategy config initialized from defaults")
	return nil
}
