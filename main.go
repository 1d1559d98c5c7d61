package main

import (
	"log"

	"mafiaparty/config"
	"mafiaparty/handlers"
	"mafiaparty/middleware"
	"mafiaparty/models"
	"mafiaparty/routes"
	"mafiaparty/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Room{},
		&models.Player{},
		&models.GameResult{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	roomStore := services.NewRoomStore(redisClient, cfg.RoomTTL)
	roomService := services.NewRoomService(db, roomStore)

	// Initialize WebSocket hub
	hub := services.NewHub(roomService, roomStore)
	go hub.Run()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(roomService, cfg.JWTSecret, cfg.RoomTTL)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, roomHandler, hub, roomService, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
