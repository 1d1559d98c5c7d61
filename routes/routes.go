package routes

import (
	"log"
	"net/http"
	"strings"

	"mafiaparty/handlers"
	"mafiaparty/middleware"
	"mafiaparty/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	roomHandler *handlers.RoomHandler,
	hub *services.Hub,
	roomService *services.RoomService,
	jwtSecret string,
) {
	api := router.Group("/api")
	{
		// Public room routes
		rooms := api.Group("/rooms")
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.GET("/:code", roomHandler.GetRoom)
			rooms.GET("/:code/config", roomHandler.SuggestConfig)
			rooms.POST("/:code/join", roomHandler.JoinRoom)
			rooms.POST("/:code/actions", roomHandler.SubmitNightAction)
			rooms.POST("/:code/vote", roomHandler.SubmitVote)
			rooms.GET("/:code/investigate", roomHandler.Investigate)
		}

		// Host-only room control
		host := api.Group("/rooms")
		host.Use(middleware.HostAuth(jwtSecret))
		{
			host.POST("/:code/start", roomHandler.StartGame)
			host.POST("/:code/advance", roomHandler.AdvancePhase)
			host.POST("/:code/reset", roomHandler.ResetRoom)
		}

		// Join-token resolution (from scanned QR links)
		api.GET("/join", roomHandler.ResolveJoinToken)
	}

	// WebSocket endpoint for real-time room updates. Player devices pass
	// their stable player id; the host display passes "host".
	router.GET("/ws/:code/:playerID", func(c *gin.Context) {
		code := strings.ToLower(c.Param("code"))
		playerID := c.Param("playerID")

		// Reject connections for rooms that do not exist.
		if _, err := roomService.GetRoom(c.Request.Context(), code); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for room %s, player %s: %v", code, playerID, err)
			return
		}

		client := hub.RegisterClient(conn, code, playerID)
		hub.SendRoomSync(client)
		log.Printf("WebSocket connection established for room %s, player %s. Connected: %v", code, playerID, hub.ConnectedPlayers(code))
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
