package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pothole-service/internal/ws"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, hub *ws.Hub, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Browsers cannot set an Authorization header on a WebSocket dial, so the
	// live feed stays outside the bearer-auth group. It only carries data the
	// list endpoints already expose.
	router.GET("/api/v1/ws/reports", func(c *gin.Context) {
		ws.ServeWS(hub, c.Writer, c.Request)
	})

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.POST("/potholes/analyze", handler.analyzeReport)
		protected.GET("/potholes", handler.listReports)
		protected.GET("/potholes/:id", handler.getReport)
		protected.POST("/potholes/:id/action", handler.applyReportAction)
		protected.POST("/potholes/:id/notify", handler.notifyAuthorities)
		protected.POST("/potholes/:id/assign-drone", handler.assignDrone)
		protected.GET("/potholes/:id/workorder", handler.workOrderPDF)

		protected.GET("/users/:id/reports", handler.listUserReports)
		protected.GET("/notifications", handler.listNotifications)
	}

	return router
}
