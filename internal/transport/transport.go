package transport

import (
	"net/http"
	"time"

	"github.com/ds124wfegd/flux-ideal-size/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether an external dependency is reachable.
type HealthChecker interface {
	HealthCheck() error
}

func InitRoutes(nodeHandler *NodeHandler, imageHandler *ImageHandler, broker HealthChecker, requestTimeout time.Duration) *gin.Engine {

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(requestTimeout))

	api := router.Group("/api/v1")
	{
		nodes := api.Group("/nodes")
		{
			nodes.GET("", nodeHandler.ListNodes)
			nodes.GET("/:type", nodeHandler.GetNode)
			nodes.POST("/:type/invoke", nodeHandler.Invoke)
		}

		invocations := api.Group("/invocations")
		{
			invocations.GET("", nodeHandler.ListInvocations)
			invocations.GET("/:id", nodeHandler.GetInvocation)
		}

		api.POST("/images/fit", imageHandler.FitImage)
	}

	router.GET("/health", func(c *gin.Context) {
		if err := broker.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "degraded",
				"service": "flux-ideal-size",
				"broker":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "flux-ideal-size",
			"broker":  "ok",
		})
	})
	return router
}
