package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	routerNoAuth = append(routerNoAuth, healthRouter())
}

func healthRouter() RouterNoAuth {
	return func(g *gin.RouterGroup, api *ReviewAPI) {
		g.GET("/healthz", api.Healthz())
		g.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

func (api *ReviewAPI) Healthz() GinHandler {
	return func(c *gin.Context) {
		if err := api.ReviewService.MongodbClient.Ping(c.Request.Context(), nil); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
