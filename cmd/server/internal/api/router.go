package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gobwas/ws"
	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/feed"
)

// NewRouter wires the REST endpoints and the websocket upgrade. The
// upgrade hijacks the connection, so after a successful Join gin must
// not touch the response again.
func NewRouter(handlers *Handlers, mgr *feed.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), CORSMiddleware())

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/tokens", handlers.ListTokens)
		apiGroup.GET("/orderbook/:symbol", handlers.OrderBook)
		apiGroup.GET("/chart/:symbol", handlers.Chart)
	}

	r.GET("/ws", func(c *gin.Context) {
		conn, _, _, err := ws.UpgradeHTTP(c.Request, c.Writer)
		if err != nil {
			logger.Warn("Websocket upgrade failed", zap.Error(err))
			return
		}
		mgr.Join(conn)
	})

	return r
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
