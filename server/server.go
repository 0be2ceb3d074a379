package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"air_process_calc/logger"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
}

func NewServer() *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors())

	// リクエストのログ
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		logger.Info("[%s] %s %d %s %v", c.Request.Method, path, c.Writer.Status(), c.ClientIP(), latency)
	})

	s := &Server{router: router}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.POST("/air-state", deriveAirState)
	s.router.POST("/recompute", recomputeUnit)
	s.router.POST("/convert", convert)
	s.router.POST("/convert/steam-pressure", convertSteamPressure)
	s.router.GET("/convert/steam-units", listSteamUnits)

	chains := s.router.Group("/chains")
	{
		chains.POST("/recompute", recomputeChain)
		chains.POST("/events", applyEvent)
	}
}

// Handler はルーティング済みのハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting on %s", addr)
	return s.srv.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// クロスオリジンのリクエストを許可する
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept")
		c.Writer.Header().Set("Access-Control-Max-Age", "3600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
