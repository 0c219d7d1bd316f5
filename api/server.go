package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"skyfetch/render"
	"skyfetch/view"
	"skyfetch/weather"
)

// RequestIDHeader carries the per-request ID in both directions
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key holding the request ID
const requestIDKey = "requestID"

// Server represents the web server: HTML pages plus a JSON API
type Server struct {
	fetcher weather.Fetcher
	engine  *gin.Engine
	server  *http.Server
}

// NewServer creates a new server answering lookups with fetcher
func NewServer(fetcher weather.Fetcher, port int) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.SetHTMLTemplate(render.Templates())

	s := &Server{
		fetcher: fetcher,
		engine:  engine,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	// Pages: the query string and the form post are two ways to submit a search
	engine.GET("/", s.handleIndex)
	engine.POST("/search", s.handleSearch)

	// JSON API
	engine.GET("/api/weather", s.handleAPIWeather)
	engine.GET("/api/weather/:city", s.handleAPIWeather)

	// Health check
	engine.GET("/api/health", s.handleHealthCheck)

	return s
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start begins serving and blocks until the server stops
func (s *Server) Start() error {
	log.Printf("Starting server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight lookups
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// lookup runs one submission through a fresh presenter so concurrent
// requests never refuse each other
func (s *Server) lookup(c *gin.Context, raw string) view.View {
	v := view.NewPresenter(s.fetcher, nil).Submit(c.Request.Context(), raw)
	if v.State == view.Error {
		log.Printf("[%s] lookup for %q failed: %v", c.GetString(requestIDKey), raw, v.Err)
	}
	return v
}

// handleIndex renders the welcome page, or a lookup when ?city= is present
func (s *Server) handleIndex(c *gin.Context) {
	raw, submitted := c.GetQuery("city")
	if !submitted {
		c.HTML(http.StatusOK, "page", view.NewWelcome())
		return
	}

	v := s.lookup(c, raw)
	c.HTML(statusFor(v), "page", v)
}

// handleSearch handles the search form post
func (s *Server) handleSearch(c *gin.Context) {
	v := s.lookup(c, c.PostForm("city"))
	c.HTML(statusFor(v), "page", v)
}

// handleAPIWeather returns the report for a city as JSON
func (s *Server) handleAPIWeather(c *gin.Context) {
	raw := c.Param("city")
	if raw == "" {
		raw = c.Query("city")
	}

	v := s.lookup(c, raw)
	if v.State != view.Result {
		c.JSON(statusFor(v), gin.H{
			"error": v.Message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"city":      v.City,
		"current":   v.Report.Current,
		"forecast":  v.Report.Forecast,
		"timestamp": time.Now(),
	})
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// statusFor maps a final view to an HTTP status
func statusFor(v view.View) int {
	if v.State != view.Error {
		return http.StatusOK
	}
	switch {
	case errors.Is(v.Err, weather.ErrEmptyInput), errors.Is(v.Err, weather.ErrTooShort):
		return http.StatusBadRequest
	case errors.Is(v.Err, weather.ErrCityNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// requestLogger tags each request with an ID and logs it when done
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		log.Printf("[%s] %s %s -> %d (%s)",
			id, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
