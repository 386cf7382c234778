package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/adapter"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/agent"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/catalog"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/config"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/router"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/selector"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/workflow"
)

// Stable error codes returned to clients. The core's error kinds map onto
// these one-to-one.
const (
	CodeConfiguration = "configuration_error"
	CodeDiscovery     = "discovery_error"
	CodeGeneration    = "generation_error"
	CodeNoMatch       = "no_match"
	CodeBadRequest    = "bad_request"
)

// Deps are the components the server serves. All are constructed before
// the server; the server owns none of them.
type Deps struct {
	Logger   *zap.SugaredLogger
	Router   *router.Router
	Runner   *agent.Runner
	Selector *selector.Selector
	Resolver *workflow.Resolver
	Catalog  *catalog.Client // nil in single-provider fallback mode
}

// Server is the HTTP boundary around the routing and selection core.
type Server struct {
	engine *gin.Engine
	log    *zap.SugaredLogger
	deps   Deps
}

// New creates the HTTP server and registers its routes.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		log:    deps.Logger,
		deps:   deps,
	}

	engine.Use(s.requestLogger())

	engine.GET("/healthz", s.handleHealth)

	api := engine.Group("/api")
	{
		api.POST("/query", s.handleQuery)
		api.POST("/compare", s.handleCompare)
		api.GET("/route", s.handleRoute)
		api.GET("/route/test", s.handleTestRoute)
		api.GET("/rules", s.handleRules)
		api.GET("/models", s.handleModels)
		api.GET("/models/select", s.handleSelect)
		api.GET("/phases/:skill", s.handlePhases)
		api.GET("/cache", s.handleCacheInfo)
		api.DELETE("/cache", s.handleCacheClear)
	}

	return s
}

// Run starts the server on the given address, blocking until it exits.
func (s *Server) Run(addr string) error {
	s.log.Infow("server starting", "addr", addr)
	return s.engine.Run(addr)
}

// Handler exposes the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		s.log.Infow("request",
			"id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps core error kinds to stable codes. Nothing is swallowed:
// the underlying message always reaches the client.
func (s *Server) respondError(c *gin.Context, err error) {
	var (
		cfgErr  *config.ConfigError
		discErr *catalog.DiscoveryError
		genErr  *adapter.GenerationError
	)

	switch {
	case errors.Is(err, agent.ErrNoCapableModel):
		c.JSON(http.StatusNotFound, errorResponse{Code: CodeNoMatch, Message: err.Error()})
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusInternalServerError, errorResponse{Code: CodeConfiguration, Message: err.Error()})
	case errors.As(err, &discErr):
		c.JSON(http.StatusBadGateway, errorResponse{Code: CodeDiscovery, Message: err.Error()})
	case errors.As(err, &genErr):
		c.JSON(http.StatusBadGateway, errorResponse{Code: CodeGeneration, Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Code: CodeGeneration, Message: err.Error()})
	}
}
