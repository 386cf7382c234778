package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/adapter"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/agent"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/selector"
)

type queryRequest struct {
	Message string `json:"message" binding:"required"`
	Agent   string `json:"agent,omitempty"`
	Phase   string `json:"phase,omitempty"`
}

type queryResponse struct {
	Agent      string  `json:"agent"`
	Routed     bool    `json:"routed"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
	Model      string  `json:"model"`
	Content    string  `json:"content"`
	CostUSD    float64 `json:"cost_usd,omitempty"`
}

// handleQuery routes the message to a persona (unless one is forced),
// selects a model and returns the generated text. An unrouted message
// falls through to the director persona.
func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: CodeBadRequest, Message: err.Error()})
		return
	}

	persona := req.Agent
	var confidence float64
	var reason string
	routed := false

	if persona != "" {
		if _, ok := s.deps.Runner.Agent(persona); !ok {
			c.JSON(http.StatusBadRequest, errorResponse{Code: CodeBadRequest, Message: "unknown agent " + persona})
			return
		}
	}

	if persona == "" {
		if decision := s.deps.Router.Route(req.Message); decision != nil {
			persona = decision.Persona
			confidence = decision.Confidence
			reason = decision.Reason
			routed = true
		} else {
			persona = agent.DirectorPersona
		}
	}

	result, err := s.deps.Runner.Execute(c.Request.Context(), persona, req.Phase, req.Message)
	if err != nil {
		s.respondError(c, err)
		return
	}

	out := queryResponse{
		Agent:      result.Agent,
		Routed:     routed,
		Confidence: confidence,
		Reason:     reason,
		Model:      result.Model.ID,
		Content:    result.Response.Artifact.Content,
	}
	if result.Response.Usage != nil {
		out.CostUSD = adapter.EstimateCost(*result.Response.Usage,
			result.Model.Pricing.Prompt, result.Model.Pricing.Completion).Amount
	}
	c.JSON(http.StatusOK, out)
}

type compareRequest struct {
	Agent   string `json:"agent" binding:"required"`
	Phase   string `json:"phase" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// handleCompare runs a phase's two-model comparison and returns both
// outputs paired. Criteria evaluation is the client's job.
func (s *Server) handleCompare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: CodeBadRequest, Message: err.Error()})
		return
	}
	if _, ok := s.deps.Runner.Agent(req.Agent); !ok {
		c.JSON(http.StatusBadRequest, errorResponse{Code: CodeBadRequest, Message: "unknown agent " + req.Agent})
		return
	}

	comparison, err := s.deps.Runner.Compare(c.Request.Context(), req.Agent, req.Phase, req.Message)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"primary": gin.H{
			"model":   comparison.Primary.Model.ID,
			"content": comparison.Primary.Response.Artifact.Content,
		},
		"secondary": gin.H{
			"model":   comparison.Secondary.Model.ID,
			"content": comparison.Secondary.Response.Artifact.Content,
		},
	})
}

// handleRoute returns the routing decision for a query without executing it.
func (s *Server) handleRoute(c *gin.Context) {
	text := c.Query("q")
	if text == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Code: CodeBadRequest, Message: "missing q parameter"})
		return
	}

	decision := s.deps.Router.Route(text)
	if decision == nil {
		c.JSON(http.StatusOK, gin.H{"code": CodeNoMatch, "fallback": agent.DirectorPersona})
		return
	}
	c.JSON(http.StatusOK, decision)
}

// handleTestRoute returns every persona's score for a query.
func (s *Server) handleTestRoute(c *gin.Context) {
	text := c.Query("q")
	if text == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Code: CodeBadRequest, Message: "missing q parameter"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": s.deps.Router.TestRoute(text)})
}

// handleRules exposes the routing rule table.
func (s *Server) handleRules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rules": s.deps.Router.Rules()})
}

// handleModels lists every model satisfying the given requirement.
func (s *Server) handleModels(c *gin.Context) {
	req, ok := s.requirementFromQuery(c)
	if !ok {
		return
	}

	models, err := s.deps.Selector.FindModelComparison(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": models})
}

// handleSelect returns the single cheapest model for the requirement.
func (s *Server) handleSelect(c *gin.Context) {
	req, ok := s.requirementFromQuery(c)
	if !ok {
		return
	}

	model, err := s.deps.Selector.FindModel(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if model == nil {
		c.JSON(http.StatusNotFound, errorResponse{Code: CodeNoMatch, Message: "no model satisfies the requirement"})
		return
	}
	c.JSON(http.StatusOK, model)
}

// handlePhases lists a skill's workflow phases.
func (s *Server) handlePhases(c *gin.Context) {
	skill := c.Param("skill")
	phases := s.deps.Resolver.Registry().Phases(skill)
	if len(phases) == 0 {
		c.JSON(http.StatusNotFound, errorResponse{Code: CodeNoMatch, Message: "unknown skill " + skill})
		return
	}
	c.JSON(http.StatusOK, gin.H{"skill": skill, "phases": phases})
}

// handleCacheInfo reports catalog cache age and size.
func (s *Server) handleCacheInfo(c *gin.Context) {
	if s.deps.Catalog == nil {
		c.JSON(http.StatusOK, gin.H{"mode": "static-fallback"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"age_seconds": s.deps.Catalog.CacheAge().Seconds(),
		"size":        s.deps.Catalog.CacheSize(),
	})
}

// handleCacheClear forces the next selection to refetch the catalog.
func (s *Server) handleCacheClear(c *gin.Context) {
	if s.deps.Catalog != nil {
		s.deps.Catalog.ClearCache()
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) requirementFromQuery(c *gin.Context) (selector.Requirement, bool) {
	capability := c.Query("capability")
	if capability == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Code: CodeBadRequest, Message: "missing capability parameter"})
		return selector.Requirement{}, false
	}

	req := selector.Requirement{
		Capability:        capability,
		PreferredProvider: c.Query("provider"),
	}
	if raw := c.Query("min_context"); raw != "" {
		minContext, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Code: CodeBadRequest, Message: "invalid min_context"})
			return selector.Requirement{}, false
		}
		req.MinContextLength = minContext
	}
	return req, true
}
