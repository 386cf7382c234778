package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/adapter"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/agent"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/catalog"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/config"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/router"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/selector"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/workflow"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testServer(t *testing.T) *Server {
	t.Helper()

	source := selector.NewStaticSource(map[string]catalog.Model{
		"mock/reasoner": {
			ID:          "mock/reasoner",
			Description: "reasoning model",
			Pricing:     catalog.Pricing{Prompt: 0.001, Completion: 0.001},
			Architecture: catalog.Architecture{
				InputModalities:  []string{"text"},
				OutputModalities: []string{"text"},
			},
		},
		"mock/plain": {
			ID:          "mock/plain",
			Description: "general text model",
			Pricing:     catalog.Pricing{Prompt: 0.0001, Completion: 0.0001},
			Architecture: catalog.Architecture{
				InputModalities:  []string{"text"},
				OutputModalities: []string{"text"},
			},
		},
	})
	sel := selector.New(source)
	resolver := workflow.NewResolver(workflow.DefaultRegistry(), sel)
	dispatcher := agent.NewDispatcher(map[string]adapter.Adapter{"mock": adapter.NewMockAdapter()}, "mock")

	return New(Deps{
		Router:   router.Default(),
		Runner:   agent.NewRunner(resolver, dispatcher),
		Selector: sel,
		Resolver: resolver,
	})
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRouteEndpoint(t *testing.T) {
	s := testServer(t)

	w := do(t, s, http.MethodGet, "/api/route?q=write+a+blog+post", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var decision struct {
		Persona    string  `json:"persona"`
		Score      int     `json:"score"`
		Confidence float64 `json:"confidence"`
	}
	decode(t, w, &decision)
	if decision.Persona != "writer" {
		t.Errorf("persona = %s", decision.Persona)
	}
	if decision.Score != 30 {
		t.Errorf("score = %d", decision.Score)
	}
}

func TestRouteEndpoint_NoMatch(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/route?q=hello+there", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Code     string `json:"code"`
		Fallback string `json:"fallback"`
	}
	decode(t, w, &resp)
	if resp.Code != CodeNoMatch {
		t.Errorf("code = %s", resp.Code)
	}
	if resp.Fallback != agent.DirectorPersona {
		t.Errorf("fallback = %s", resp.Fallback)
	}
}

func TestRouteEndpoint_MissingQuery(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/route", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var resp errorResponse
	decode(t, w, &resp)
	if resp.Code != CodeBadRequest {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestTestRouteEndpoint(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/route/test?q=exploit+the+blog", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Candidates []struct {
			Persona string `json:"persona"`
			Score   int    `json:"score"`
		} `json:"candidates"`
	}
	decode(t, w, &resp)
	if len(resp.Candidates) != 2 {
		t.Fatalf("candidates = %d", len(resp.Candidates))
	}
	if resp.Candidates[0].Persona != "security" {
		t.Errorf("first candidate = %s", resp.Candidates[0].Persona)
	}
}

func TestRulesEndpoint(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/rules", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Rules []struct {
			Persona  string   `json:"persona"`
			Keywords []string `json:"keywords"`
		} `json:"rules"`
	}
	decode(t, w, &resp)
	if len(resp.Rules) != 4 {
		t.Fatalf("rules = %d", len(resp.Rules))
	}
	if resp.Rules[0].Persona != "security" {
		t.Errorf("first rule = %s", resp.Rules[0].Persona)
	}
}

func TestSelectEndpoint(t *testing.T) {
	s := testServer(t)

	w := do(t, s, http.MethodGet, "/api/models/select?capability=text-generation", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var model catalog.Model
	decode(t, w, &model)
	if model.ID != "mock/plain" {
		t.Errorf("expected cheapest generator, got %s", model.ID)
	}
}

func TestSelectEndpoint_NoMatch(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/models/select?capability=real-time-search", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	var resp errorResponse
	decode(t, w, &resp)
	if resp.Code != CodeNoMatch {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestSelectEndpoint_BadParams(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name   string
		target string
	}{
		{"missing capability", "/api/models/select"},
		{"bad min_context", "/api/models/select?capability=text-generation&min_context=lots"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodGet, tt.target, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
		})
	}
}

func TestModelsEndpoint(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/models?capability=text-generation", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Models []catalog.Model `json:"models"`
	}
	decode(t, w, &resp)
	if len(resp.Models) != 2 {
		t.Fatalf("models = %d", len(resp.Models))
	}
	if resp.Models[0].ID != "mock/plain" {
		t.Errorf("cheapest should lead, got %s", resp.Models[0].ID)
	}
}

func TestQueryEndpoint_Routed(t *testing.T) {
	s := testServer(t)

	w := do(t, s, http.MethodPost, "/api/query", `{"message":"write a blog post about gardens"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp queryResponse
	decode(t, w, &resp)
	if resp.Agent != "writer" {
		t.Errorf("agent = %s", resp.Agent)
	}
	if !resp.Routed {
		t.Error("expected routed=true")
	}
	if resp.Model != "mock/plain" {
		t.Errorf("model = %s", resp.Model)
	}
	if !strings.Contains(resp.Content, "write a blog post about gardens") {
		t.Errorf("content missing query echo: %q", resp.Content)
	}
}

func TestQueryEndpoint_ForcedAgent(t *testing.T) {
	s := testServer(t)

	w := do(t, s, http.MethodPost, "/api/query", `{"message":"write a blog post","agent":"security"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp queryResponse
	decode(t, w, &resp)
	if resp.Agent != "security" {
		t.Errorf("forced agent ignored, got %s", resp.Agent)
	}
	if resp.Routed {
		t.Error("forced agent must not report routed=true")
	}
}

func TestQueryEndpoint_DirectorFallback(t *testing.T) {
	s := testServer(t)

	// "hello there" matches no rule; the director (advisor) persona needs
	// real-time-search, which the static table lacks. That is a no-match
	// outcome, not a provider failure.
	w := do(t, s, http.MethodPost, "/api/query", `{"message":"hello there"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp errorResponse
	decode(t, w, &resp)
	if resp.Code != CodeNoMatch {
		t.Errorf("code = %s, want %s", resp.Code, CodeNoMatch)
	}
	if !strings.Contains(resp.Message, "advisor") {
		t.Errorf("expected director persona in error, got %q", resp.Message)
	}
}

func TestQueryEndpoint_UnknownForcedAgent(t *testing.T) {
	s := testServer(t)

	w := do(t, s, http.MethodPost, "/api/query", `{"message":"anything","agent":"plumber"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp errorResponse
	decode(t, w, &resp)
	if resp.Code != CodeBadRequest {
		t.Errorf("code = %s, want %s", resp.Code, CodeBadRequest)
	}
	if !strings.Contains(resp.Message, "plumber") {
		t.Errorf("expected agent name in error, got %q", resp.Message)
	}
}

func TestQueryEndpoint_BadBody(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"not json", `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/query", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
			var resp errorResponse
			decode(t, w, &resp)
			if resp.Code != CodeBadRequest {
				t.Errorf("code = %s", resp.Code)
			}
		})
	}
}

func TestCompareEndpoint(t *testing.T) {
	s := testServer(t)

	w := do(t, s, http.MethodPost, "/api/compare", `{"agent":"writer","phase":"review","message":"critique this"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Primary   struct{ Model string } `json:"primary"`
		Secondary struct{ Model string } `json:"secondary"`
	}
	decode(t, w, &resp)
	if resp.Primary.Model != "mock/reasoner" {
		t.Errorf("primary = %s", resp.Primary.Model)
	}
	if resp.Secondary.Model != "mock/plain" {
		t.Errorf("secondary = %s", resp.Secondary.Model)
	}
}

func TestCompareEndpoint_UnknownAgent(t *testing.T) {
	s := testServer(t)

	w := do(t, s, http.MethodPost, "/api/compare", `{"agent":"plumber","phase":"review","message":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp errorResponse
	decode(t, w, &resp)
	if resp.Code != CodeBadRequest {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestCompareEndpoint_ConfigError(t *testing.T) {
	s := testServer(t)

	// writer/draft has no secondary model configured.
	w := do(t, s, http.MethodPost, "/api/compare", `{"agent":"writer","phase":"draft","message":"x"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp errorResponse
	decode(t, w, &resp)
	if resp.Code != CodeConfiguration {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestPhasesEndpoint(t *testing.T) {
	s := testServer(t)

	w := do(t, s, http.MethodGet, "/api/phases/writer", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Skill  string `json:"skill"`
		Phases []struct {
			Name string `json:"name"`
		} `json:"phases"`
	}
	decode(t, w, &resp)
	if resp.Skill != "writer" {
		t.Errorf("skill = %s", resp.Skill)
	}
	if len(resp.Phases) != 2 {
		t.Fatalf("phases = %d", len(resp.Phases))
	}
	if resp.Phases[0].Name != "draft" || resp.Phases[1].Name != "review" {
		t.Errorf("phase order wrong: %+v", resp.Phases)
	}

	w = do(t, s, http.MethodGet, "/api/phases/carpentry", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown skill status = %d", w.Code)
	}
}

func TestCacheEndpoints_StaticFallback(t *testing.T) {
	s := testServer(t)

	w := do(t, s, http.MethodGet, "/api/cache", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Mode string `json:"mode"`
	}
	decode(t, w, &resp)
	if resp.Mode != "static-fallback" {
		t.Errorf("mode = %s", resp.Mode)
	}

	w = do(t, s, http.MethodDelete, "/api/cache", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"config", &config.ConfigError{Reason: "x"}, http.StatusInternalServerError, CodeConfiguration},
		{"no capable model", fmt.Errorf("agent %q: %w", "advisor", agent.ErrNoCapableModel), http.StatusNotFound, CodeNoMatch},
		{"discovery", &catalog.DiscoveryError{Endpoint: "/models", Status: 503}, http.StatusBadGateway, CodeDiscovery},
		{"generation", &adapter.GenerationError{Provider: "mock", Status: 500}, http.StatusBadGateway, CodeGeneration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			s.respondError(c, tt.err)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			var resp errorResponse
			decode(t, w, &resp)
			if resp.Code != tt.code {
				t.Errorf("code = %s, want %s", resp.Code, tt.code)
			}
		})
	}
}
