package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviato-app/aviato-match/internal/application/command"
	"github.com/aviato-app/aviato-match/internal/application/query"
	"github.com/aviato-app/aviato-match/internal/infrastructure/persistence/memory"
	"github.com/aviato-app/aviato-match/pkg/logger"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *APIError       `json:"error"`
	RequestID string          `json:"request_id"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	users := memory.NewSeededUserRepository()
	selections := memory.NewSelectionStore()
	log := logger.Nop()

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	return NewServer(cfg, Dependencies{
		GetMatchesHandler:      query.NewGetMatchesHandler(users, selections, nil, log),
		GetAvailabilityHandler: query.NewGetAvailabilityHandler(users),
		ListInterestsHandler:   query.NewListInterestsHandler(selections),
		Picker:                 command.NewPickerService(selections, log),
		Logger:                 log,
	})
}

func do(t *testing.T, s *Server, method, path, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	code, env := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
}

func TestServer_RequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestServer_PickerFlowChangesMatchMode(t *testing.T) {
	s := newTestServer(t)
	base := "/api/v1/users/" + memory.SeedID("alex").String()

	code, env := do(t, s, http.MethodGet, base+"/matches", "")
	require.Equal(t, http.StatusOK, code)
	var before query.MatchListResult
	require.NoError(t, json.Unmarshal(env.Data, &before))
	assert.Equal(t, "browse", string(before.Mode))
	assert.Len(t, before.Cards, 7)

	code, _ = do(t, s, http.MethodPost, base+"/picker/open", "")
	require.Equal(t, http.StatusOK, code)

	for _, tag := range []string{"Hiking", "Coffee", "Travel", "Music", "Photography"} {
		code, env = do(t, s, http.MethodPost, base+"/picker/toggle", `{"interest":"`+tag+`"}`)
		require.Equal(t, http.StatusOK, code, tag)
	}

	// Edits are not visible until applied.
	_, env = do(t, s, http.MethodGet, base+"/matches", "")
	var during query.MatchListResult
	require.NoError(t, json.Unmarshal(env.Data, &during))
	assert.Equal(t, "browse", string(during.Mode))

	code, env = do(t, s, http.MethodPost, base+"/picker/apply", "")
	require.Equal(t, http.StatusOK, code)
	var view command.PickerView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "committed", string(view.Outcome))

	_, env = do(t, s, http.MethodGet, base+"/matches", "")
	var after query.MatchListResult
	require.NoError(t, json.Unmarshal(env.Data, &after))
	assert.Equal(t, "match", string(after.Mode))
	require.NotNil(t, after.Cards[0].MatchPercentage)
}

func TestServer_ErrorMapping(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/v1/users/missing/availability", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", env.Error.Code)

	code, env = do(t, s, http.MethodPost, "/api/v1/users/u1/picker/toggle", `{"interest":"Hiking"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)

	code, _ = do(t, s, http.MethodPost, "/api/v1/users/u1/picker/open", "")
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, s, http.MethodPost, "/api/v1/users/u1/picker/toggle", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_request", env.Error.Code)

	code, _ = do(t, s, http.MethodPost, "/api/v1/users/u1/picker/toggle", `{"interest":"Knitting"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, s, http.MethodPost, "/api/v1/users/u1/picker/cancel", "")
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, s, http.MethodPost, "/api/v1/users/u1/picker/clear", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict", env.Error.Code)
}

func TestServer_Interests(t *testing.T) {
	s := newTestServer(t)
	code, env := do(t, s, http.MethodGet, "/api/v1/users/u1/interests", "")
	require.Equal(t, http.StatusOK, code)

	var res query.InterestsResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 20, res.Capacity)
	assert.NotEmpty(t, res.Interests)
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestServer_MetricsEndpoint(t *testing.T) {
	users := memory.NewSeededUserRepository()
	selections := memory.NewSelectionStore()
	log := logger.Nop()

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	s := NewServer(cfg, Dependencies{
		GetMatchesHandler: query.NewGetMatchesHandler(users, selections, nil, log),
		Picker:            command.NewPickerService(selections, log),
		Logger:            log,
		Metrics:           NewMetrics(),
	})

	base := "/api/v1/users/" + memory.SeedID("alex").String()
	code, _ := do(t, s, http.MethodGet, base+"/matches", "")
	require.Equal(t, http.StatusOK, code)
	code, _ = do(t, s, http.MethodPost, base+"/picker/open", "")
	require.Equal(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `aviato_matching_lists_served_total{mode="browse"} 1`)
	assert.Contains(t, body, `aviato_picker_operations_total{operation="picker open",result="ok"} 1`)
	assert.Contains(t, body, `aviato_picker_sessions 1`)
	assert.Contains(t, body, `route="GET /api/v1/users/{id}/matches"`)
}
