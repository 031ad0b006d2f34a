package http

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"transaction_api/internal/auth"
	"transaction_api/internal/broker"
	"transaction_api/internal/domain"
	"transaction_api/internal/graph"
	"transaction_api/internal/http/handlers"
	"transaction_api/internal/logger"
	"transaction_api/internal/repository"
	"transaction_api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newRouter(t *testing.T, health map[string]handlers.Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Discard()
	repo := repository.NewTransactionRepository(repository.NewMemoryCollection(), nil, broker.NewRecorder(), log)
	schema := graph.NewSchema(graph.NewResolver(repo, auth.NewTransactionShield(repo, log), log))

	r := gin.New()
	RegisterRoutes(r, RouteConfig{
		Schema:     schema,
		SDL:        graph.SDL(),
		Tokens:     service.NewJWTService(secret),
		Health:     health,
		RateLimit:  100,
		RateWindow: time.Minute,
		Playground: true,
		Version:    "test",
	})
	return r
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := service.NewJWTService(secret).Generate(domain.Identity{UserID: "u1", CompanyID: "c1", Role: role}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func post(r nethttp.Handler, authHeader, query string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"query": query})
	req := httptest.NewRequest(nethttp.MethodPost, "/graphql", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func TestGraphQLEndpointUsesBearerIdentity(t *testing.T) {
	r := newRouter(t, nil)

	w := post(r, bearer(t, domain.RoleService), `{ transactions { totalCount items { id } } }`)
	require.Equal(t, nethttp.StatusOK, w.Code)

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"totalCount":0,"items":[]}`, string(resp.Data["transactions"]))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGraphQLEndpointAnonymousIsForbidden(t *testing.T) {
	r := newRouter(t, nil)

	w := post(r, "", `{ myTransactions { totalCount } }`)
	require.Equal(t, nethttp.StatusOK, w.Code)

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Not Authorised!", resp.Errors[0].Message)
	assert.Equal(t, "FORBIDDEN", resp.Errors[0].Extensions["code"])
}

func TestGraphQLEndpointRejectsBadToken(t *testing.T) {
	r := newRouter(t, nil)

	w := post(r, "Bearer garbage", `{ myTransactions { totalCount } }`)

	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)
}

func TestSchemaAndPlayground(t *testing.T) {
	r := newRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/graphql/schema", nil))
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `type Transaction @key(fields: "id")`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/graphql", nil))
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graphiql")
}

func TestReadinessReportsDependencies(t *testing.T) {
	r := newRouter(t, map[string]handlers.Pinger{
		"mongo": handlers.PingFunc(func(context.Context) error { return nil }),
		"redis": handlers.PingFunc(func(context.Context) error { return errors.New("refused") }),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/readyz", nil))
	assert.Equal(t, nethttp.StatusServiceUnavailable, w.Code)

	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Checks["mongo"])
	assert.Equal(t, "unhealthy: refused", resp.Checks["redis"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/healthz", nil))
	assert.Equal(t, nethttp.StatusOK, w.Code)
}
