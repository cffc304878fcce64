package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appauth "github.com/ledgerly/backend/internal/application/auth"
	appledger "github.com/ledgerly/backend/internal/application/ledger"
	"github.com/ledgerly/backend/internal/application/resource"
	"github.com/ledgerly/backend/internal/infrastructure/auth"
	"github.com/ledgerly/backend/internal/infrastructure/config"
	"github.com/ledgerly/backend/internal/infrastructure/persistence"
	"github.com/ledgerly/backend/internal/infrastructure/storage"
	"github.com/ledgerly/backend/internal/interfaces/http/middleware"
	"github.com/ledgerly/backend/internal/interfaces/http/router"
)

type testServer struct {
	engine  *gin.Engine
	tokens  *auth.JWTService
	db      *persistence.Database
	auth    *appauth.Service
	objects *storage.InMemoryObjectStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(persistence.Models()...))
	db := &persistence.Database{DB: gormDB}

	logger := zap.NewNop()
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-test-secret-test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	registry := persistence.NewRegistry(db)
	entities := appledger.NewEntityService(registry, logger)
	authService := appauth.NewService(persistence.NewGormUserRepository(db), tokens, blacklist, logger)
	objects := storage.NewInMemoryObjectStorage("https://objects.test")
	resources := resource.NewService(registry, objects, logger)

	authHandler := NewAuthHandler(authService)
	systemHandler := NewSystemHandler(db, "ledgerly", "test", "dev")
	engine := gin.New()
	systemHandler.RegisterHealth(engine)
	r := router.NewRouter(engine, middleware.JWTAuth(middleware.JWTConfig{
		Tokens:    tokens,
		Blacklist: blacklist,
		Logger:    logger,
	}))
	r.Public(router.RegistrarFunc(authHandler.RegisterPublicRoutes))
	r.Protected(
		NewActionHandler(entities),
		authHandler,
		NewResourceHandler(resources, entities),
		NewStatementHandler(),
		systemHandler,
	)
	r.Setup()

	return &testServer{engine: engine, tokens: tokens, db: db, auth: authService, objects: objects}
}

func (s *testServer) bearer(t *testing.T, email string) string {
	t.Helper()
	pair, err := s.tokens.GenerateTokenPair(email, "Test User")
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func (s *testServer) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestActionRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/api/action?type=records&action=get", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestActionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := srv.bearer(t, "alice@example.com")

	// add
	w := srv.do(http.MethodPost, "/api/action?type=categories&action=add&uniqProps=name",
		token, `{"name":"Groceries"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	// get: pagination envelope
	w = srv.do(http.MethodGet, "/api/action?type=categories&action=get", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items      []map[string]any `json:"items"`
		Pagination struct {
			Page       int   `json:"page"`
			PageSize   int   `json:"pageSize"`
			TotalItems int64 `json:"totalItems"`
			TotalPages int   `json:"totalPages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.PageSize)
	assert.Equal(t, int64(1), page.Pagination.TotalItems)
	assert.Equal(t, 1, page.Pagination.TotalPages)

	// update
	w = srv.do(http.MethodPost, "/api/action?type=categories&action=update&id="+id,
		token, `{"name":"Food"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Food", updated["name"])

	// delete
	w = srv.do(http.MethodPost, "/api/action?type=categories&action=delete&id="+id, token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	// gone
	w = srv.do(http.MethodPost, "/api/action?type=categories&action=delete&id="+id, token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActionAcceptsRESTVerbs(t *testing.T) {
	srv := newTestServer(t)
	token := srv.bearer(t, "alice@example.com")

	w := srv.do(http.MethodPost, "/api/action?type=categories&action=add&uniqProps=name",
		token, `{"name":"Transport"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	// Clients send PUT for updates and DELETE for deletes; the action
	// parameter stays authoritative either way.
	w = srv.do(http.MethodPut, "/api/action?type=categories&action=update&id="+id,
		token, `{"name":"Transit"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Transit", updated["name"])

	w = srv.do(http.MethodDelete, "/api/action?type=categories&action=delete&id="+id, token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestActionBatchIsTransactional(t *testing.T) {
	srv := newTestServer(t)
	token := srv.bearer(t, "alice@example.com")

	w := srv.do(http.MethodPost, "/api/action?type=records&action=addBatch&force=true",
		token, `[{"description":"coffee","amount":"4.99"},{"description":"lunch","amount":"12.50"}]`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var items []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "alice@example.com", item["userEmail"])
	}
}

func TestActionOwnershipIsolation(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.bearer(t, "alice@example.com")
	bob := srv.bearer(t, "bob@example.com")

	w := srv.do(http.MethodPost, "/api/action?type=records&action=add",
		alice, `{"id":"rec-alice-1","description":"private","amount":"1.00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = srv.do(http.MethodGet, "/api/action?type=records&action=get", bob, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Empty(t, page.Items)
}

func TestActionErrorTaxonomy(t *testing.T) {
	srv := newTestServer(t)
	token := srv.bearer(t, "alice@example.com")

	cases := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"unknown type", "/api/action?type=wallets&action=get", "", http.StatusBadRequest},
		{"unknown action", "/api/action?type=records&action=merge", "", http.StatusBadRequest},
		{"bad pagination", "/api/action?type=records&action=get&page=0", "", http.StatusBadRequest},
		{"missing id", "/api/action?type=records&action=update", `{"description":"x"}`, http.StatusBadRequest},
		{"batch without uniqProps", "/api/action?type=records&action=addBatch", `[{"description":"x"}]`, http.StatusBadRequest},
		{"update miss", "/api/action?type=records&action=update&id=nope", `{"description":"x"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := srv.do(http.MethodPost, tc.target, token, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}
