package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/admin"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/levels"
	"github.com/playmatatu/minigolf/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyStore struct{ created int }

func (s *emptyStore) List(ctx context.Context) ([]models.LevelRecord, error) { return nil, nil }

func (s *emptyStore) Get(ctx context.Context, id int) (*models.LevelRecord, error) {
	return nil, levels.ErrLevelNotFound
}

func (s *emptyStore) Create(ctx context.Context, data game.LevelData) (*models.LevelRecord, error) {
	s.created++
	return &models.LevelRecord{ID: s.created, Name: data.Name}, nil
}

func (s *emptyStore) Delete(ctx context.Context, id int) error { return levels.ErrLevelNotFound }

func (s *emptyStore) Import(ctx context.Context, data []game.LevelData, replace bool) (int, error) {
	return len(data), nil
}

func newRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *emptyStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	game.Manager = game.NewGameManager(nil, nil, cfg, nil)
	store := &emptyStore{}
	r := gin.New()
	SetupRoutes(r, store, cfg)
	return r, store
}

func TestPublicRoutes(t *testing.T) {
	r, _ := newRouter(t, &config.Config{Environment: "development", JWTSecret: "s"})

	for _, path := range []string{"/api/v1/health", "/api/v1/levels"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
	}
}

func TestLevelWritesNeedAdminKey(t *testing.T) {
	hash, err := admin.HashAdminKey("key")
	require.NoError(t, err)
	r, store := newRouter(t, &config.Config{Environment: "production", AdminKeyHash: hash})

	body := `{"name": "New"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/levels", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, store.created)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/levels", strings.NewReader(body))
	req.Header.Set(admin.HeaderAdminKey, "key")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, store.created)
	assert.Empty(t, w.Header().Get("Cache-Control"))
}

func TestWebSocketOriginCheck(t *testing.T) {
	r, _ := newRouter(t, &config.Config{Environment: "production", FrontendURL: "https://golf.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc/ws?pt=x", nil)
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
