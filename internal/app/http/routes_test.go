package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-cms/config"
	editorapi "storefront-cms/internal/api/editor"
	pagesapi "storefront-cms/internal/api/pages"
	"storefront-cms/internal/app/http/middleware"
	"storefront-cms/internal/domain/composer"
	"storefront-cms/internal/infra/metrics"
	"storefront-cms/internal/infra/pagestore"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	old := config.JWT_SECRET
	config.JWT_SECRET = "routes-secret"
	t.Cleanup(func() { config.JWT_SECRET = old })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := pagestore.NewMemoryStore()
	lib := composer.DefaultLibrary()

	r := gin.New()
	r.Use(metrics.GinMiddleware())
	RegisterRoutes(r, Deps{
		Pages: &pagesapi.Handler{
			Store:    store,
			Library:  lib,
			Defaults: composer.NewDefaultsResolver(composer.DefaultRegistry(), logger),
			Logger:   logger,
		},
		Editor:      &editorapi.Handler{Sessions: editorapi.NewSessions(store, composer.Options{Library: lib}), Logger: logger},
		RateLimiter: middleware.NewRateLimiter(100, 100, logger),
	})
	return r
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "editor@shop.test",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("routes-secret"))
	require.NoError(t, err)
	return tok
}

func TestPublicRoutes(t *testing.T) {
	r := newEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_cms_http_requests_total")
}

func TestAdminRoutesNeedToken(t *testing.T) {
	r := newEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/templates", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/templates", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront-home")

	req = httptest.NewRequest(http.MethodGet, "/admin/editor/sessions/unknown", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
