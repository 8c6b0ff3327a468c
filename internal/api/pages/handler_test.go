package pagesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-cms/internal/domain/composer"
	"storefront-cms/internal/domain/page"
	"storefront-cms/internal/infra/pagestore"
)

func newRouter(t *testing.T) (*gin.Engine, *pagestore.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := pagestore.NewMemoryStore()
	h := &Handler{
		Store:    store,
		Library:  composer.DefaultLibrary(),
		Defaults: composer.NewDefaultsResolver(composer.DefaultRegistry(), logger),
		Logger:   logger,
	}

	r := gin.New()
	r.GET("/pages", h.ListPages)
	r.POST("/pages", h.CreatePage)
	r.GET("/pages/:id", h.GetPage)
	r.GET("/templates", h.ListTemplates)
	r.GET("/snippets", h.ListSnippets)
	r.GET("/components/defaults/:type", h.GetDefaults)
	return r, store
}

func request(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePageFromTemplate(t *testing.T) {
	r, store := newRouter(t)

	w := request(r, http.MethodPost, "/pages", gin.H{"title": "Summer Sale!", "templateId": "seasonal-sale"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var dto PageDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "summer-sale", dto.Slug)
	assert.Equal(t, page.StatusDraft, dto.Status)
	require.Len(t, dto.Components, 4)
	assert.Equal(t, "banner", dto.Components[0].Type)
	assert.Empty(t, dto.Warnings)

	stored, err := store.GetPageByID(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.Content, "<!-- component:banner-")
}

func TestCreatePageErrors(t *testing.T) {
	r, _ := newRouter(t)

	w := request(r, http.MethodPost, "/pages", gin.H{"title": "About", "slug": "about"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(r, http.MethodPost, "/pages", gin.H{"title": "About again", "slug": "About"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(r, http.MethodPost, "/pages", gin.H{"title": "X", "templateId": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(r, http.MethodPost, "/pages", gin.H{"slug": "no-title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(r, http.MethodPost, "/pages", gin.H{"title": "Y", "status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPageReportsUndecodableTags(t *testing.T) {
	r, store := newRouter(t)
	content := "\n<!-- component:text-1:0:{\"content\":{},\"settings\":{}} -->\n<!-- component:text-2:10:{broken -->"
	p, err := store.CreatePage(context.Background(), "Broken", "broken", content, page.CreateOptions{})
	require.NoError(t, err)

	w := request(r, http.MethodGet, "/pages/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var dto PageDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Len(t, dto.Components, 1)
	assert.Len(t, dto.Warnings, 1)

	w = request(r, http.MethodGet, "/pages/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPages(t *testing.T) {
	r, store := newRouter(t)
	_, err := store.CreatePage(context.Background(), "Home", "home", "", page.CreateOptions{Status: page.StatusPublished})
	require.NoError(t, err)

	w := request(r, http.MethodGet, "/pages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListPagesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Pages, 1)
	assert.Equal(t, page.StatusPublished, resp.Pages[0].Status)
}

func TestCatalogEndpoints(t *testing.T) {
	r, _ := newRouter(t)

	w := request(r, http.MethodGet, "/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var templates GetTemplatesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &templates))
	assert.Len(t, templates.Templates, len(composer.BuiltinTemplates()))

	w = request(r, http.MethodGet, "/snippets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snippets GetSnippetsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snippets))
	assert.Len(t, snippets.Snippets, len(composer.BuiltinSnippets()))
}

func TestGetDefaults(t *testing.T) {
	r, _ := newRouter(t)

	w := request(r, http.MethodGet, "/components/defaults/banner", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d DefaultsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, "New collection", d.Content["title"])

	w = request(r, http.MethodGet, "/components/defaults/gallery", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unknown DefaultsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unknown))
	assert.Empty(t, unknown.Content)
	assert.Empty(t, unknown.Settings)

	w = request(r, http.MethodGet, "/components/defaults/Bad-Kind", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
