package pagesapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-cms/internal/domain/composer"
	"storefront-cms/internal/domain/page"
)

type Handler struct {
	Store    page.Repository
	Library  *composer.Library
	Defaults *composer.DefaultsResolver
	IDs      composer.IDGenerator
	Logger   logrus.FieldLogger
}

// POST /admin/pages
func (h *Handler) CreatePage(c *gin.Context) {
	var req CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := req.Status
	switch status {
	case "", page.StatusDraft, page.StatusPublished:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = req.Title
	}
	slug = page.MakeSlug(slug)

	content := ""
	if req.TemplateID != "" {
		tpl, ok := h.Library.Template(req.TemplateID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}
		encoded, err := composer.Encode(composer.Instantiate(tpl, composer.NewUniqueIDs(h.IDs)))
		if err != nil {
			h.Logger.WithError(err).WithField("template_id", tpl.ID).Error("template does not encode")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build page from template"})
			return
		}
		content = encoded
	}

	p, err := h.Store.CreatePage(c.Request.Context(), strings.TrimSpace(req.Title), slug, content, page.CreateOptions{Status: status})
	if errors.Is(err, page.ErrSlugTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already in use"})
		return
	}
	if err != nil {
		h.Logger.WithError(err).Error("create page failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create page"})
		return
	}

	c.JSON(http.StatusCreated, h.pageDTO(*p))
}

// GET /admin/pages
func (h *Handler) ListPages(c *gin.Context) {
	pages, err := h.Store.ListPages(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list pages failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pages"})
		return
	}

	out := ListPagesResponse{Pages: make([]PageSummaryDTO, 0, len(pages))}
	for _, p := range pages {
		out.Pages = append(out.Pages, toSummary(p))
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/pages/:id
func (h *Handler) GetPage(c *gin.Context) {
	p, err := h.Store.GetPageByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, page.ErrPageNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
		return
	}
	if err != nil {
		h.Logger.WithError(err).Error("load page failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load page"})
		return
	}
	c.JSON(http.StatusOK, h.pageDTO(*p))
}

func (h *Handler) pageDTO(p page.Page) PageDTO {
	items, errs := composer.Decode(p.Content)
	warnings := make([]string, 0, len(errs))
	for _, e := range errs {
		warnings = append(warnings, e.Error())
	}
	return PageDTO{PageSummaryDTO: toSummary(p), Components: items, Warnings: warnings}
}

// GET /admin/templates
func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.Library.PageTemplates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load templates"})
		return
	}

	out := GetTemplatesResponse{Templates: make([]TemplateDTO, 0, len(templates))}
	for _, t := range templates {
		out.Templates = append(out.Templates, TemplateDTO{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Components:  t.Components,
		})
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/snippets
func (h *Handler) ListSnippets(c *gin.Context) {
	snippets := h.Library.Snippets()
	out := GetSnippetsResponse{Snippets: make([]SnippetDTO, 0, len(snippets))}
	for _, s := range snippets {
		out.Snippets = append(out.Snippets, SnippetDTO{ID: s.ID, Name: s.Name, Description: s.Description, Type: s.Type})
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/components/defaults/:type
func (h *Handler) GetDefaults(c *gin.Context) {
	kind := c.Param("type")
	if !composer.ValidKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid component type"})
		return
	}
	d := h.Defaults.Lookup(kind)
	c.JSON(http.StatusOK, DefaultsResponse{Type: kind, Content: d.Content, Settings: d.Settings})
}
