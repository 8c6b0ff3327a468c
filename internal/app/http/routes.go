package routes

import (
	editorapi "storefront-cms/internal/api/editor"
	pagesapi "storefront-cms/internal/api/pages"
	"storefront-cms/internal/app/http/middleware"
	"storefront-cms/internal/infra/metrics"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Pages       *pagesapi.Handler
	Editor      *editorapi.Handler
	RateLimiter *middleware.RateLimiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	if d.RateLimiter != nil {
		admin.Use(d.RateLimiter.Middleware())
	}

	admin.GET("/pages", d.Pages.ListPages)
	admin.POST("/pages", middleware.SanitizeFields("title", "slug"), d.Pages.CreatePage)
	admin.GET("/pages/:id", d.Pages.GetPage)
	admin.GET("/templates", d.Pages.ListTemplates)
	admin.GET("/snippets", d.Pages.ListSnippets)
	admin.GET("/components/defaults/:type", d.Pages.GetDefaults)

	editor := admin.Group("/editor/sessions")
	editor.POST("", d.Editor.OpenSession)
	editor.GET("/:sid", d.Editor.GetSession)
	editor.DELETE("/:sid", d.Editor.CloseSession)

	editor.POST("/:sid/components", d.Editor.InsertComponent)
	editor.POST("/:sid/components/append", d.Editor.AppendComponent)
	editor.PUT("/:sid/components/reorder", d.Editor.ReorderComponents)
	editor.PATCH("/:sid/components/:cid", d.Editor.PatchComponent)
	editor.DELETE("/:sid/components/:cid", d.Editor.DeleteComponent)

	editor.POST("/:sid/template/:tid", d.Editor.ApplyTemplate)
	editor.POST("/:sid/save", d.Editor.Save)
	editor.PUT("/:sid/autosave", d.Editor.SetAutosave)
}
