package editorapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-cms/internal/domain/composer"
	"storefront-cms/internal/domain/page"
)

type Handler struct {
	Sessions *Sessions
	Logger   logrus.FieldLogger
}

// mustSession writes 404 and returns false when :sid is unknown.
func (h *Handler) mustSession(c *gin.Context) (string, *composer.Session, bool) {
	sid := c.Param("sid")
	s, ok := h.Sessions.Get(sid)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return "", nil, false
	}
	return sid, s, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, composer.ErrSessionClosed):
		c.JSON(http.StatusGone, gin.H{"error": "Session closed"})
	case errors.Is(err, page.ErrPageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
	case composer.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, composer.ErrIndexOutOfRange),
		errors.Is(err, composer.ErrInvalidKind),
		errors.Is(err, composer.ErrInvalidComponentID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.Logger.WithError(err).Error("editor request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// capture records the prompt shown to a Confirmer that answers ok.
func capture(ok bool, into *composer.Prompt) composer.Confirmer {
	return composer.ConfirmFunc(func(_ context.Context, p composer.Prompt) bool {
		*into = p
		return ok
	})
}

// POST /admin/editor/sessions
func (h *Handler) OpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sid, s, err := h.Sessions.Open(c.Request.Context(), req.PageID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.Logger.WithFields(logrus.Fields{"session_id": sid, "page_id": req.PageID}).Info("editor session opened")
	c.JSON(http.StatusCreated, toSessionDTO(sid, s))
}

// GET /admin/editor/sessions/:sid
func (h *Handler) GetSession(c *gin.Context) {
	sid, s, ok := h.mustSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sid, s))
}

// DELETE /admin/editor/sessions/:sid
func (h *Handler) CloseSession(c *gin.Context) {
	if !h.Sessions.Close(c.Param("sid")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /admin/editor/sessions/:sid/components
func (h *Handler) InsertComponent(c *gin.Context) {
	sid, s, ok := h.mustSession(c)
	if !ok {
		return
	}
	var req InsertComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := s.InsertFromPalette(req.Type, *req.Index)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ComponentResponse{Component: item, Session: toSessionDTO(sid, s)})
}

// POST /admin/editor/sessions/:sid/components/append
func (h *Handler) AppendComponent(c *gin.Context) {
	sid, s, ok := h.mustSession(c)
	if !ok {
		return
	}
	var req AppendComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		item composer.ComponentItem
		err  error
	)
	switch {
	case req.SnippetID != "":
		item, err = s.AddSnippet(req.SnippetID)
	case req.Type != "":
		item, err = s.AddComponent(composer.Blueprint{Type: req.Type, Content: req.Content, Settings: req.Settings})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "snippetId or type is required"})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ComponentResponse{Component: item, Session: toSessionDTO(sid, s)})
}

// PUT /admin/editor/sessions/:sid/components/reorder
func (h *Handler) ReorderComponents(c *gin.Context) {
	sid, s, ok := h.mustSession(c)
	if !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.Reorder(*req.From, *req.To); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sid, s))
}

// PATCH /admin/editor/sessions/:sid/components/:cid
func (h *Handler) PatchComponent(c *gin.Context) {
	sid, s, ok := h.mustSession(c)
	if !ok {
		return
	}
	var req PatchComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Content == nil && req.Settings == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content or settings is required"})
		return
	}

	if err := s.Update(c.Param("cid"), req.Content, req.Settings); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sid, s))
}

// DELETE /admin/editor/sessions/:sid/components/:cid?confirm=true
func (h *Handler) DeleteComponent(c *gin.Context) {
	sid, s, ok := h.mustSession(c)
	if !ok {
		return
	}
	var prompt composer.Prompt
	err := s.Delete(c.Request.Context(), c.Param("cid"), capture(c.Query("confirm") == "true", &prompt))
	if errors.Is(err, composer.ErrNotConfirmed) {
		c.JSON(http.StatusConflict, ConfirmationResponse{Error: "Deleting a component needs confirmation", Confirm: prompt})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sid, s))
}

// POST /admin/editor/sessions/:sid/template/:tid
func (h *Handler) ApplyTemplate(c *gin.Context) {
	sid, s, ok := h.mustSession(c)
	if !ok {
		return
	}
	var req ApplyTemplateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var prompt composer.Prompt
	applied, err := s.ApplyTemplate(c.Request.Context(), c.Param("tid"), capture(req.Confirm, &prompt))
	if errors.Is(err, composer.ErrNotConfirmed) {
		c.JSON(http.StatusConflict, ConfirmationResponse{Error: "Replacing the page with a template needs confirmation", Confirm: prompt})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !applied {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sid, s))
}

// POST /admin/editor/sessions/:sid/save
func (h *Handler) Save(c *gin.Context) {
	sid, s, ok := h.mustSession(c)
	if !ok {
		return
	}
	res, err := s.Save(c.Request.Context())
	if errors.Is(err, composer.ErrSessionClosed) {
		h.writeError(c, err)
		return
	}
	if err != nil {
		h.Logger.WithError(err).WithField("session_id", sid).Error("save failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save page"})
		return
	}
	c.JSON(http.StatusOK, SaveResponse{Status: res.Status, Revision: res.Revision, Session: toSessionDTO(sid, s)})
}

// PUT /admin/editor/sessions/:sid/autosave
func (h *Handler) SetAutosave(c *gin.Context) {
	sid, s, ok := h.mustSession(c)
	if !ok {
		return
	}
	var req AutosaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.SetAutosave(*req.Enabled); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sid, s))
}
