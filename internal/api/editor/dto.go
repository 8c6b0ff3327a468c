package editorapi

import "storefront-cms/internal/domain/composer"

type OpenSessionRequest struct {
	PageID string `json:"pageId" binding:"required"`
}

type InsertComponentRequest struct {
	Type  string `json:"type" binding:"required"`
	Index *int   `json:"index" binding:"required"`
}

// AppendComponentRequest adds either a library snippet or a component of
// Type; Content and Settings are optional for the latter.
type AppendComponentRequest struct {
	SnippetID string         `json:"snippetId"`
	Type      string         `json:"type"`
	Content   map[string]any `json:"content"`
	Settings  map[string]any `json:"settings"`
}

type ReorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

type PatchComponentRequest struct {
	Content  map[string]any `json:"content"`
	Settings map[string]any `json:"settings"`
}

type ApplyTemplateRequest struct {
	Confirm bool `json:"confirm"`
}

type AutosaveRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type SessionDTO struct {
	SessionID  string                   `json:"sessionId"`
	PageID     string                   `json:"pageId"`
	State      string                   `json:"state"`
	Revision   uint64                   `json:"revision"`
	Autosave   bool                     `json:"autosave"`
	Components []composer.ComponentItem `json:"components"`
}

type ComponentResponse struct {
	Component composer.ComponentItem `json:"component"`
	Session   SessionDTO             `json:"session"`
}

type SaveResponse struct {
	Status   composer.SaveStatus `json:"status"`
	Revision uint64              `json:"revision"`
	Session  SessionDTO          `json:"session"`
}

type ConfirmationResponse struct {
	Error   string          `json:"error"`
	Confirm composer.Prompt `json:"confirm"`
}

func toSessionDTO(id string, s *composer.Session) SessionDTO {
	return SessionDTO{
		SessionID:  id,
		PageID:     s.PageID(),
		State:      s.State().String(),
		Revision:   s.Revision(),
		Autosave:   s.AutosaveEnabled(),
		Components: s.Items(),
	}
}
