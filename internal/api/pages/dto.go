package pagesapi

import (
	"time"

	"storefront-cms/internal/domain/composer"
	"storefront-cms/internal/domain/page"
)

type CreatePageRequest struct {
	Title      string `json:"title" binding:"required"`
	Slug       string `json:"slug"`
	Status     string `json:"status"`
	TemplateID string `json:"templateId"`
}

type PageSummaryDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PageDTO struct {
	PageSummaryDTO
	Components []composer.ComponentItem `json:"components"`
	Warnings   []string                 `json:"warnings"`
}

type TemplateDTO struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Components  []composer.Blueprint `json:"components"`
}

type SnippetDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type GetTemplatesResponse struct {
	Templates []TemplateDTO `json:"templates"`
}

type GetSnippetsResponse struct {
	Snippets []SnippetDTO `json:"snippets"`
}

type ListPagesResponse struct {
	Pages []PageSummaryDTO `json:"pages"`
}

type DefaultsResponse struct {
	Type     string         `json:"type"`
	Content  map[string]any `json:"content"`
	Settings map[string]any `json:"settings"`
}

func toSummary(p page.Page) PageSummaryDTO {
	return PageSummaryDTO{ID: p.ID, Title: p.Title, Slug: p.Slug, Status: p.Status, UpdatedAt: p.UpdatedAt}
}
