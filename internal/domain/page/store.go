package page

import (
	"context"
	"errors"
)

var (
	ErrPageNotFound = errors.New("page not found")
	ErrSlugTaken    = errors.New("slug already in use")
)

type CreateOptions struct {
	Status string
}

// Update carries the fields the composer is allowed to write.
type Update struct {
	Content string
}

// Store is the page persistence collaborator.
type Store interface {
	GetPageByID(ctx context.Context, id string) (*Page, error)
	CreatePage(ctx context.Context, title, slug, content string, opts CreateOptions) (*Page, error)
	UpdatePage(ctx context.Context, id string, upd Update) (*Page, error)
}

// Repository adds listing for the admin API.
type Repository interface {
	Store
	ListPages(ctx context.Context) ([]Page, error)
}
