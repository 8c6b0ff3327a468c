package pagestore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront-cms/internal/domain/page"
)

// MemoryStore keeps pages in process memory. Used by pagectl and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	pages map[string]page.Page
	now   func() time.Time
}

func NewMemoryStore(seed ...page.Page) *MemoryStore {
	s := &MemoryStore{pages: make(map[string]page.Page, len(seed)), now: time.Now}
	for _, p := range seed {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		s.pages[p.ID] = p
	}
	return s
}

func (s *MemoryStore) GetPageByID(_ context.Context, id string) (*page.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pages[id]
	if !ok {
		return nil, page.ErrPageNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListPages(_ context.Context) ([]page.Page, error) {
	s.mu.RLock()
	out := make([]page.Page, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CreatePage(ctx context.Context, title, slug, content string, opts page.CreateOptions) (*page.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pages {
		if p.Slug == slug {
			return nil, page.ErrSlugTaken
		}
	}

	status := opts.Status
	if status == "" {
		status = page.StatusDraft
	}
	now := s.now()
	p := page.Page{
		ID:        uuid.NewString(),
		Title:     title,
		Slug:      slug,
		Status:    status,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.pages[p.ID] = p
	return &p, nil
}

func (s *MemoryStore) UpdatePage(ctx context.Context, id string, upd page.Update) (*page.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	if !ok {
		return nil, page.ErrPageNotFound
	}
	p.Content = upd.Content
	p.UpdatedAt = s.now()
	s.pages[id] = p
	return &p, nil
}
