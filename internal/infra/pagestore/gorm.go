package pagestore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-cms/internal/domain/page"
)

// GormStore persists pages in postgres. The *gorm.DB must be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// validID reports whether id can be compared to the uuid primary key.
// Postgres rejects other strings with a syntax error rather than no rows.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *GormStore) GetPageByID(ctx context.Context, id string) (*page.Page, error) {
	if !validID(id) {
		return nil, page.ErrPageNotFound
	}
	var p page.Page
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, page.ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) ListPages(ctx context.Context) ([]page.Page, error) {
	var out []page.Page
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) CreatePage(ctx context.Context, title, slug, content string, opts page.CreateOptions) (*page.Page, error) {
	p := page.Page{
		Title:   title,
		Slug:    slug,
		Status:  opts.Status,
		Content: content,
	}
	err := s.db.WithContext(ctx).Create(&p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, page.ErrSlugTaken
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePage writes only the content column and returns the stored row.
func (s *GormStore) UpdatePage(ctx context.Context, id string, upd page.Update) (*page.Page, error) {
	if !validID(id) {
		return nil, page.ErrPageNotFound
	}
	res := s.db.WithContext(ctx).
		Model(&page.Page{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"content":    upd.Content,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, page.ErrPageNotFound
	}
	return s.GetPageByID(ctx, id)
}
