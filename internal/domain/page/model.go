package page

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Page is owned by the persistence layer. Content is the only field the
// composer reads or writes; everything else passes through.
type Page struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Title  string `gorm:"not null" json:"title"`
	Slug   string `gorm:"not null;uniqueIndex" json:"slug"`
	Status string `gorm:"not null;default:'draft'" json:"status"`

	Content string `gorm:"type:text;not null;default:''" json:"content"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Page) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	return nil
}
