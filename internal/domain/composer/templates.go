package composer

import (
	"sync"
)

// Blueprint is a component without an id.
type Blueprint struct {
	Type     string         `json:"type" yaml:"type"`
	Content  map[string]any `json:"content" yaml:"content"`
	Settings map[string]any `json:"settings" yaml:"settings"`
	Order    int            `json:"order" yaml:"order"`
}

// Template is a named, pre-built component list.
type Template struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Components  []Blueprint `json:"components" yaml:"components"`
}

// Snippet is a single library component added without replacing the page.
type Snippet struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Blueprint   `yaml:",inline"`
}

type TemplateSource interface {
	PageTemplates() ([]Template, error)
}

// Library is the catalog of page templates and snippets. Safe for concurrent
// use; Replace swaps the whole catalog at once.
type Library struct {
	mu        sync.RWMutex
	templates []Template
	snippets  []Snippet
}

func NewLibrary(templates []Template, snippets []Snippet) *Library {
	l := &Library{}
	l.Replace(templates, snippets)
	return l
}

func DefaultLibrary() *Library {
	return NewLibrary(BuiltinTemplates(), BuiltinSnippets())
}

func (l *Library) Replace(templates []Template, snippets []Snippet) {
	t := make([]Template, len(templates))
	copy(t, templates)
	s := make([]Snippet, len(snippets))
	copy(s, snippets)

	l.mu.Lock()
	l.templates, l.snippets = t, s
	l.mu.Unlock()
}

// PageTemplates implements TemplateSource.
func (l *Library) PageTemplates() ([]Template, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Template, len(l.templates))
	copy(out, l.templates)
	return out, nil
}

func (l *Library) Template(id string) (Template, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, t := range l.templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

func (l *Library) Snippets() []Snippet {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Snippet, len(l.snippets))
	copy(out, l.snippets)
	return out
}

func (l *Library) Snippet(id string) (Snippet, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, s := range l.snippets {
		if s.ID == id {
			return s, true
		}
	}
	return Snippet{}, false
}

// Instantiate turns t into components with fresh ids and the template's
// declared content, settings and order.
func Instantiate(t Template, ids IDGenerator) []ComponentItem {
	items := make([]ComponentItem, 0, len(t.Components))
	for _, bp := range t.Components {
		items = append(items, ComponentItem{
			ID:       ids.GenerateComponentID(bp.Type),
			Type:     bp.Type,
			Content:  cloneMap(bp.Content),
			Settings: cloneMap(bp.Settings),
			Order:    bp.Order,
		})
	}
	return SortByOrder(items)
}

func BuiltinTemplates() []Template {
	return []Template{
		{
			ID:          "storefront-home",
			Name:        "Storefront home",
			Description: "Hero banner, featured slider, promotion and newsletter signup",
			Components: []Blueprint{
				{Type: "banner", Order: 0, Content: map[string]any{
					"title": "Welcome to our store", "subtitle": "Quality products, shipped fast",
					"image": "/images/hero.jpg", "buttonText": "Shop now", "buttonLink": "/products",
				}, Settings: map[string]any{"fullWidth": true, "rounded": false, "shadow": false, "height": "large"}},
				{Type: "slider", Order: 10, Content: map[string]any{"slides": []any{
					map[string]any{"title": "New arrivals", "description": "Fresh picks for the season", "image": "/images/slide-1.jpg", "buttonText": "Browse", "buttonLink": "/products?sort=new"},
					map[string]any{"title": "Best sellers", "description": "What everyone is buying", "image": "/images/slide-2.jpg"},
				}}, Settings: map[string]any{"autoplay": true, "interval": 5000, "showArrows": true, "showDots": true}},
				{Type: "promotion", Order: 20, Content: map[string]any{
					"title": "Free shipping", "description": "On every order over 50 EUR", "image": "/images/shipping.jpg",
					"buttonText": "Learn more", "buttonLink": "/shipping",
				}, Settings: map[string]any{"layout": "image-right", "rounded": true, "shadow": true}},
				{Type: "newsletter", Order: 30, Content: map[string]any{
					"title": "Join our newsletter", "description": "Offers and news, once a week.",
					"placeholder": "you@example.com", "buttonText": "Subscribe",
				}, Settings: map[string]any{"layout": "inline"}},
			},
		},
		{
			ID:          "seasonal-sale",
			Name:        "Seasonal sale",
			Description: "Sale banner with two promotions and terms",
			Components: []Blueprint{
				{Type: "banner", Order: 0, Content: map[string]any{
					"title": "Seasonal sale", "subtitle": "Up to 50% off", "image": "/images/sale.jpg",
					"buttonText": "Shop the sale", "buttonLink": "/sale",
				}, Settings: map[string]any{"fullWidth": true, "height": "medium"}},
				{Type: "promotion", Order: 10, Content: map[string]any{
					"title": "Outerwear", "description": "Jackets and coats", "badge": "-30%", "image": "/images/outerwear.jpg",
				}, Settings: map[string]any{"layout": "image-left", "rounded": true}},
				{Type: "promotion", Order: 20, Content: map[string]any{
					"title": "Accessories", "description": "Bags, belts and more", "badge": "-50%", "image": "/images/accessories.jpg",
				}, Settings: map[string]any{"layout": "image-right", "rounded": true}},
				{Type: "text", Order: 30, Content: map[string]any{
					"title": "Terms", "body": "Discounts apply to selected items while stocks last.",
				}, Settings: map[string]any{"align": "center"}},
			},
		},
		{
			ID:          "about-us",
			Name:        "About us",
			Description: "Story page with banner, text and an embed",
			Components: []Blueprint{
				{Type: "banner", Order: 0, Content: map[string]any{"title": "Our story", "subtitle": "", "image": "/images/team.jpg"},
					Settings: map[string]any{"fullWidth": true, "height": "small"}},
				{Type: "text", Order: 10, Content: map[string]any{"title": "Who we are", "body": "We started in a small workshop."},
					Settings: map[string]any{"align": "left"}},
				{Type: "html", Order: 20, Content: map[string]any{"html": "<div class=\"map\"></div>"},
					Settings: map[string]any{"container": true}},
			},
		},
	}
}

func BuiltinSnippets() []Snippet {
	return []Snippet{
		{ID: "hero-banner", Name: "Hero banner", Description: "Full width banner with call to action", Blueprint: Blueprint{
			Type: "banner",
			Content: map[string]any{
				"title": "Big news", "subtitle": "Tell visitors what is new", "image": "",
				"buttonText": "Discover", "buttonLink": "/",
			},
			Settings: map[string]any{"fullWidth": true, "rounded": false, "shadow": false, "height": "large"},
		}},
		{ID: "free-shipping", Name: "Free shipping promotion", Blueprint: Blueprint{
			Type:     "promotion",
			Content:  map[string]any{"title": "Free shipping", "description": "On orders over 50 EUR", "image": ""},
			Settings: map[string]any{"layout": "centered", "rounded": true, "shadow": false},
		}},
		{ID: "newsletter-signup", Name: "Newsletter signup", Blueprint: Blueprint{
			Type:     "newsletter",
			Content:  map[string]any{"title": "Subscribe", "description": "", "placeholder": "you@example.com", "buttonText": "Sign up"},
			Settings: map[string]any{"layout": "stacked"},
		}},
		{ID: "custom-html", Name: "Custom HTML", Blueprint: Blueprint{
			Type:     "html",
			Content:  map[string]any{"html": ""},
			Settings: map[string]any{"container": true},
		}},
	}
}
