package composer

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

type Kind string

const (
	KindBanner     Kind = "banner"
	KindSlider     Kind = "slider"
	KindPromotion  Kind = "promotion"
	KindText       Kind = "text"
	KindNewsletter Kind = "newsletter"
	KindHTML       Kind = "html"
)

// Variant is the typed form of a component. Each known kind has its own
// content and settings shape; Unknown carries anything else untouched.
type Variant interface {
	Kind() Kind
	parts() (content, settings any)
}

type Banner struct {
	Content  BannerContent
	Settings BannerSettings
}

type BannerContent struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Image      string `json:"image"`
	ButtonText string `json:"buttonText,omitempty"`
	ButtonLink string `json:"buttonLink,omitempty"`
}

type BannerSettings struct {
	FullWidth bool   `json:"fullWidth"`
	Rounded   bool   `json:"rounded"`
	Shadow    bool   `json:"shadow"`
	Height    string `json:"height"` // small | medium | large
	TextAlign string `json:"textAlign"`
}

type Slide struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ButtonText  string `json:"buttonText,omitempty"`
	ButtonLink  string `json:"buttonLink,omitempty"`
}

type Slider struct {
	Content  SliderContent
	Settings SliderSettings
}

type SliderContent struct {
	Slides []Slide `json:"slides"`
}

type SliderSettings struct {
	Autoplay   bool   `json:"autoplay"`
	Interval   int    `json:"interval"` // milliseconds
	ShowArrows bool   `json:"showArrows"`
	ShowDots   bool   `json:"showDots"`
	Height     string `json:"height"`
}

type Promotion struct {
	Content  PromotionContent
	Settings PromotionSettings
}

type PromotionContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Badge       string `json:"badge,omitempty"`
	ButtonText  string `json:"buttonText,omitempty"`
	ButtonLink  string `json:"buttonLink,omitempty"`
}

type PromotionSettings struct {
	Layout          string `json:"layout"` // image-left | image-right | centered
	BackgroundColor string `json:"backgroundColor"`
	Rounded         bool   `json:"rounded"`
	Shadow          bool   `json:"shadow"`
}

type Text struct {
	Content  TextContent
	Settings TextSettings
}

type TextContent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type TextSettings struct {
	Align    string `json:"align"`
	MaxWidth string `json:"maxWidth"`
}

type Newsletter struct {
	Content  NewsletterContent
	Settings NewsletterSettings
}

type NewsletterContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Placeholder string `json:"placeholder"`
	ButtonText  string `json:"buttonText"`
}

type NewsletterSettings struct {
	Layout          string `json:"layout"` // inline | stacked
	BackgroundColor string `json:"backgroundColor"`
}

type HTML struct {
	Content  HTMLContent
	Settings HTMLSettings
}

type HTMLContent struct {
	HTML string `json:"html"`
}

type HTMLSettings struct {
	Container bool `json:"container"`
}

// Unknown preserves a component whose type has no registered variant.
type Unknown struct {
	Type     string
	Content  map[string]any
	Settings map[string]any
}

func (*Banner) Kind() Kind     { return KindBanner }
func (*Slider) Kind() Kind     { return KindSlider }
func (*Promotion) Kind() Kind  { return KindPromotion }
func (*Text) Kind() Kind       { return KindText }
func (*Newsletter) Kind() Kind { return KindNewsletter }
func (*HTML) Kind() Kind       { return KindHTML }
func (u *Unknown) Kind() Kind  { return Kind(u.Type) }

func (v *Banner) parts() (any, any)     { return &v.Content, &v.Settings }
func (v *Slider) parts() (any, any)     { return &v.Content, &v.Settings }
func (v *Promotion) parts() (any, any)  { return &v.Content, &v.Settings }
func (v *Text) parts() (any, any)       { return &v.Content, &v.Settings }
func (v *Newsletter) parts() (any, any) { return &v.Content, &v.Settings }
func (v *HTML) parts() (any, any)       { return &v.Content, &v.Settings }
func (u *Unknown) parts() (any, any)    { return &u.Content, &u.Settings }

// Constructor returns a variant pre-filled with its default values.
type Constructor func() Variant

// Registry maps a component kind to the constructor of its default variant.
type Registry struct {
	mu    sync.RWMutex
	ctors map[Kind]Constructor
}

func NewRegistry() *Registry {
	return &Registry{ctors: make(map[Kind]Constructor)}
}

// DefaultRegistry returns a registry with every built-in kind registered.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	RegisterDefaults(reg)
	return reg
}

// RegisterDefaults adds the built-in kinds to reg.
func RegisterDefaults(reg *Registry) {
	if reg == nil {
		return
	}
	_ = reg.Register(KindBanner, func() Variant {
		return &Banner{
			Content:  BannerContent{Title: "New collection", Subtitle: "Discover this season's highlights", ButtonText: "Shop now", ButtonLink: "/products"},
			Settings: BannerSettings{FullWidth: true, Height: "medium", TextAlign: "center"},
		}
	})
	_ = reg.Register(KindSlider, func() Variant {
		return &Slider{
			Content: SliderContent{Slides: []Slide{
				{Title: "First slide", Description: "Describe your offer"},
				{Title: "Second slide", Description: "Describe another offer"},
			}},
			Settings: SliderSettings{Autoplay: true, Interval: 5000, ShowArrows: true, ShowDots: true, Height: "medium"},
		}
	})
	_ = reg.Register(KindPromotion, func() Variant {
		return &Promotion{
			Content:  PromotionContent{Title: "Limited offer", Description: "Save on selected products", Badge: "-20%", ButtonText: "See deals", ButtonLink: "/sale"},
			Settings: PromotionSettings{Layout: "image-left", BackgroundColor: "#ffffff", Rounded: true, Shadow: true},
		}
	})
	_ = reg.Register(KindText, func() Variant {
		return &Text{
			Content:  TextContent{Title: "About us", Body: "Tell your customers who you are."},
			Settings: TextSettings{Align: "left", MaxWidth: "prose"},
		}
	})
	_ = reg.Register(KindNewsletter, func() Variant {
		return &Newsletter{
			Content:  NewsletterContent{Title: "Stay in the loop", Description: "Get news and offers in your inbox.", Placeholder: "you@example.com", ButtonText: "Subscribe"},
			Settings: NewsletterSettings{Layout: "inline", BackgroundColor: "#f5f5f5"},
		}
	})
	_ = reg.Register(KindHTML, func() Variant {
		return &HTML{Settings: HTMLSettings{Container: true}}
	})
}

func (r *Registry) Register(kind Kind, ctor Constructor) error {
	if !ValidKind(string(kind)) {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if ctor == nil {
		return fmt.Errorf("nil constructor for %q", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ctors[kind]; exists {
		return fmt.Errorf("component type %q already registered", kind)
	}
	r.ctors[kind] = ctor
	return nil
}

func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Kind, 0, len(r.ctors))
	for k := range r.ctors {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) New(kind Kind) (Variant, bool) {
	r.mu.RLock()
	ctor, ok := r.ctors[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// ComponentDefaults implements DefaultsSource.
func (r *Registry) ComponentDefaults(kind string) (Defaults, error) {
	v, ok := r.New(Kind(kind))
	if !ok {
		return Defaults{}, NotFoundError{Kind: "component type", ID: kind}
	}
	return defaultsOf(v)
}

func defaultsOf(v Variant) (Defaults, error) {
	content, settings := v.parts()
	c, err := toMap(content)
	if err != nil {
		return Defaults{}, err
	}
	s, err := toMap(settings)
	if err != nil {
		return Defaults{}, err
	}
	return Defaults{Content: c, Settings: s}, nil
}

// VariantOf converts item to its typed variant. Fields missing from the item
// keep the kind's default values. Unregistered kinds yield *Unknown.
func VariantOf(reg *Registry, item ComponentItem) (Variant, error) {
	v, ok := reg.New(Kind(item.Type))
	if !ok {
		return &Unknown{Type: item.Type, Content: cloneMap(item.Content), Settings: cloneMap(item.Settings)}, nil
	}
	content, settings := v.parts()
	if err := fromMap(item.Content, content); err != nil {
		return nil, fmt.Errorf("component %s content: %w", item.ID, err)
	}
	if err := fromMap(item.Settings, settings); err != nil {
		return nil, fmt.Errorf("component %s settings: %w", item.ID, err)
	}
	return v, nil
}

// ItemFromVariant builds a ComponentItem carrying v's content and settings.
func ItemFromVariant(id string, order int, v Variant) (ComponentItem, error) {
	d, err := defaultsOf(v)
	if err != nil {
		return ComponentItem{}, err
	}
	return ComponentItem{ID: id, Type: string(v.Kind()), Content: d.Content, Settings: d.Settings, Order: order}, nil
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func fromMap(m map[string]any, dst any) error {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
