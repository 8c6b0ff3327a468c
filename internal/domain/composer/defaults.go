package composer

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"storefront-cms/internal/infra/metrics"
)

// Defaults seeds the content and settings of a new component.
type Defaults struct {
	Content  map[string]any `json:"content"`
	Settings map[string]any `json:"settings"`
}

type DefaultsSource interface {
	ComponentDefaults(kind string) (Defaults, error)
}

type DefaultsSourceFunc func(kind string) (Defaults, error)

func (f DefaultsSourceFunc) ComponentDefaults(kind string) (Defaults, error) { return f(kind) }

// DefaultsResolver never fails: when its source errors, panics or has no
// entry it falls back to FallbackDefaults.
type DefaultsResolver struct {
	source DefaultsSource
	logger logrus.FieldLogger
}

func NewDefaultsResolver(source DefaultsSource, logger logrus.FieldLogger) *DefaultsResolver {
	if logger == nil {
		logger = discardLogger()
	}
	return &DefaultsResolver{source: source, logger: logger}
}

func (r *DefaultsResolver) Lookup(kind string) Defaults {
	d, err := r.fromSource(kind)
	if err == nil && (d.Content != nil || d.Settings != nil) {
		return Defaults{Content: cloneMap(d.Content), Settings: cloneMap(d.Settings)}
	}
	if err == nil {
		err = NotFoundError{Kind: "component defaults", ID: kind}
	}
	r.logger.WithError(err).WithField("type", kind).Warn("component defaults unavailable, using fallback")
	metrics.RecordDefaultsFallback()
	return FallbackDefaults(kind)
}

func (r *DefaultsResolver) fromSource(kind string) (d Defaults, err error) {
	if r == nil || r.source == nil {
		return Defaults{}, fmt.Errorf("no defaults source configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			d, err = Defaults{}, fmt.Errorf("defaults source panicked: %v", rec)
		}
	}()
	return r.source.ComponentDefaults(kind)
}

// FallbackDefaults covers the most common kinds; everything else gets empty
// content and settings.
func FallbackDefaults(kind string) Defaults {
	switch Kind(kind) {
	case KindBanner:
		return Defaults{
			Content: map[string]any{
				"title":      "Welcome to our store",
				"subtitle":   "Discover our latest products",
				"image":      "",
				"buttonText": "Shop now",
				"buttonLink": "/products",
			},
			Settings: map[string]any{"fullWidth": true, "rounded": false, "shadow": false, "height": "medium"},
		}
	case KindSlider:
		return Defaults{
			Content: map[string]any{
				"slides": []any{
					map[string]any{"title": "Slide 1", "description": "", "image": ""},
				},
			},
			Settings: map[string]any{"autoplay": true, "interval": 5000, "showArrows": true, "showDots": true},
		}
	case KindPromotion:
		return Defaults{
			Content: map[string]any{
				"title":       "Special offer",
				"description": "",
				"image":       "",
				"buttonText":  "Learn more",
				"buttonLink":  "",
			},
			Settings: map[string]any{"layout": "image-left", "rounded": true, "shadow": true},
		}
	default:
		return Defaults{Content: map[string]any{}, Settings: map[string]any{}}
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
