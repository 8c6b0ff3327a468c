package composer

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestFallbackForPanickingSource(t *testing.T) {
	src := DefaultsSourceFunc(func(kind string) (Defaults, error) {
		panic("registry exploded")
	})
	r := NewDefaultsResolver(src, nil)

	d := r.Lookup("unknown_type")

	assert.Equal(t, map[string]any{}, d.Content)
	assert.Equal(t, map[string]any{}, d.Settings)
}

func TestFallbackForFailingSourceLogsWarning(t *testing.T) {
	logger, hook := test.NewNullLogger()
	src := DefaultsSourceFunc(func(kind string) (Defaults, error) {
		return Defaults{}, errors.New("backend down")
	})
	r := NewDefaultsResolver(src, logger)

	d := r.Lookup("banner")

	assert.Equal(t, "Welcome to our store", d.Content["title"])
	assert.Equal(t, true, d.Settings["fullWidth"])
	if assert.NotNil(t, hook.LastEntry()) {
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		assert.Equal(t, "banner", hook.LastEntry().Data["type"])
	}
}

func TestFallbackForEmptyResult(t *testing.T) {
	r := NewDefaultsResolver(DefaultsSourceFunc(func(string) (Defaults, error) {
		return Defaults{}, nil
	}), nil)

	d := r.Lookup("slider")

	slides, ok := d.Content["slides"].([]any)
	assert.True(t, ok)
	assert.Len(t, slides, 1)
	assert.Equal(t, 5000, d.Settings["interval"])
}

func TestLookupFromRegistry(t *testing.T) {
	r := NewDefaultsResolver(DefaultRegistry(), nil)

	d := r.Lookup("newsletter")
	assert.Equal(t, "Subscribe", d.Content["buttonText"])
	assert.Equal(t, "inline", d.Settings["layout"])

	d = r.Lookup("unknown_type")
	assert.Empty(t, d.Content)
	assert.Empty(t, d.Settings)
}

func TestLookupWithoutSource(t *testing.T) {
	d := NewDefaultsResolver(nil, nil).Lookup("promotion")
	assert.Equal(t, "Special offer", d.Content["title"])
}

func TestLookupReturnsCopies(t *testing.T) {
	shared := Defaults{Content: map[string]any{"title": "x"}, Settings: map[string]any{}}
	r := NewDefaultsResolver(DefaultsSourceFunc(func(string) (Defaults, error) { return shared, nil }), nil)

	d := r.Lookup("text")
	d.Content["title"] = "changed"

	assert.Equal(t, "x", shared.Content["title"])
}
