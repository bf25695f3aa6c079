package capability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/capctl/internal/core/capability"
)

func newTestStrings() capability.LocalizableStrings {
	return capability.NewLocalizableStrings(
		capability.LocalizableString{Value: "neutralValue"},
		capability.LocalizableString{Lang: "en-US", Value: "americaValue"},
		capability.LocalizableString{Lang: "en-GB", Value: "gbValue"},
		capability.LocalizableString{Lang: "de", Value: "germanValue"},
		capability.LocalizableString{Lang: "de-AT", Value: "austriaValue"},
	)
}

func TestLocalizableStrings_Set(t *testing.T) {
	t.Parallel()
	s := newTestStrings()
	s.Set("de", "germanValue2")
	s.Set("", "neutralValue2")
	assert.Equal(t, 5, s.Len())

	v, ok := s.GetExact("de")
	require.True(t, ok)
	assert.Equal(t, "germanValue2", v)
	v, _ = s.GetExact("en")
	assert.Equal(t, "neutralValue2", v)

	s.Set("fr", "frenchValue")
	assert.Equal(t, 6, s.Len())
	assert.Equal(t, "fr", s.Entries()[5].Lang)
}

func TestLocalizableStrings_ContainsExact(t *testing.T) {
	t.Parallel()
	s := newTestStrings()
	assert.True(t, s.ContainsExact("en"))
	assert.True(t, s.ContainsExact("de-AT"))
	assert.True(t, s.ContainsExact("DE-at"))
	assert.False(t, s.ContainsExact("de-CH"))
	assert.False(t, s.ContainsExact("es-ES"))
}

func TestLocalizableStrings_RemoveAll(t *testing.T) {
	t.Parallel()
	s := newTestStrings()
	s.RemoveAll("de")
	assert.False(t, s.ContainsExact("de"))
	assert.True(t, s.ContainsExact("de-AT"))
	assert.Equal(t, 4, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestLocalizableStrings_GetBest(t *testing.T) {
	t.Parallel()
	s := newTestStrings()
	tests := []struct {
		lang string
		want string
	}{
		{"en", "neutralValue"},
		{"en-US", "americaValue"},
		{"en-CA", "neutralValue"},
		{"en-GB", "gbValue"},
		{"de", "germanValue"},
		{"de-DE", "germanValue"},
		{"de-AT", "austriaValue"},
		{"es-ES", "neutralValue"},
		{"", "neutralValue"},
	}
	for _, tt := range tests {
		got, ok := s.GetBest(tt.lang)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "GetBest(%q)", tt.lang)
	}

	s.RemoveAll("en")
	got, _ := s.GetBest("es-ES")
	assert.Equal(t, "americaValue", got)

	s.RemoveAll("en-US")
	got, _ = s.GetBest("es-ES")
	assert.Equal(t, "gbValue", got, "falls back to the first entry")

	var empty capability.LocalizableStrings
	_, ok := empty.GetBest("en")
	assert.False(t, ok)
}

func TestLocalizableStrings_CloneAndEqual(t *testing.T) {
	t.Parallel()
	s := newTestStrings()
	c := s.Clone()
	assert.True(t, s.Equal(c))
	assert.Equal(t, s.Hash(), c.Hash())

	c.Set("de", "changed")
	assert.False(t, s.Equal(c))
	v, _ := s.GetExact("de")
	assert.Equal(t, "germanValue", v)

	upper := capability.NewLocalizableStrings(capability.LocalizableString{Lang: "EN", Value: "x"})
	lower := capability.NewLocalizableStrings(capability.LocalizableString{Lang: "en", Value: "x"})
	assert.True(t, upper.Equal(lower))
	assert.Equal(t, upper.Hash(), lower.Hash())
}
