package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":            "hello-world",
		"  Leading & Trailing  ": "leading-trailing",
		"Café au Lait":           "cafe-au-lait",
		"Annual Gala 2026!":      "annual-gala-2026",
		"--already--slugged--":   "already-slugged",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("hello-world"))
	assert.True(t, ValidSlug("a1"))
	assert.False(t, ValidSlug("Hello"))
	assert.False(t, ValidSlug("-leading"))
	assert.False(t, ValidSlug("double--dash"))
	assert.False(t, ValidSlug(""))
}
