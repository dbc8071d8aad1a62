package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Dev Community", want: "dev-community"},
		{name: "spanish accents", in: "Programación en Español", want: "programacion-en-espanol"},
		{name: "enie", in: "Año Nuevo", want: "ano-nuevo"},
		{name: "punctuation collapses", in: "AI -- Accelerator!!", want: "ai-accelerator"},
		{name: "surrounding whitespace", in: "  padded  ", want: "padded"},
		{name: "digits survive", in: "Web3 Builders 2026", want: "web3-builders-2026"},
		{name: "trailing symbols", in: "crypto???", want: "crypto"},
		{name: "only symbols", in: "???", want: ""},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestRandDigits(t *testing.T) {
	code, err := RandDigits(6)
	assert.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}
