package qrcode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent(t *testing.T) {
	assert.Equal(t, "130553", DefaultGenerator{}.Content("acme", "130553"))
	assert.Equal(t,
		"https://fidelidade.example/earn?code=130553&shop=acme",
		DefaultGenerator{BaseURL: "https://fidelidade.example/earn"}.Content("acme", "130553"),
	)
	assert.Equal(t,
		"https://fidelidade.example/earn?code=130553&shop=acme&src=qr",
		DefaultGenerator{BaseURL: "https://fidelidade.example/earn?src=qr"}.Content("acme", "130553"),
	)
}

func TestGeneratePNG(t *testing.T) {
	png, err := DefaultGenerator{Size: 128}.Generate("acme", "130553")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
}
