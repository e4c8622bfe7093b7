package qrcode

import (
	"net/url"

	"github.com/skip2/go-qrcode"
)

// Generator 把购买码渲染成 PNG 二维码
type Generator interface {
	Generate(slug, code string) ([]byte, error)
}

// DefaultGenerator BaseURL 为空时二维码内容为购买码本身，
// 否则为 BaseURL?shop=<slug>&code=<code>
type DefaultGenerator struct {
	BaseURL string
	Size    int
}

func (g DefaultGenerator) Content(slug, code string) string {
	if g.BaseURL == "" {
		return code
	}
	u, err := url.Parse(g.BaseURL)
	if err != nil {
		return code
	}
	q := u.Query()
	q.Set("shop", slug)
	q.Set("code", code)
	u.RawQuery = q.Encode()
	return u.String()
}

func (g DefaultGenerator) Generate(slug, code string) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(g.Content(slug, code), qrcode.Medium, size)
}
