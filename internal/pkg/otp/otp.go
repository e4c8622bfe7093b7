package otp

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"
	"unicode/utf16"
)

// BucketWidth 购买码轮换周期
const BucketWidth = 5 * time.Minute

// Bucket 返回时间所在的时间桶编号
func Bucket(t time.Time) int64 {
	return t.UnixMilli() / BucketWidth.Milliseconds()
}

// BucketStart 返回时间桶的起始时间
func BucketStart(bucket int64) time.Time {
	return time.UnixMilli(bucket * BucketWidth.Milliseconds())
}

// Algorithm 由 (slug, secret, bucket) 派生 6 位数字购买码
type Algorithm interface {
	Name() string
	Derive(slug, secret string, bucket int64) string
}

// RollingHash 简单滚动哈希 (hash*31 + c，截断为 32 位有符号整数)。
// 不具备密码学强度，仅用于防止顾客之间随手转发购买码。
type RollingHash struct{}

func (RollingHash) Name() string { return "legacy" }

func (RollingHash) Derive(slug, secret string, bucket int64) string {
	input := slug + secret + strconv.FormatInt(bucket, 10)

	var h int32
	for _, c := range utf16.Encode([]rune(input)) {
		h = h*31 + int32(c)
	}

	n := int64(h)
	if n < 0 {
		n = -n
	}
	return strconv.FormatInt(n%900000+100000, 10)
}

// HMACSHA256 加固版派生算法，外部契约不变 (6 位数字、5 分钟窗口)
type HMACSHA256 struct{}

func (HMACSHA256) Name() string { return "hmac" }

func (HMACSHA256) Derive(slug, secret string, bucket int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(slug + "|" + strconv.FormatInt(bucket, 10)))
	sum := mac.Sum(nil)

	// RFC 4226 动态截断
	offset := sum[len(sum)-1] & 0x0f
	v := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff
	return fmt.Sprintf("%06d", v%1000000)
}

// ParseAlgorithm 根据配置名称返回算法
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "", "legacy":
		return RollingHash{}, nil
	case "hmac":
		return HMACSHA256{}, nil
	default:
		return nil, fmt.Errorf("unknown code algorithm %q", name)
	}
}

// Code 当前时间桶的购买码
type Code struct {
	Value      string    `json:"code"`
	Bucket     int64     `json:"bucket"`
	ValidUntil time.Time `json:"validUntil"`
}

// Generator 购买码生成与校验
type Generator struct {
	algorithm Algorithm
	now       func() time.Time
}

// NewGenerator 创建生成器，clock 为空时使用 time.Now
func NewGenerator(algorithm Algorithm, clock func() time.Time) *Generator {
	if algorithm == nil {
		algorithm = RollingHash{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &Generator{algorithm: algorithm, now: clock}
}

// Now 返回生成器使用的当前时间
func (g *Generator) Now() time.Time {
	return g.now()
}

// Generate 纯函数：相同输入得到相同购买码
func (g *Generator) Generate(slug, secret string, bucket int64) string {
	return g.algorithm.Derive(slug, secret, bucket)
}

// Current 返回当前时间桶的购买码，有效期截止到下一个时间桶结束
func (g *Generator) Current(slug, secret string) Code {
	bucket := Bucket(g.now())
	return Code{
		Value:      g.Generate(slug, secret, bucket),
		Bucket:     bucket,
		ValidUntil: BucketStart(bucket + 2),
	}
}

// Verify 校验购买码，接受当前及前一个时间桶
func (g *Generator) Verify(code, slug, secret string) bool {
	return g.VerifyAt(code, slug, secret, g.now())
}

// VerifyAt 以指定时间校验购买码
func (g *Generator) VerifyAt(code, slug, secret string, t time.Time) bool {
	if code == "" {
		return false
	}
	bucket := Bucket(t)
	for _, b := range []int64{bucket, bucket - 1} {
		expected := g.Generate(slug, secret, b)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return true
		}
	}
	return false
}
