package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucket(t *testing.T) {
	assert.Equal(t, int64(5666666), Bucket(time.UnixMilli(1700000000000)))
	assert.Equal(t, int64(0), Bucket(time.UnixMilli(299999)))
	assert.Equal(t, int64(1), Bucket(time.UnixMilli(300000)))
	assert.Equal(t, time.UnixMilli(300000), BucketStart(1))
}

func TestRollingHash(t *testing.T) {
	algo := RollingHash{}

	t.Run("Known values", func(t *testing.T) {
		assert.Equal(t, "829817", algo.Derive("acme", "abcd", 5000000))
		assert.Equal(t, "829818", algo.Derive("acme", "abcd", 5000001))
		assert.Equal(t, "480773", algo.Derive("padaria-sol", "s3cr3t", 5894123))
		assert.Equal(t, "615842", algo.Derive("café", "ñandú", 1))
	})

	t.Run("Deterministic and six digits", func(t *testing.T) {
		for b := int64(0); b < 500; b++ {
			code := algo.Derive("loja", "segredo", b)
			assert.Len(t, code, 6)
			assert.Equal(t, code, algo.Derive("loja", "segredo", b))
			assert.GreaterOrEqual(t, code, "100000")
		}
	})
}

func TestHMACSHA256(t *testing.T) {
	algo := HMACSHA256{}

	assert.Equal(t, "248782", algo.Derive("acme", "abcd", 5000000))
	assert.NotEqual(t, algo.Derive("acme", "abcd", 5000000), algo.Derive("acme", "abce", 5000000))
	assert.Len(t, algo.Derive("x", "yyyy", 42), 6)
}

func TestParseAlgorithm(t *testing.T) {
	a, err := ParseAlgorithm("legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", a.Name())

	a, err = ParseAlgorithm("hmac")
	require.NoError(t, err)
	assert.Equal(t, "hmac", a.Name())

	_, err = ParseAlgorithm("sha1")
	assert.Error(t, err)
}

func TestGeneratorWindow(t *testing.T) {
	base := BucketStart(5000000).Add(4*time.Minute + 59*time.Second)
	now := base
	g := NewGenerator(RollingHash{}, func() time.Time { return now })

	code := g.Current("acme", "abcd")
	assert.Equal(t, "829817", code.Value)
	assert.Equal(t, int64(5000000), code.Bucket)
	assert.Equal(t, BucketStart(5000002), code.ValidUntil)

	t.Run("Same bucket", func(t *testing.T) {
		assert.True(t, g.VerifyAt(code.Value, "acme", "abcd", base))
	})

	t.Run("Next bucket grace", func(t *testing.T) {
		assert.True(t, g.VerifyAt(code.Value, "acme", "abcd", BucketStart(5000001)))
		assert.True(t, g.VerifyAt(code.Value, "acme", "abcd", BucketStart(5000002).Add(-time.Millisecond)))
	})

	t.Run("Expired after two buckets", func(t *testing.T) {
		assert.False(t, g.VerifyAt(code.Value, "acme", "abcd", BucketStart(5000002)))
		assert.False(t, g.VerifyAt(code.Value, "acme", "abcd", BucketStart(5000010)))
	})

	t.Run("Future code rejected", func(t *testing.T) {
		future := g.Generate("acme", "abcd", 5000001)
		assert.False(t, g.VerifyAt(future, "acme", "abcd", base))
	})

	t.Run("Wrong secret or empty code", func(t *testing.T) {
		assert.False(t, g.VerifyAt(code.Value, "acme", "abce", base))
		assert.False(t, g.VerifyAt("", "acme", "abcd", base))
	})

	t.Run("Verify uses clock", func(t *testing.T) {
		now = BucketStart(5000001)
		assert.True(t, g.Verify(code.Value, "acme", "abcd"))
		now = BucketStart(5000002)
		assert.False(t, g.Verify(code.Value, "acme", "abcd"))
	})
}
