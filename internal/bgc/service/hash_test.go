package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"idcheck/internal/bgc"
	"idcheck/internal/document"
)

func TestHasher(t *testing.T) {
	keyed := NewHasher([]byte("k1"))

	t.Run("stable and normalized", func(t *testing.T) {
		assert.Equal(t, keyed.Subject("899999914"), keyed.Subject("899-99-9914"))
		assert.Len(t, keyed.Subject("899999914"), 64)
	})

	t.Run("key changes the digest", func(t *testing.T) {
		assert.NotEqual(t, keyed.Subject("899999914"), NewHasher([]byte("k2")).Subject("899999914"))
		assert.NotEqual(t, keyed.Subject("899999914"), NewHasher(nil).Subject("899999914"))
	})

	t.Run("parts are separated", func(t *testing.T) {
		assert.NotEqual(t, keyed.Sum("ab", "c"), keyed.Sum("a", "bc"))
	})

	t.Run("oversized key is truncated", func(t *testing.T) {
		long := []byte(strings.Repeat("x", 100))
		assert.Equal(t, NewHasher(long[:64]).Sum("a"), NewHasher(long).Sum("a"))
	})
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "MARY ANN", normalizeName("  mary   Ann "))
}

func TestMinimizeDoesNotMutateInput(t *testing.T) {
	rec := document.Map(
		document.F("names", document.Seq()),
		document.F("addresses", document.Seq()),
		document.F("date_of_birth", document.String("1990-03-15")),
	)
	in := &bgc.TraceResult{OrderID: "1", Order: document.Map(document.F("ssn", document.String("1"))), Records: []document.Document{rec}}

	out := MinimizeTrace(in)

	assert.Equal(t, []string{"date_of_birth"}, out.Records[0].Keys())
	assert.Equal(t, []string{"names", "addresses", "date_of_birth"}, in.Records[0].Keys())
	assert.False(t, in.Order.IsNull())
	assert.Nil(t, MinimizeTrace(nil))
	assert.Nil(t, MinimizeValidate(nil))
}
