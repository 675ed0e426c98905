package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateParseRoundTrip(t *testing.T) {
	for _, f := range []Family{Current, Finalized} {
		name := Generate(f, 1732000000123456789)
		ts, ok := Parse(f, name)
		assert.True(t, ok)
		assert.Equal(t, Timestamp(1732000000123456789), ts)
	}
}

func TestParseRejectsWrongFamily(t *testing.T) {
	name := Generate(Current, 42)
	_, ok := Parse(Finalized, name)
	assert.False(t, ok)
}

func TestParseRejectsMalformedNames(t *testing.T) {
	cases := []string{
		"current-42.bin",              // too short, not zero-padded to Width
		"current-0000000000000000042",  // missing suffix
		"finalized-abc12345678901234.bin",
		"other-00000000000000000042.bin",
		"",
	}
	for _, c := range cases {
		_, _, ok := ParseAny(c)
		assert.False(t, ok, "expected %q to be rejected", c)
	}
}

func TestParseAnyDistinguishesFamily(t *testing.T) {
	f, ts, ok := ParseAny(Generate(Finalized, 7))
	assert.True(t, ok)
	assert.Equal(t, Finalized, f)
	assert.Equal(t, Timestamp(7), ts)
}

func TestBumpIsStrictlyIncreasing(t *testing.T) {
	ts := Timestamp(100)
	assert.Greater(t, Bump(ts), ts)
}

func TestToFromTimestampRoundTrip(t *testing.T) {
	now := FromTimestamp(123456789)
	assert.Equal(t, Timestamp(123456789), ToTimestamp(now))
}
