package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeySearchArgs(t *testing.T) {
	a, err := ParseKeySearchArgs([]string{"^user:[0-9]+$", "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "^user:[0-9]+$", a.Pattern.String())
	assert.True(t, a.Pattern.Match("user:42"))
	assert.False(t, a.Pattern.Match("user:x"))

	_, err = ParseKeySearchArgs(nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindArity))
	assert.Contains(t, err.Error(), "#1 (pattern)")

	_, err = ParseKeySearchArgs([]string{"a(b"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPattern))
	assert.Contains(t, err.Error(), "missing closing )")
}

func TestParseValueSearchArgs(t *testing.T) {
	a, err := ParseValueSearchArgs([]string{"log:*", "GET"})
	require.NoError(t, err)
	assert.Equal(t, "log:*", a.Mask)
	assert.True(t, a.Pattern.Match("GET /"))

	a, err = ParseValueSearchArgs([]string{"", "GET"})
	require.NoError(t, err)
	assert.Equal(t, "*", a.Mask)

	_, err = ParseValueSearchArgs([]string{"*"})
	assert.True(t, IsKind(err, KindArity))
	assert.Contains(t, err.Error(), "#2 (pattern)")

	// mask is checked before the pattern
	_, err = ParseValueSearchArgs(nil)
	assert.Contains(t, err.Error(), "#1 (mask)")

	_, err = ParseValueSearchArgs([]string{"*", "+"})
	assert.True(t, IsKind(err, KindPattern))
}

func TestPatternCache(t *testing.T) {
	require.NoError(t, Init(Options{PatternCacheSize: 2}))
	defer func() { require.NoError(t, Shutdown()) }()

	hits, misses := patternCacheHits.Get(), patternCacheMisses.Get()

	first, err := ParseKeySearchArgs([]string{"^cached$"})
	require.NoError(t, err)
	second, err := ParseKeySearchArgs([]string{"^cached$"})
	require.NoError(t, err)

	assert.Same(t, first.Pattern.re, second.Pattern.re)
	assert.Equal(t, hits+1, patternCacheHits.Get())
	assert.Equal(t, misses+1, patternCacheMisses.Get())

	// invalid patterns are never cached
	for i := 0; i < 2; i++ {
		_, err = ParseKeySearchArgs([]string{"(bad"})
		assert.True(t, IsKind(err, KindPattern))
	}
	assert.Equal(t, hits+1, patternCacheHits.Get())
}

func TestPatternCacheDisabled(t *testing.T) {
	require.NoError(t, Init(Options{PatternCacheSize: 0}))

	first, err := ParseKeySearchArgs([]string{"x"})
	require.NoError(t, err)
	second, err := ParseKeySearchArgs([]string{"x"})
	require.NoError(t, err)
	assert.NotSame(t, first.Pattern.re, second.Pattern.re)

	require.NoError(t, Shutdown())
}

func TestResponseString(t *testing.T) {
	assert.Equal(t, "(nil)", NoResults{}.String())
	assert.Equal(t, "(integer) 3", Count(3).String())
	assert.Equal(t, "1) \"a\"\n2) \"b\"", KeyList{"a", "b"}.String())
}

func TestAggregator(t *testing.T) {
	agg := NewAggregator(0)
	assert.Equal(t, NoResults{}, agg.Response())

	for _, k := range []string{"b", "a", "b", "c", "a"} {
		agg.Add(k)
	}
	assert.Equal(t, 3, agg.Len())
	assert.Equal(t, KeyList{"b", "a", "c"}, agg.Response())

	assert.Equal(t, NoResults{}, CountResponse(0))
	assert.Equal(t, Count(4), CountResponse(4))
}
