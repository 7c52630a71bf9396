package search

import (
	"regexp"
	"sync/atomic"

	"github.com/ValentinKolb/rgKV/lib/db/util"
	lru "github.com/hashicorp/golang-lru"
)

// KeySearchArgs are the arguments of rgkeys and rgdelete.
type KeySearchArgs struct {
	Pattern Predicate
}

// ValueSearchArgs are the arguments of rgvalues.
type ValueSearchArgs struct {
	Mask    string // glob mask for the enumeration, evaluated by the store
	Pattern Predicate
}

// ParseKeySearchArgs parses `<pattern>`.
// args must not contain the command name. Surplus arguments are ignored.
func ParseKeySearchArgs(args []string) (KeySearchArgs, error) {
	raw, err := argument(args, 0, "pattern")
	if err != nil {
		return KeySearchArgs{}, err
	}
	p, err := compilePattern(raw)
	if err != nil {
		return KeySearchArgs{}, err
	}
	return KeySearchArgs{Pattern: p}, nil
}

// ParseValueSearchArgs parses `<mask> <pattern>`.
// args must not contain the command name. An empty mask selects all keys.
func ParseValueSearchArgs(args []string) (ValueSearchArgs, error) {
	mask, err := argument(args, 0, "mask")
	if err != nil {
		return ValueSearchArgs{}, err
	}
	raw, err := argument(args, 1, "pattern")
	if err != nil {
		return ValueSearchArgs{}, err
	}
	p, err := compilePattern(raw)
	if err != nil {
		return ValueSearchArgs{}, err
	}
	if mask == "" {
		mask = util.MatchAll
	}
	return ValueSearchArgs{Mask: mask, Pattern: p}, nil
}

func argument(args []string, pos int, name string) (string, error) {
	if pos >= len(args) {
		return "", newError(KindArity, nil, "missing argument #%d (%s)", pos+1, name)
	}
	return args[pos], nil
}

// --------------------------------------------------------------------------
// Pattern Cache
// --------------------------------------------------------------------------

// patterns memoizes compiled patterns by their source text. nil disables caching.
var patterns atomic.Pointer[lru.Cache]

// compilePattern compiles raw, consulting the pattern cache first.
// Patterns that fail to compile are never cached.
func compilePattern(raw string) (Predicate, error) {
	cache := patterns.Load()
	if cache != nil {
		if re, ok := cache.Get(raw); ok {
			patternCacheHits.Inc()
			return Predicate{re: re.(*regexp.Regexp)}, nil
		}
		patternCacheMisses.Inc()
	}

	re, err := regexp.Compile(raw)
	if err != nil {
		return Predicate{}, newError(KindPattern, err, "invalid pattern %q", raw)
	}
	if cache != nil {
		cache.Add(raw, re)
	}
	return Predicate{re: re}, nil
}
