package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var errDanglingEscape = errors.New("trailing backslash escapes nothing")

// MatchAll is the mask that selects every key.
const MatchAll = "*"

// Mask is a compiled host glob mask. The syntax follows the usual key store
// conventions:
//
//   - any sequence of characters (including none)
//     ?       exactly one character
//     [abc]   one character of the set
//     [^a]    one character not in the set ([!a] works as well)
//     [a-z]   one character of the range
//     \x      the literal character x
//
// Braces are literal characters, there is no alternation.
type Mask struct {
	raw string
	g   glob.Glob
}

// CompileMask compiles a glob mask. An empty mask is treated as MatchAll.
func CompileMask(mask string) (Mask, error) {
	if mask == "" || mask == MatchAll {
		return Mask{raw: MatchAll}, nil
	}

	// no separators: '*' crosses ':' and '/' like any other character
	translated, err := translateMask(mask)
	if err != nil {
		return Mask{}, fmt.Errorf("invalid mask %q: %w", mask, err)
	}
	g, err := glob.Compile(translated)
	if err != nil {
		return Mask{}, fmt.Errorf("invalid mask %q: %w", mask, err)
	}
	return Mask{raw: mask, g: g}, nil
}

// Match reports whether the key is selected by the mask.
func (m Mask) Match(key string) bool {
	if m.g == nil {
		return true
	}
	return m.g.Match(key)
}

// String returns the mask as it was supplied.
func (m Mask) String() string {
	return m.raw
}

// translateMask rewrites the host mask syntax into the gobwas/glob syntax.
// '[^' becomes '[!' and braces are escaped. A trailing '\' escapes nothing and is an error.
func translateMask(mask string) (string, error) {
	var b strings.Builder
	b.Grow(len(mask) + 4)

	inClass := false
	for i := 0; i < len(mask); i++ {
		c := mask[i]
		switch {
		case c == '\\':
			if i+1 == len(mask) {
				return "", errDanglingEscape
			}
			b.WriteByte(c)
			i++
			b.WriteByte(mask[i])
		case inClass:
			if c == ']' {
				inClass = false
			}
			b.WriteByte(c)
		case c == '[':
			inClass = true
			b.WriteByte(c)
			if i+1 < len(mask) && mask[i+1] == '^' {
				b.WriteByte('!')
				i++
			}
		case c == '{' || c == '}':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
