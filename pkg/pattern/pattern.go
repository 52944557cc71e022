// Package pattern compiles route-pattern strings into matchers.
//
// A pattern is a normalized path template built from literal segments and
// :name dynamic segments, one name per segment:
//
//	/profile
//	/game/:id
//	/game/:id/round/:round
//
// The catch-all pattern "*" is recognized by the route table directly and is
// not compiled here.
package pattern

import (
	"regexp"
	"strings"

	"github.com/pathline-dev/pathline/internal/errors"
)

// Compiled is the result of compiling a route pattern.
type Compiled struct {
	// Pattern is the normalized source pattern.
	Pattern string

	// ParamNames are the :name identifiers in left-to-right order.
	// The order matches the capture order of the matcher.
	ParamNames []string

	// matcher is the anchored regular expression for the whole path.
	matcher *regexp.Regexp
}

// IsDynamic reports whether the pattern has any :name segments.
func (c *Compiled) IsDynamic() bool {
	return len(c.ParamNames) > 0
}

// Match tests a normalized path against the pattern. On a match it returns
// the raw (still percent-encoded) capture values in ParamNames order.
func (c *Compiled) Match(path string) ([]string, bool) {
	m := c.matcher.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

// Compile turns a route pattern into a matcher plus ordered parameter names.
//
// Literal parts are escaped so regex metacharacters in the pattern match
// themselves. Each :name segment becomes a capturing group matching one or
// more non-slash characters. The matcher is anchored at both ends: it matches
// the whole normalized path, never a prefix.
//
// Duplicate parameter names within one pattern are rejected: a repeated name
// would silently overwrite the earlier capture in the params map.
func Compile(pat string) (*Compiled, error) {
	if !strings.HasPrefix(pat, "/") {
		return nil, errors.New("P001").WithDetail("pattern %q", pat)
	}

	segments := strings.Split(strings.TrimPrefix(pat, "/"), "/")

	var expr strings.Builder
	var names []string
	seen := map[string]bool{}
	expr.WriteString("^")

	if pat == "/" {
		// Root matches only itself.
		expr.WriteString("/")
	} else {
		for _, seg := range segments {
			expr.WriteString("/")
			if strings.HasPrefix(seg, ":") {
				name := seg[1:]
				if name == "" {
					return nil, errors.New("P003").WithDetail("pattern %q", pat)
				}
				if seen[name] {
					return nil, errors.New("P002").WithDetail("parameter %q in pattern %q", name, pat)
				}
				seen[name] = true
				names = append(names, name)
				expr.WriteString("([^/]+)")
			} else {
				expr.WriteString(regexp.QuoteMeta(seg))
			}
		}
	}

	expr.WriteString("$")

	matcher, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, errors.Newf(errors.CategoryPattern, "compiling pattern %q", pat).Wrap(err)
	}

	return &Compiled{
		Pattern:    pat,
		ParamNames: names,
		matcher:    matcher,
	}, nil
}
