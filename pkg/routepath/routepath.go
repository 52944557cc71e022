// Package routepath normalizes navigation paths and parses their query
// strings according to the routing contract.
//
// Normalization applies the following transformations:
//   - Ensure a single leading slash (profile → /profile)
//   - Collapse repeated slashes (/game//42 → /game/42)
//   - Strip the trailing slash, except for the root (/login/ → /login)
//
// Query strings are parsed flat: key→value with the last value winning on
// duplicate keys. There is no array or bracket syntax support.
package routepath

import (
	"net/url"
	"strings"
)

// Split separates a raw navigation target into its matchable path, its query
// string (without the leading "?"), and its fragment (without the leading
// "#"). Only the path participates in route matching.
func Split(input string) (path, query, fragment string) {
	path = input
	if i := strings.IndexByte(path, '#'); i >= 0 {
		fragment = path[i+1:]
		path = path[:i]
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		query = path[i+1:]
		path = path[:i]
	}
	return path, query, fragment
}

// Normalize canonicalizes a path for matching and history bookkeeping.
// The input must not contain a query string or fragment; use Split first.
func Normalize(path string) string {
	if path == "" {
		return "/"
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	// Collapse repeated slashes.
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}

	// Strip trailing slash, except for root.
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}

	return path
}

// Segments splits a normalized path into its segments.
// The root path yields no segments.
func Segments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// DecodeSegment decodes percent-escapes in a single path segment.
// Undecodable segments are returned as-is rather than failing the match.
func DecodeSegment(segment string) string {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return decoded
}

// ParseQuery parses a query string into a flat key→value map.
// Duplicate keys keep the last value. Keys and values are URL-decoded;
// pairs whose key fails to decode are dropped.
func ParseQuery(query string) map[string]string {
	out := make(map[string]string)
	if query == "" {
		return out
	}

	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		decodedKey, err := url.QueryUnescape(key)
		if err != nil || decodedKey == "" {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			decodedValue = value
		}
		out[decodedKey] = decodedValue
	}

	return out
}

// BuildQuery encodes a flat key→value map back into a query string.
// Keys are emitted in sorted order for stable output.
func BuildQuery(query map[string]string) string {
	if len(query) == 0 {
		return ""
	}
	values := url.Values{}
	for k, v := range query {
		values.Set(k, v)
	}
	return values.Encode()
}
