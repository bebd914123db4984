package shared

import "strings"

const cacheKeySeparator = ":"

// BuildCacheKey joins prefix and parts into a single colon separated key.
// Empty parts are kept so keys stay positional.
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}
