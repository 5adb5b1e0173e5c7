// Package strx holds string helpers for values that may be unset.
package strx

// Coalesce returns the first non-empty string, or "" if all are empty.
func Coalesce(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
