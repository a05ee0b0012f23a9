package dspager

import "github.com/samber/lo"

const (
	// NoLimit disables a limit: every row fits in one page or window.
	NoLimit = 0
	// MaxPerPageLimit caps page sizes coming from API payloads.
	MaxPerPageLimit = 100
	// DefaultMaxPerPage is the page size used when none is given.
	DefaultMaxPerPage = 10
)

// IsNormalizedLimitMax clamps a requested page size into [1, maxLimit],
// substituting DefaultMaxPerPage for missing (<= 0) values. The flag reports
// whether limit was already acceptable as is.
func IsNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	normalized := lo.Clamp(lo.Ternary(limit <= 0, DefaultMaxPerPage, limit), 1, maxLimit)
	return normalized, normalized == limit
}

func NormalizeLimitMax(limit int, maxLimit int) int {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

// NormalizeLimit normalizes a page size against MaxPerPageLimit.
func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, MaxPerPageLimit)
}
