package util

import (
	"strconv"
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// ParseFloat parses a string to a float64, returning defaultValue if parsing fails
func ParseFloat(s string, defaultValue float64) float64 {
	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return val
	}
	return defaultValue
}

// ParseLimitOffset parses pagination query values with bounds applied.
func ParseLimitOffset(limitStr, offsetStr string, defaultLimit, maxLimit int) (int, int) {
	limit := ParseInt(limitStr, defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := ParseInt(offsetStr, 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
