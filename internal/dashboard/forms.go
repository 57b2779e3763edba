package dashboard

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidThreshold = errors.New("threshold must be a positive number")
	ErrInvalidPrices    = errors.New("prices must be numbers")
)

// ParseThreshold accepts a positive, finite decimal number.
func ParseThreshold(raw string) (float64, error) {
	v, ok := parseNumber(raw)
	if !ok || v <= 0 {
		return 0, ErrInvalidThreshold
	}
	return v, nil
}

// ParsePrices requires both values to be finite numbers.
func ParsePrices(ethRaw, bnbRaw string) (eth, bnb float64, err error) {
	eth, okETH := parseNumber(ethRaw)
	bnb, okBNB := parseNumber(bnbRaw)
	if !okETH || !okBNB {
		return 0, 0, ErrInvalidPrices
	}
	return eth, bnb, nil
}

func parseNumber(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
