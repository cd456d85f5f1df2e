package utils

import "strings"

func ToPointer[T any](value T) *T {
	return &value
}

// NormalizeSymbol trims a user-typed ticker and upper-cases it.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
