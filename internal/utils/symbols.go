package utils

import "strings"

// maxSymbolLen matches the column width in the positions table.
const maxSymbolLen = 12

// NormalizeSymbol uppercases a ticker symbol and strips surrounding
// whitespace. The normalized form is the storage key.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// IsValidSymbol reports whether a normalized symbol is a plausible ticker:
// non-empty, bounded length, uppercase letters, digits, dots and dashes only
// (BRK.B, BF-B).
func IsValidSymbol(symbol string) bool {
	if symbol == "" || len(symbol) > maxSymbolLen {
		return false
	}
	for _, r := range symbol {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-':
		default:
			return false
		}
	}
	return true
}
