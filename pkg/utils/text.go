package utils

import (
	"strings"
	"unicode"
)

var digitReplacer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4", "۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4", "٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

var letterReplacer = strings.NewReplacer(
	"ي", "ی", // Arabic Yeh to Farsi Yeh
	"ك", "ک", // Arabic Kaf to Farsi Kaf
	"ة", "ه", // Teh Marbuta to Heh
)

// NormalizeDigits converts Persian and Arabic numerals to ASCII numerals
func NormalizeDigits(input string) string {
	return digitReplacer.Replace(input)
}

// NormalizeSearchText folds text for case-insensitive substring matching.
// Runs of whitespace become a single space.
func NormalizeSearchText(input string) string {
	input = letterReplacer.Replace(NormalizeDigits(input))
	return strings.Join(strings.Fields(strings.Map(unicode.ToLower, input)), " ")
}

// ContainsFold reports whether needle occurs in haystack after normalization.
// The empty needle matches everything.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(NormalizeSearchText(haystack), NormalizeSearchText(needle))
}
