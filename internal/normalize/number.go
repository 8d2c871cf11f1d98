package normalize

import "strings"

var ones = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = [...]string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

var scales = [...]string{"", "thousand", "million", "billion", "trillion"}

// NumberToWords deterministically spells out a non-negative base-10
// digit string in English. Four-digit numbers in [1000,9999] whose last
// two digits are not 00 (e.g. 1984, 2024) spell as two two-digit groups,
// matching conventional English year reading; everything else (including
// 1000 or 1900) spells as a cardinal number.
func NumberToWords(digits string) string {
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return "zero"
	}
	if n := len(digits); n == 4 {
		if words, ok := yearWords(digits); ok {
			return words
		}
	}
	return cardinalWords(digits)
}

func yearWords(digits string) (string, bool) {
	hi := digits[:2]
	lo := digits[2:]
	hiN := twoDigitValue(hi)
	loN := twoDigitValue(lo)
	if hiN < 10 || loN == 0 {
		return "", false
	}
	return twoDigitWords(hiN) + " " + twoDigitWords(loN), true
}

func twoDigitValue(s string) int {
	v := 0
	for _, r := range s {
		v = v*10 + int(r-'0')
	}
	return v
}

func twoDigitWords(n int) string {
	if n < 20 {
		return ones[n]
	}
	t, o := n/10, n%10
	if o == 0 {
		return tens[t]
	}
	return tens[t] + "-" + ones[o]
}

// cardinalWords spells out an arbitrarily long digit string as a cardinal
// number by splitting into groups of three from the right.
func cardinalWords(digits string) string {
	groups := groupByThree(digits)
	parts := make([]string, 0, len(groups))
	n := len(groups)
	for i, g := range groups {
		if g == 0 {
			continue
		}
		scaleIdx := n - i - 1
		words := threeDigitWords(g)
		if scaleIdx > 0 && scaleIdx < len(scales) {
			words += " " + scales[scaleIdx]
		}
		parts = append(parts, words)
	}
	if len(parts) == 0 {
		return "zero"
	}
	return strings.Join(parts, " ")
}

func groupByThree(digits string) []int {
	// pad to a multiple of 3 from the left
	pad := (3 - len(digits)%3) % 3
	padded := strings.Repeat("0", pad) + digits
	var groups []int
	for i := 0; i < len(padded); i += 3 {
		v := 0
		for _, r := range padded[i : i+3] {
			v = v*10 + int(r-'0')
		}
		groups = append(groups, v)
	}
	return groups
}

func threeDigitWords(n int) string {
	h, rest := n/100, n%100
	var parts []string
	if h > 0 {
		parts = append(parts, ones[h]+" hundred")
	}
	if rest > 0 {
		parts = append(parts, twoDigitWords(rest))
	}
	if len(parts) == 0 {
		return "zero"
	}
	return strings.Join(parts, " ")
}
