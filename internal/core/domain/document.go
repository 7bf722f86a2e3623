package domain

import "strings"

// DigitsOnly strips every non-digit rune from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidTaxID checks a national tax id (CPF): 11 digits after normalisation,
// not a repetition of one digit, and both check digits match.
func ValidTaxID(s string) bool {
	d := DigitsOnly(s)
	if len(d) != 11 {
		return false
	}
	if strings.Count(d, d[:1]) == len(d) {
		return false
	}
	return checkDigit(d[:9], 10) == int(d[9]-'0') &&
		checkDigit(d[:10], 11) == int(d[10]-'0')
}

// checkDigit computes a weighted sum mod 11 with weights starting at first
// and decreasing; remainders of 10 or more reduce to 0.
func checkDigit(digits string, first int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (first - i)
	}
	r := (sum * 10) % 11
	if r >= 10 {
		return 0
	}
	return r
}

// ValidPhone accepts 10 or 11 digits (area code + number).
func ValidPhone(s string) bool {
	n := len(DigitsOnly(s))
	return n == 10 || n == 11
}

// ValidPostalCode accepts exactly 8 digits.
func ValidPostalCode(s string) bool {
	return len(DigitsOnly(s)) == 8
}
