package dashboard

import "unicode"

// Strength is the rough quality score of a candidate password.
type Strength int

const (
	// Weak scores 0-1 of the five checks.
	Weak Strength = iota
	// Fair scores 2.
	Fair
	// Good scores 3.
	Good
	// Strong scores 4-5.
	Strong
)

// String returns the display label for the strength meter.
func (s Strength) String() string {
	switch s {
	case Fair:
		return "Fair"
	case Good:
		return "Good"
	case Strong:
		return "Strong"
	default:
		return "Weak"
	}
}

// CheckStrength scores a password on length (>6 and >10), uppercase, digit,
// and symbol presence.
func CheckStrength(password string) Strength {
	score := 0
	if len(password) > 6 {
		score++
	}
	if len(password) > 10 {
		score++
	}

	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			symbol = true
		}
	}
	if upper {
		score++
	}
	if digit {
		score++
	}
	if symbol {
		score++
	}

	switch {
	case score <= 1:
		return Weak
	case score == 2:
		return Fair
	case score == 3:
		return Good
	default:
		return Strong
	}
}
