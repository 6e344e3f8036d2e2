package client

import "unicode"

// Strength is the advisory password-strength level shown next to the
// meter. It never blocks submission; the hard gate is the minimum
// length rule.
type Strength int

const (
	VeryWeak Strength = iota
	Weak
	Fair
	Good
	Strong
)

func (s Strength) String() string {
	switch s {
	case Weak:
		return "Weak"
	case Fair:
		return "Fair"
	case Good:
		return "Good"
	case Strong:
		return "Strong"
	default:
		return "Very Weak"
	}
}

// PasswordStrength counts the satisfied criteria (length >= 8,
// uppercase, lowercase, digit, symbol) and maps the score onto the
// five levels.
func PasswordStrength(password string) Strength {
	if password == "" {
		return VeryWeak
	}
	score := 0
	if len(password) >= 8 {
		score++
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSymbol} {
		if ok {
			score++
		}
	}
	if score > int(Strong) {
		score = int(Strong)
	}
	return Strength(score)
}
