package security

import "unicode"

// MinPasswordLength is the shortest password accepted for agent accounts.
const MinPasswordLength = 8

// IsStrongPassword reports whether password has at least MinPasswordLength
// characters with an upper-case letter, a lower-case letter, a digit and a
// symbol. Anything that is neither a letter nor a digit counts as a symbol.
func IsStrongPassword(password string) bool {
	var length int
	var upper, lower, digit, symbol bool
	for _, r := range password {
		length++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			symbol = true
		}
	}
	return length >= MinPasswordLength && upper && lower && digit && symbol
}
