package signup

import (
	"strings"
	"unicode"
)

// Password policy messages; the first violated rule wins.
const (
	MsgPasswordTooShort  = "password must be at least 8 characters"
	MsgPasswordTooLong   = "password must be at most 64 characters"
	MsgPasswordNoLetter  = "password needs a letter"
	MsgPasswordNoDigit   = "password needs a digit"
	MsgPasswordNoSpecial = "password needs a special character"
	MsgPasswordsMismatch = "passwords do not match"
)

const specialCharacterSet = "!@#$%^&*()_+-=[]{}|;:'\",.<>/?`~\\"

// PasswordPolicyError returns the first violated policy rule's message,
// or the empty string when the password satisfies the policy.
func PasswordPolicyError(password string) string {
	if len(password) < 8 {
		return MsgPasswordTooShort
	}
	if len(password) > 64 {
		return MsgPasswordTooLong
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		case strings.ContainsRune(specialCharacterSet, c):
			hasSpecial = true
		}
	}
	if !hasLetter {
		return MsgPasswordNoLetter
	}
	if !hasDigit {
		return MsgPasswordNoDigit
	}
	if !hasSpecial {
		return MsgPasswordNoSpecial
	}
	return ""
}
