package signup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordPolicyError(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"compliant", "abcd1234!", ""},
		{"exactly 8 chars", "abc123!z", ""},
		{"too short", "a1!", MsgPasswordTooShort},
		{"empty", "", MsgPasswordTooShort},
		{"too long", strings.Repeat("a1!", 22), MsgPasswordTooLong},
		{"no letter", "12345678!", MsgPasswordNoLetter},
		{"no digit", "abcdefgh!", MsgPasswordNoDigit},
		{"no special", "abcd1234", MsgPasswordNoSpecial},
		{"backtick counts as special", "abcd1234`", ""},
		{"backslash counts as special", `abcd1234\`, ""},
		{"space is not special", "abcd 1234", MsgPasswordNoSpecial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, PasswordPolicyError(tt.password))
		})
	}
}

func TestPasswordPolicyError_FirstRuleWins(t *testing.T) {
	// Short and missing everything: length is reported first.
	require.Equal(t, MsgPasswordTooShort, PasswordPolicyError("!"))
	// Long password with no digit: length is reported first.
	require.Equal(t, MsgPasswordTooLong, PasswordPolicyError(strings.Repeat("a!", 40)))
}
