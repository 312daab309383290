package signup

import "github.com/aihealth/authcore/internal/emailx"

// Gate is the signup-form state machine. It consumes field-change and
// duplicate-check events and answers, pull-based, whether submission is
// currently permitted. It is pure client-side state: no I/O, no clock.
//
// The submit decision re-derives every predicate from the live field
// values at query time instead of trusting flags set by events; the
// explicit lastCheckedEmail equality guard in CanSubmit defends against
// event-ordering bugs even though EmailChanged already clears the
// duplicate-check flag.
type Gate struct {
	email   string
	pw      string
	confirm string

	dupChecked       bool
	lastCheckedEmail string
	checkInFlight    bool
	termsAccepted    bool
}

func NewGate() *Gate {
	return &Gate{}
}

// EmailChanged records a new email value. Any edit unconditionally
// invalidates a prior duplicate check and re-arms the check action.
func (g *Gate) EmailChanged(email string) {
	g.email = email
	g.dupChecked = false
	g.checkInFlight = false
}

func (g *Gate) PasswordChanged(password string) {
	g.pw = password
}

func (g *Gate) ConfirmPasswordChanged(password string) {
	g.confirm = password
}

// DuplicateCheckRequested marks a check as in flight, disabling the
// triggering control until DuplicateCheckCompleted arrives.
func (g *Gate) DuplicateCheckRequested() {
	g.checkInFlight = true
}

// DuplicateCheckCompleted consumes a check result. Only an Available
// verdict unlocks submission, and only for the email that was actually
// checked; AlreadyExists and CheckFailed both leave the gate locked.
func (g *Gate) DuplicateCheckCompleted(res DuplicateCheckResult) {
	g.checkInFlight = false
	g.lastCheckedEmail = res.Email
	g.dupChecked = res.Status == CheckAvailable
}

func (g *Gate) TermsToggled(accepted bool) {
	g.termsAccepted = accepted
}

// Email returns the live raw email value.
func (g *Gate) Email() string { return g.email }

// Password returns the live primary password value.
func (g *Gate) Password() string { return g.pw }

// EmailSyntaxValid reports whether the live email parses as an address.
func (g *Gate) EmailSyntaxValid() bool {
	return emailx.IsValid(g.email)
}

// PasswordPolicyError returns the current policy violation, if any.
func (g *Gate) PasswordPolicyError() string {
	return PasswordPolicyError(g.pw)
}

// PasswordsMatch reports whether the password and confirmation agree.
// An empty primary password never counts as a match.
func (g *Gate) PasswordsMatch() bool {
	return g.pw != "" && g.pw == g.confirm
}

// DuplicateCheckPassed reports whether an Available verdict is on file
// for the live email. A stale verdict for a previously checked email
// counts as not passed.
func (g *Gate) DuplicateCheckPassed() bool {
	return g.dupChecked && emailx.Normalize(g.email) == g.lastCheckedEmail
}

// CheckInFlight reports whether a duplicate check is currently running.
func (g *Gate) CheckInFlight() bool { return g.checkInFlight }

// TermsAccepted reports the live terms checkbox state.
func (g *Gate) TermsAccepted() bool { return g.termsAccepted }

// CanRequestCheck reports whether the duplicate-check action should be
// enabled: a syntactically valid email, no check in flight, and no
// Available verdict already on file for this email.
func (g *Gate) CanRequestCheck() bool {
	return g.EmailSyntaxValid() && !g.checkInFlight && !g.DuplicateCheckPassed()
}

// CanSubmit reports whether submission is permitted. All predicates
// must hold at once: email syntax, password policy, confirmation match,
// a completed Available duplicate check, and accepted terms.
func (g *Gate) CanSubmit() bool {
	return g.EmailSyntaxValid() &&
		g.PasswordPolicyError() == "" &&
		g.PasswordsMatch() &&
		g.DuplicateCheckPassed() &&
		g.termsAccepted
}

// Warning returns the user-facing message for the password fields:
// a mismatch (shown only when both fields are non-empty and differ)
// takes precedence over the first policy violation (shown only when
// the primary password is non-empty); otherwise no message.
func (g *Gate) Warning() string {
	if g.pw != "" && g.confirm != "" && g.pw != g.confirm {
		return MsgPasswordsMismatch
	}
	if g.pw != "" {
		return PasswordPolicyError(g.pw)
	}
	return ""
}
