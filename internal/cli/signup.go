package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aihealth/authcore/internal/signup"
)

// Signup walks the user through account creation: email, availability
// check, password with confirmation, terms. The form state lives in a
// signup.Gate so the submit conditions here match the ones enforced in
// interactive UIs.
func (a *App) Signup(ctx context.Context) error {
	gate := signup.NewGate()

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	gate.EmailChanged(email)

	if !gate.CanRequestCheck() {
		fmt.Fprintln(a.out, "That does not look like a valid email address.")
		return nil
	}

	gate.DuplicateCheckRequested()
	res := a.checker.Check(ctx, email)
	gate.DuplicateCheckCompleted(res)

	switch res.Status {
	case signup.CheckAlreadyExists:
		fmt.Fprintf(a.out, "An account for %s already exists (%s). Use 'login' instead.\n",
			res.Email, sourceList(res.Sources))
		return nil
	case signup.CheckFailed:
		fmt.Fprintln(a.out, "Could not verify email availability. Try again shortly.")
		return nil
	}
	if res.Degraded {
		fmt.Fprintln(a.out, "Note: availability was only partially verified.")
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	gate.PasswordChanged(password)

	confirm, err := GetPassword("Confirm password", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	gate.ConfirmPasswordChanged(confirm)

	if warning := gate.Warning(); warning != "" {
		fmt.Fprintln(a.out, warning)
		return nil
	}

	answer, err := GetSimpleText(a.reader, "Accept the terms of service? (y/n)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	gate.TermsToggled(strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"))

	if !gate.CanSubmit() {
		fmt.Fprintln(a.out, "Signup requirements are not met.")
		return nil
	}

	subj, err := a.accounts.Submit(ctx, gate.Email(), gate.Password(), nil)
	switch {
	case errors.Is(err, signup.ErrAlreadyRegistered):
		fmt.Fprintln(a.out, "This email was registered in the meantime. Use 'login' instead.")
		return nil
	case errors.Is(err, signup.ErrCheckUnavailable):
		fmt.Fprintln(a.out, "Could not verify email availability. Try again shortly.")
		return nil
	case errors.Is(err, signup.ErrProfileWriteFailed):
		// The account itself exists; login recovers the profile record.
		fmt.Fprintln(a.out, "Account created, but saving the profile failed. Log in to finish setup.")
		return nil
	case err != nil:
		fmt.Fprintf(a.out, "Signup failed: %v\n", err)
		return err
	}

	if err := a.session.SetLastEmail(subj.Email); err != nil {
		a.logger.Warn(ctx, "could not remember email", "error", err.Error())
	}
	fmt.Fprintf(a.out, "Account created for %s. Use 'login' to sign in.\n", subj.Email)
	return nil
}
