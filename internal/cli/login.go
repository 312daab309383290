package cli

import (
	"context"
	"fmt"

	"github.com/aihealth/authcore/internal/login"
)

// Login prompts for credentials and resolves them. The last
// authenticated email is offered as the default for the next run.
func (a *App) Login(ctx context.Context) error {
	prompt := "Enter email"
	remembered, err := a.session.LastEmail()
	if err != nil {
		a.logger.Warn(ctx, "could not read remembered email", "error", err.Error())
	}
	if remembered != "" {
		prompt = fmt.Sprintf("Enter email [%s]", remembered)
	}

	email, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	if email == "" {
		email = remembered
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	outcome := a.resolver.Resolve(ctx, email, password)

	switch outcome.Status {
	case login.StatusAuthenticated:
		a.currentEmail = outcome.Email
		if err := a.session.SetLastEmail(outcome.Email); err != nil {
			a.logger.Warn(ctx, "could not remember email", "error", err.Error())
		}
		fmt.Fprintf(a.out, "Logged in as %s\n", outcome.Email)
	case login.StatusNeedsSignup:
		fmt.Fprintln(a.out, "No account found for this email. Use 'signup' to create one.")
	case login.StatusRejected:
		fmt.Fprintln(a.out, "Login failed: invalid email or password.")
	case login.StatusTransientFailure:
		fmt.Fprintln(a.out, "Login is temporarily unavailable. Try again shortly.")
	}
	return nil
}

// Logout clears the console's current identity. The remembered email
// is kept so the next login can offer it again.
func (a *App) Logout(ctx context.Context) error {
	if a.currentEmail == "" {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	a.currentEmail = ""
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
