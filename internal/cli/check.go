package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/aihealth/authcore/internal/signup"
)

func sourceList(ss []signup.Source) string {
	names := make([]string, len(ss))
	for i, s := range ss {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// CheckEmail reports whether an email is free to register.
func (a *App) CheckEmail(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email to check", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	res := a.checker.Check(ctx, email)

	switch res.Status {
	case signup.CheckAvailable:
		if res.Degraded {
			fmt.Fprintf(a.out, "%s looks available, but the check was incomplete: %s\n", res.Email, res.Reason)
		} else {
			fmt.Fprintf(a.out, "%s is available.\n", res.Email)
		}
	case signup.CheckAlreadyExists:
		fmt.Fprintf(a.out, "%s is already registered (%s).\n", res.Email, sourceList(res.Sources))
		if len(res.ProviderMethods) > 0 {
			fmt.Fprintf(a.out, "Sign-in methods: %v\n", res.ProviderMethods)
		}
	case signup.CheckFailed:
		fmt.Fprintf(a.out, "Could not check %s: %s\n", res.Email, res.Reason)
	}
	return nil
}
