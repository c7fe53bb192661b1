package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hotelbook/internal/client/models"
	"github.com/dmitrijs2005/hotelbook/internal/client/session"
)

func (a *App) register(ctx context.Context, _ []string) error {
	email, err := GetRequiredText(a.reader, "E-mail", a.out)
	if err != nil {
		return err
	}
	name, err := GetRequiredText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	phone, err := GetSimpleText(a.reader, "Phone (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	out := a.auth.Register(ctx, models.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: name,
		Phone:    models.Optional(phone),
	})
	if a.report(out) {
		a.email = email
	}
	return nil
}

func (a *App) login(ctx context.Context, _ []string) error {
	email, err := GetRequiredText(a.reader, "E-mail", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	if a.report(a.auth.Login(ctx, email, password)) {
		a.email = email
	}
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	a.report(a.auth.Logout(ctx))
	a.email = ""
	return nil
}

// status describes the stored tokens without contacting the server.
func (a *App) status(ctx context.Context, _ []string) error {
	tokens, err := a.store.Tokens(ctx)
	if err != nil {
		return err
	}
	if !tokens.HasAccess() {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	fmt.Fprintf(a.out, "Signed in (profile %s).\n", a.config.Profile)
	if claims, err := session.Inspect(tokens.AccessToken); err == nil {
		if claims.Subject != "" {
			fmt.Fprintf(a.out, "  user:           %s\n", claims.Subject)
		}
		if !claims.ExpiresAt.IsZero() {
			state := "valid"
			if claims.Expired(time.Now()) {
				state = "expired, will be refreshed on next call"
			}
			fmt.Fprintf(a.out, "  access token:   until %s (%s)\n", claims.ExpiresAt.Local().Format(time.DateTime), state)
		}
	}
	if tokens.HasRefresh() {
		fmt.Fprintln(a.out, "  refresh token:  present")
	} else {
		fmt.Fprintln(a.out, "  refresh token:  absent")
	}
	return nil
}

func (a *App) verify(ctx context.Context, _ []string) error {
	if a.auth.VerifySession(ctx) {
		fmt.Fprintln(a.out, "Session is valid.")
		return nil
	}
	a.email = ""
	fmt.Fprintln(a.out, "Session is no longer valid. Please sign in again.")
	return nil
}

func (a *App) forgotPassword(ctx context.Context, args []string) error {
	email, err := argOrPrompt(a, args, "E-mail")
	if err != nil {
		return err
	}
	a.report(a.auth.ForgotPassword(ctx, email))
	return nil
}

func (a *App) resetPassword(ctx context.Context, args []string) error {
	token, err := argOrPrompt(a, args, "Reset token")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	a.report(a.auth.ResetPassword(ctx, token, password))
	return nil
}

func (a *App) verifyEmail(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: verify-email <token>")
	}
	a.report(a.auth.VerifyEmail(ctx, args[0]))
	return nil
}

func (a *App) resendVerification(ctx context.Context, _ []string) error {
	a.report(a.auth.ResendVerification(ctx))
	return nil
}

func argOrPrompt(a *App, args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return GetRequiredText(a.reader, prompt, a.out)
}
