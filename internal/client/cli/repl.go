package cli

import (
	"context"
	"fmt"
	"strings"
)

type command struct {
	name string
	args string
	help string

	// needsSession commands are refused locally when no access token is stored.
	needsSession bool
	run          func(ctx context.Context, args []string) error
}

func (a *App) commands() []command {
	return []command{
		{name: "register", help: "create an account", run: a.register},
		{name: "login", help: "sign in", run: a.login},
		{name: "logout", help: "sign out", run: a.logout},
		{name: "status", help: "show the stored session", run: a.status},
		{name: "verify", help: "check the session with the server", run: a.verify},
		{name: "forgot-password", args: "[email]", help: "request a password reset e-mail", run: a.forgotPassword},
		{name: "reset-password", args: "[token]", help: "set a new password with a reset token", run: a.resetPassword},
		{name: "verify-email", args: "<token>", help: "confirm the e-mail address", run: a.verifyEmail},
		{name: "resend-verification", help: "send the verification e-mail again", needsSession: true, run: a.resendVerification},
		{name: "profile", help: "show the profile", needsSession: true, run: a.profile},
		{name: "update-profile", help: "edit name, phone, address and ID card", needsSession: true, run: a.updateProfile},
		{name: "change-password", help: "change the password", needsSession: true, run: a.changePassword},
		{name: "avatar", args: "<path>", help: "upload an avatar image", needsSession: true, run: a.uploadAvatar},
		{name: "bookings", args: "[page] [per_page]", help: "list bookings", needsSession: true, run: a.bookings},
		{name: "favorites", args: "[page] [per_page]", help: "list favorite hotels", needsSession: true, run: a.favorites},
		{name: "notifications", args: "[page] [per_page]", help: "list notifications", needsSession: true, run: a.notifications},
		{name: "read", args: "<id>", help: "mark a notification as read", needsSession: true, run: a.markRead},
		{name: "delete-notification", args: "<id>", help: "delete a notification", needsSession: true, run: a.deleteNotification},
	}
}

// runREPL reads one command per line and dispatches it. The loop exits on
// end of input or when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed and do not stop the loop.
func (a *App) runREPL(ctx context.Context) {
	cmds := a.commands()
	index := make(map[string]command, len(cmds))
	for _, c := range cmds {
		index[c.name] = c
	}

	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(a.out, "hotelbook%s> ", a.promptStatus(ctx))
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(a.out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		name, args := parts[0], parts[1:]
		switch name {
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		case "help":
			a.printHelp(ctx, cmds)
			continue
		}

		cmd, ok := index[name]
		if !ok {
			fmt.Fprintln(a.out, "Unknown command:", name)
			continue
		}
		if cmd.needsSession && !a.auth.LoggedIn(ctx) {
			fmt.Fprintln(a.out, "You are not signed in. Use 'login' first.")
			continue
		}

		a.execute(ctx, cmd, args)
	}
}

// execute runs cmd under the configured request timeout.
func (a *App) execute(ctx context.Context, cmd command, args []string) {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	if err := cmd.run(ctx, args); err != nil {
		a.log.Debug(ctx, "command failed", "command", cmd.name, "error", err)
		fmt.Fprintln(a.out, "error:", err)
	}
}

func (a *App) promptStatus(ctx context.Context) string {
	if !a.auth.LoggedIn(ctx) {
		a.email = ""
		return ""
	}
	if a.email == "" {
		return " (signed in)"
	}
	return fmt.Sprintf(" (%s)", a.email)
}

func (a *App) printHelp(ctx context.Context, cmds []command) {
	loggedIn := a.auth.LoggedIn(ctx)

	fmt.Fprintln(a.out, "Available commands:")
	for _, c := range cmds {
		if c.needsSession && !loggedIn {
			continue
		}
		usage := c.name
		if c.args != "" {
			usage += " " + c.args
		}
		fmt.Fprintf(a.out, "  %-36s %s\n", usage, c.help)
	}
	fmt.Fprintf(a.out, "  %-36s %s\n", "help", "show this list")
	fmt.Fprintf(a.out, "  %-36s %s\n", "exit | quit", "leave the program")
}
