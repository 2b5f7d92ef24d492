package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/smsportal/portal/internal/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and an optional portal restriction and
// attempts to authenticate. Expected failures (lockout, bad credentials,
// wrong portal) are printed as-is; only storage faults are returned.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	roleText, err := getSimpleText(a.reader, "Portal (admin/teacher/student, empty for any)", a.out)
	if err != nil {
		return err
	}
	var role models.Role
	if roleText != "" {
		role, err = models.ParseRole(roleText)
		if err != nil {
			fmt.Fprintln(a.out, err)
			return nil
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	remember, err := getSimpleText(a.reader, "Remember this login? (y/N)", a.out)
	if err != nil {
		return err
	}

	res, err := a.manager.Login(ctx, userName, password, role, strings.EqualFold(remember, "y"))
	if err != nil {
		return err
	}
	if !res.OK {
		fmt.Fprintln(a.out, res.Message)
		return nil
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", res.User.Name)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.manager.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the active session, if any.
func (a *App) WhoAmI(ctx context.Context) error {
	sess, err := a.manager.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> role=%s since %s\n", sess.Name, sess.Username, sess.Role, sess.LoginTime)
	return nil
}
