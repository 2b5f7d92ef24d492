package cli

import (
	"context"
	"fmt"
)

// Users lists every account in the credential store, digests stripped.
func (a *App) Users(ctx context.Context) error {
	users, err := a.manager.Users(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%-30s %-10s %-20s %s\n", "USERNAME", "ROLE", "NAME", "CLASS")
	for _, u := range users {
		fmt.Fprintf(a.out, "%-30s %-10s %-20s %s\n", u.Username, u.Role, u.Name, u.ClassID)
	}
	return nil
}
