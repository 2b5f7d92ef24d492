// Package cli implements the interactive administration shell for the
// portal's credential store.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/smsportal/portal/internal/auth"
)

type App struct {
	manager *auth.Manager
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(manager *auth.Manager) *App {
	return &App{manager: manager, reader: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// getStatus renders the prompt decoration for the current session, e.g.
// "(Ms. Johnson teacher)". An empty string means nobody is logged in.
// Reading the session here keeps it alive, same as any other access.
func (a *App) getStatus(ctx context.Context) string {
	sess, err := a.manager.CurrentUser(ctx)
	if err != nil || sess == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", sess.Name, sess.Role)
}

func (a *App) Run(ctx context.Context) {
	defer a.manager.Close()

	if err := a.manager.Initialize(ctx); err != nil {
		log.Printf("init error: %v", err)
		return
	}

	log.Println("Welcome to the school portal CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, scanner)
}
