package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	calls []string
}

func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Users(ctx context.Context) error {
	f.calls = append(f.calls, "users")
	return nil
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRunREPL_DispatchAndExit(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"whoami",
		"u",
		"foobar",
		"logout",
		"exit",
		"login",
	}, "\n"))

	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	want := []string{"login", "whoami", "users", "logout"}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
	for i := range want {
		if exec.calls[i] != want[i] {
			t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
		}
	}
}

func TestRunREPL_EOFStopsLoop(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("\n\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
