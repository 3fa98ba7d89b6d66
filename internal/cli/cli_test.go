package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"coursecompare/internal/api"
	"coursecompare/internal/api/apitest"
	"coursecompare/internal/domain"
	"coursecompare/internal/nav"
	"coursecompare/internal/session"
	"coursecompare/internal/view"
)

type fakePrompter struct {
	lines     []string
	passwords []string
	prompt    string
}

func (f *fakePrompter) Readline() (string, error) {
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func (f *fakePrompter) ReadPassword(_ string) ([]byte, error) {
	if len(f.passwords) == 0 {
		return nil, io.EOF
	}
	pw := f.passwords[0]
	f.passwords = f.passwords[1:]
	return []byte(pw), nil
}

func (f *fakePrompter) SetPrompt(prompt string) { f.prompt = prompt }

func setupCLI(t *testing.T) (*CLI, *fakePrompter, *bytes.Buffer, *apitest.Backend) {
	t.Helper()
	backend := apitest.New()
	backend.Courses = []domain.Course{
		{ID: 1, Name: "Data Science", Institute: "IIT", Fees: 1200, PlacementRate: 92, Rating: 4.6, Link: "https://example.edu/ds"},
		{ID: 2, Name: "Web Development", Institute: "NIIT", Fees: 800, PlacementRate: 85, Rating: 3.7},
	}
	client := api.NewClient(backend.Start(t), 2*time.Second, zap.NewNop(), api.WithGetRetries(0))
	store := session.NewStore(session.NewMemoryStorage(), client, zap.NewNop())
	env := &view.Env{Backend: client, Session: store, Logger: zap.NewNop(), ClearSessionOnUnauthorized: true}

	in := &fakePrompter{}
	out := &bytes.Buffer{}
	return NewCLI(env, in, out), in, out, backend
}

func TestParseArgs(t *testing.T) {
	cases := map[string][]string{
		`review 1 5 "great course"`: {"review", "1", "5", "great course"},
		`  home   2 `:               {"home", "2"},
		`review 1 4 ""`:             {"review", "1", "4", ""},
		``:                          nil,
	}
	for input, want := range cases {
		if got := ParseArgs(input); !reflect.DeepEqual(got, want) {
			t.Fatalf("ParseArgs(%q): expected %#v, got %#v", input, want, got)
		}
	}
}

func TestCLI_DashboardRequiresLogin(t *testing.T) {
	c, _, out, backend := setupCLI(t)

	if err := c.Execute(context.Background(), "dashboard"); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if c.Route() != nav.Login {
		t.Fatalf("expected login screen, got %q", c.Route())
	}
	if !strings.Contains(out.String(), "-> /login") {
		t.Fatalf("expected redirect notice, got %q", out.String())
	}
	if len(backend.Calls()) != 0 {
		t.Fatalf("guard must not call the backend")
	}
}

func TestCLI_LoginSaveAndDashboard(t *testing.T) {
	c, in, out, _ := setupCLI(t)
	ctx := context.Background()
	in.passwords = []string{"pw"}

	if err := c.Execute(ctx, "login alice"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out.String(), "Logged in as alice.") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if !strings.HasPrefix(c.Prompt(), "alice@coursecompare") {
		t.Fatalf("prompt should show the user, got %q", c.Prompt())
	}

	out.Reset()
	if err := c.Execute(ctx, "save 1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(out.String(), view.MsgCourseSaved) {
		t.Fatalf("expected saved message, got %q", out.String())
	}

	out.Reset()
	if err := c.Execute(ctx, "save 1"); err != nil {
		t.Fatalf("save again: %v", err)
	}
	if !strings.Contains(out.String(), view.MsgAlreadySaved) {
		t.Fatalf("expected duplicate message, got %q", out.String())
	}

	out.Reset()
	if err := c.Execute(ctx, "dashboard"); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !strings.Contains(out.String(), "Data Science") || !strings.Contains(out.String(), "★★★★★ (4.6)") {
		t.Fatalf("expected saved course listed, got %q", out.String())
	}
}

func TestCLI_InvalidLogin(t *testing.T) {
	c, in, out, _ := setupCLI(t)
	in.passwords = []string{"wrong"}

	if err := c.Execute(context.Background(), "login alice"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out.String(), view.MsgInvalidLogin) {
		t.Fatalf("expected invalid login message, got %q", out.String())
	}
}

func TestCLI_ContactPromptsForFields(t *testing.T) {
	c, in, out, backend := setupCLI(t)
	ctx := context.Background()
	in.passwords = []string{"pw"}
	if err := c.Execute(ctx, "login alice"); err != nil {
		t.Fatalf("login: %v", err)
	}

	in.lines = []string{"Alice", "alice@example.com", "Fees", "How much is it?"}
	if err := c.Execute(ctx, "contact"); err != nil {
		t.Fatalf("contact: %v", err)
	}
	if !strings.Contains(out.String(), view.MsgContactSubmittedOK) {
		t.Fatalf("expected success, got %q", out.String())
	}
	msgs := backend.ContactMessages()
	if len(msgs) != 1 || msgs[0].Subject != "Fees" {
		t.Fatalf("unexpected stored messages %+v", msgs)
	}
}

func TestCLI_CompareAndCourse(t *testing.T) {
	c, _, out, _ := setupCLI(t)
	ctx := context.Background()

	if err := c.Execute(ctx, "compare 1 2"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(out.String(), "Web Development") || !strings.Contains(out.String(), "★★★★☆ (3.7)") {
		t.Fatalf("unexpected compare output %q", out.String())
	}

	out.Reset()
	if err := c.Execute(ctx, "course 99"); err != nil {
		t.Fatalf("course: %v", err)
	}
	if !strings.Contains(out.String(), view.MsgCourseNotFound) {
		t.Fatalf("expected not found, got %q", out.String())
	}

	out.Reset()
	if err := c.Execute(ctx, "link 2"); err != nil {
		t.Fatalf("link: %v", err)
	}
	if !strings.Contains(out.String(), view.MsgNoLink) {
		t.Fatalf("expected no link message, got %q", out.String())
	}
}

func TestCLI_UsageAndExit(t *testing.T) {
	c, _, _, _ := setupCLI(t)
	ctx := context.Background()

	if err := c.Execute(ctx, "course abc"); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := c.Execute(ctx, "fly"); err == nil {
		t.Fatalf("expected unknown command error")
	}
	if err := c.Execute(ctx, "quit"); !errors.Is(err, ErrExit) {
		t.Fatalf("expected exit, got %v", err)
	}
}

func TestCLI_RunReadsOneLine(t *testing.T) {
	c, in, out, _ := setupCLI(t)
	in.lines = []string{"whoami"}

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Not logged in.") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if err := c.Run(context.Background()); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}
