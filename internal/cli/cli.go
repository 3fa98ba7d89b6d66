// Package cli implementa el shell interactivo: un comando por pantalla o acción.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"coursecompare/internal/nav"
	"coursecompare/internal/view"
)

// ErrExit lo devuelve Execute cuando el usuario pide salir.
var ErrExit = errors.New("exit requested")

// Prompter es lo que el shell necesita de *readline.Instance.
type Prompter interface {
	Readline() (string, error)
	ReadPassword(prompt string) ([]byte, error)
	SetPrompt(prompt string)
}

// CLI ejecuta comandos contra las vistas. La pantalla actual cambia cuando una
// vista pide navegar (login, logout, guard).
type CLI struct {
	env   *view.Env
	in    Prompter
	out   io.Writer
	route string
}

func NewCLI(env *view.Env, in Prompter, out io.Writer) *CLI {
	return &CLI{env: env, in: in, out: out, route: nav.Home}
}

// Prompt muestra usuario y pantalla actual.
func (c *CLI) Prompt() string {
	who := "guest"
	if snap := c.env.Session.Snapshot(); snap.IsAuthenticated && snap.User != nil {
		who = snap.User.Username
	}
	return fmt.Sprintf("%s@coursecompare %s> ", who, c.route)
}

func (c *CLI) Route() string { return c.route }

// Run lee una línea y la ejecuta.
func (c *CLI) Run(ctx context.Context) error {
	c.in.SetPrompt(c.Prompt())
	line, err := c.in.Readline()
	if err != nil {
		return err
	}
	return c.Execute(ctx, line)
}

// Execute interpreta una línea de comando.
func (c *CLI) Execute(ctx context.Context, line string) error {
	args := ParseArgs(strings.TrimSpace(line))
	if len(args) == 0 {
		return nil
	}
	ctx = nav.WithNavigator(ctx, nav.Func(c.navigate))

	switch args[0] {
	case "home":
		return c.handleHome(ctx, args[1:])
	case "compare":
		return c.handleCompare(ctx, args[1:])
	case "reviews":
		return c.handleReviews(ctx, args[1:])
	case "review":
		return c.handleReview(ctx, args[1:])
	case "course":
		return c.handleCourse(ctx, args[1:])
	case "save":
		return c.handleSave(ctx, args[1:])
	case "link":
		return c.handleLink(ctx, args[1:])
	case "dashboard":
		return c.handleDashboard(ctx)
	case "remove":
		return c.handleRemove(ctx, args[1:])
	case "contact":
		return c.handleContact(ctx)
	case "login":
		return c.handleLogin(ctx, args[1:])
	case "logout":
		c.env.Session.Logout(ctx)
		fmt.Fprintln(c.out, "Logged out.")
		return nil
	case "register":
		return c.handleRegister(ctx, args[1:])
	case "profile":
		return c.handleProfile(ctx, args[1:])
	case "whoami":
		return c.handleWhoami()
	case "nav":
		return c.handleNav()
	case "help":
		return c.handleHelp()
	case "exit", "quit":
		return ErrExit
	default:
		return fmt.Errorf("unknown command: %s (try 'help')", args[0])
	}
}

func (c *CLI) navigate(path string) {
	if path == c.route {
		return
	}
	c.route = path
	fmt.Fprintf(c.out, "-> %s\n", path)
}

// ParseArgs separa por espacios respetando comillas dobles.
func ParseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoted := false

	for _, char := range input {
		switch {
		case char == '"':
			inQuotes = !inQuotes
			quoted = true
		case char == ' ' && !inQuotes:
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
			}
			quoted = false
		default:
			current.WriteRune(char)
		}
	}
	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}
	return args
}
