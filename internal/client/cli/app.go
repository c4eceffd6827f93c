package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/facevault/internal/common"
)

const usage = `usage: vaultctl [-addr URL] <command> [arguments]

commands:
  register <username> <vector-file>   enroll a user (password prompted)
  login    <username> <vector-file>   authenticate a user (password prompted)
  list                                list enrolled users
  delete   <username>                 remove an enrolled user
  count                               print the number of enrolled users
`

// App holds the parsed command line and the API client.
type App struct {
	client *Client
	out    io.Writer
}

func NewApp(client *Client, out io.Writer) *App {
	return &App{client: client, out: out}
}

// Run dispatches a single vaultctl command.
func Run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("vaultctl", flag.ContinueOnError)
	fs.SetOutput(out)
	addr := fs.String("addr", "http://localhost:8080", "server base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprint(out, usage)
		return common.ErrInvalidInput
	}

	app := NewApp(NewClient(*addr), out)

	switch rest[0] {
	case "register":
		return app.register(ctx, rest[1:])
	case "login":
		return app.login(ctx, rest[1:])
	case "list":
		return app.list(ctx)
	case "delete":
		return app.delete(ctx, rest[1:])
	case "count":
		return app.count(ctx)
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func (a *App) register(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("register: expected <username> <vector-file>")
	}

	vector, err := LoadVector(args[1])
	if err != nil {
		return err
	}

	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	count, err := a.client.Register(ctx, args[0], string(pw), vector)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "registered %s (%d users total)\n", args[0], count)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("login: expected <username> <vector-file>")
	}

	vector, err := LoadVector(args[1])
	if err != nil {
		return err
	}

	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	result, err := a.client.Login(ctx, args[0], string(pw), vector)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "welcome, %s (similarity %.4f)\n", result.Profile.Username, result.Similarity)
	fmt.Fprintf(a.out, "access token: %s\n", result.AccessToken)
	return nil
}

func (a *App) list(ctx context.Context) error {
	profiles, err := a.client.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		fmt.Fprintf(a.out, "%s\t%s\n", p.Username, p.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("delete: expected <username>")
	}
	if err := a.client.DeleteUser(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %s\n", args[0])
	return nil
}

func (a *App) count(ctx context.Context) error {
	n, err := a.client.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, n)
	return nil
}
