package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jrsteele09/go-warehouse-client/api"
	"github.com/jrsteele09/go-warehouse-client/internal/config"
	"github.com/jrsteele09/go-warehouse-client/router"
	"github.com/jrsteele09/go-warehouse-client/session"
	"github.com/jrsteele09/go-warehouse-client/storage"
	"github.com/jrsteele09/go-warehouse-client/token"
)

const usage = `usage: whctl <command> [arguments]

commands:
  login -account A -password P   sign in and store the session
  logout                         end the session
  whoami                         refresh and print the signed-in user
  status                         print the stored session without calling the API
  navigate <route>               run the route guard for a route name or path
  routes                         list routes and the roles allowed on them
`

type app struct {
	out   io.Writer
	store *session.Store
	nav   *router.Navigator
}

func newApp(c config.ClientConfig, repo storage.Repo, out io.Writer) *app {
	client := api.New(c.GetBaseURL(), api.WithTimeout(c.GetRequestTimeout()))
	store := session.New(client, repo, session.WithNotificationDuration(c.GetNotificationDuration()))
	client.SetTokenSource(store.TokenSource())
	client.SetUnauthorizedHandler(store.Logout)

	return &app{
		out:   out,
		store: store,
		nav:   router.NewNavigator(router.NewGuard(store), router.DefaultRoutes()),
	}
}

func (a *app) close() {
	a.store.Close()
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return errors.New("no command given")
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "login":
		err = a.login(ctx, rest)
	case "logout":
		a.store.Logout(ctx)
	case "whoami":
		err = a.whoami(ctx)
	case "status":
		a.status()
	case "navigate":
		err = a.navigate(ctx, rest)
	case "routes":
		a.routes()
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
	default:
		fmt.Fprint(a.out, usage)
		err = fmt.Errorf("unknown command %q", cmd)
	}
	a.printNotifications()
	return err
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	account := fs.String("account", "", "account name")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *account == "" || *password == "" {
		return errors.New("login requires -account and -password")
	}

	profile, err := a.store.Login(ctx, api.Credentials{Account: *account, Password: *password})
	if err != nil {
		return err
	}
	landing, err := a.nav.Push(ctx, router.RouteLogin)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s (%s), landing on %s\n", profile.DisplayName(), strings.Join(a.store.Roles(), ", "), landing.Path)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	u := a.store.InitializeAuth(ctx)
	if u == nil {
		return errors.New("not signed in")
	}
	fmt.Fprintf(a.out, "%s (user %d) roles: %s\n", u.DisplayName(), u.UserID, strings.Join(a.store.Roles(), ", "))
	return nil
}

func (a *app) status() {
	if !a.store.IsAuthenticated() {
		fmt.Fprintln(a.out, "not signed in")
		return
	}
	fmt.Fprintf(a.out, "signed in as %s\n", a.store.DisplayName())
	fmt.Fprintf(a.out, "roles: %s\n", strings.Join(a.store.Roles(), ", "))
	fmt.Fprintln(a.out, token.FormatExpiration(a.store.Token()))
}

func (a *app) navigate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("navigate requires one route name or path")
	}
	requested, err := a.nav.Resolve(args[0])
	if err != nil {
		return err
	}
	reached, err := a.nav.Push(ctx, args[0])
	if err != nil {
		return err
	}
	if reached.Name != requested.Name {
		fmt.Fprintf(a.out, "%s redirected to %s (%s)\n", requested.Name, reached.Name, reached.Path)
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s)\n", reached.Name, reached.Path)
	return nil
}

func (a *app) routes() {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tROLES")
	for _, r := range a.nav.Routes() {
		roles := "public"
		if r.RequiresAuth {
			roles = "any"
		}
		if r.Restricted() {
			roles = strings.Join(r.AllowedRoles, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Path, roles)
	}
	_ = tw.Flush()
}

func (a *app) printNotifications() {
	for _, n := range a.store.Notifications() {
		fmt.Fprintf(a.out, "[%s] %s\n", n.Type, n.Message)
	}
}
