package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"leadsfynder/internal/app"
	"leadsfynder/internal/domain"
	"leadsfynder/internal/guard"
)

type appFactory func(ctx context.Context) (*app.App, error)

var errNotLoggedIn = errors.New("not logged in; run 'leadsctl login' first")

func newRootCmd(open appFactory) *cobra.Command {
	root := &cobra.Command{
		Use:   "leadsctl",
		Short: "Command line client for the LeadsFynder dashboard",
		Long: `leadsctl keeps a LeadsFynder session in the configured storage and
uses it to talk to the backend.

Each invocation restores the stored session, runs one operation and exits.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newLoginCmd(open),
		newRegisterCmd(open),
		newLogoutCmd(open),
		newStatusCmd(open),
		newRouteCmd(open),
		newLeadsCmd(open),
	)
	return root
}

// withApp abre la app, restaura la sesion y la cierra al terminar.
func withApp(cmd *cobra.Command, open appFactory, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	a.Session.Bootstrap(ctx)
	return fn(ctx, a)
}

func newLoginCmd(open appFactory) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with email and password",
		Example: `  leadsctl login --email user@example.com --password mypass`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				res := a.Session.Login(ctx, email, password)
				if !res.Success {
					return fmt.Errorf("login failed: %s", res.Message)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", res.Data.User.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(open appFactory) *cobra.Command {
	var in domain.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not log in)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				res := a.Session.Register(ctx, in)
				if !res.Success {
					return fmt.Errorf("registration failed: %s", res.Message)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Registration successful. Use 'leadsctl login' to sign in.")
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "account email")
	f.StringVar(&in.Password, "password", "", "account password")
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Company, "company", "", "company")
	f.StringVar(&in.Phone, "phone", "", "phone (optional)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("first-name")
	return cmd
}

func newLogoutCmd(open appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and remove stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				was := a.Session.Snapshot().IsAuthenticated
				a.Session.Logout(ctx)
				if !was {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			})
		},
	}
}

func newStatusCmd(open appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(_ context.Context, a *app.App) error {
				snap := a.Session.Snapshot()
				out := cmd.OutOrStdout()
				if !snap.IsAuthenticated || snap.User == nil {
					fmt.Fprintln(out, "Not logged in.")
					return nil
				}
				fmt.Fprintln(out, guard.Greeting(snap.User))
				fmt.Fprintf(out, "Email: %s\nRole:  %s\n", snap.User.Email, snap.User.Role)
				return nil
			})
		},
	}
}

func newRouteCmd(open appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "Show which view the dashboard renders for a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(_ context.Context, a *app.App) error {
				snap := a.Session.Snapshot()
				d := guard.Resolve(snap, args[0])
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "view: %s (%s)\n", d.View, d.Path)
				if d.Redirected {
					fmt.Fprintf(out, "redirected from %s\n", d.Requested)
				}
				for _, item := range guard.Navigation(snap, d.Path) {
					marker := " "
					if item.Active {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s\t%s\n", marker, item.Label, item.Path)
				}
				return nil
			})
		},
	}
}

func newLeadsCmd(open appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "leads",
		Short: "List leads for the logged in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				token := a.Session.Token()
				if token == "" {
					return errNotLoggedIn
				}
				items, err := a.Leads.Leads(ctx, token)
				if err != nil {
					return fmt.Errorf("list leads: %w", err)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCOMPANY\tSTATUS\tSCORE")
				for _, l := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f\n", l.ID, l.Name, l.Company, l.Status, l.Score)
				}
				return w.Flush()
			})
		},
	}
}
