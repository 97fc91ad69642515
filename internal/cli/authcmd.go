package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/trail/internal/auth"
	"github.com/Makepad-fr/trail/internal/config"
	"github.com/Makepad-fr/trail/internal/ui"
)

func newAuthCommand() *cobra.Command {
	creds := auth.Credentials{Dir: config.DataDir()}

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token sent to the API",
	}

	var ttl time.Duration
	login := &cobra.Command{
		Use:   "login",
		Short: "Save a token (read from stdin)",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, "Paste your token: ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			token := strings.TrimSpace(line)
			if token == "" {
				return usagef("empty token")
			}
			var expires *time.Time
			if ttl > 0 {
				at := time.Now().Add(ttl)
				expires = &at
			}
			if err := creds.Set(token, expires); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintln(out)
			ui.OK(out, "logged in")
			return nil
		},
	}
	login.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, e.g. 24h (default: no expiry)")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Delete the saved token",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ti, _ := creds.Get()
			if ti != nil && ti.Source == "env" {
				ui.OK(out, "token is provided by "+auth.EnvToken+" env var (nothing to delete)")
				return nil
			}
			if err := creds.Delete(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK(out, "logged out")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ti, err := creds.Get()
			if err != nil {
				return err
			}
			if ti == nil {
				fmt.Fprintln(out, ui.Current().Muted.Render("not logged in"))
				fmt.Fprintln(out, "Run: trail auth login")
				return nil
			}
			fmt.Fprintf(out, "source: %s\n", ti.Source)
			switch {
			case ti.ExpiresAt == nil:
				fmt.Fprintln(out, "expires: (unknown)")
			case ti.Expired(time.Now()):
				fmt.Fprintf(out, "expires: %s %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), ui.Current().Error.Render("(expired)"))
			default:
				fmt.Fprintf(out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
			}
			fmt.Fprintln(out, "env override: "+auth.EnvToken)
			return nil
		},
	}

	cmd.AddCommand(login, logout, status)
	return cmd
}
