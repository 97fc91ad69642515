// Package cli is the trail command line: the interactive browser by
// default, plus one-shot commands over the same app.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/trail/internal/ui"
)

// errUsage marks errors that exit with code 2.
var errUsage = errors.New("usage")

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// options are the persistent root flags.
type options struct {
	configPath string
	verbose    bool
	search     string
	offline    bool
	theme      string
}

// NewRootCommand builds the command tree writing to out and errOut.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "trail",
		Short: "Browse users, todos, posts and comments from the terminal",
		Long: `trail drills through Users → Todos/Posts → Comments served by a
JSONPlaceholder-style API, together with users and todos you create locally.

Run without arguments to start the interactive browser.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          noArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.theme != "" {
				ui.SetTheme(opts.theme)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowser(cmd.Context(), opts)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usagef("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/trail/config.yaml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	pf.StringVarP(&opts.search, "search", "s", "", "initial search term")
	pf.BoolVar(&opts.offline, "offline", false, "use the built-in dataset instead of the API")
	pf.StringVar(&opts.theme, "theme", "", "color theme: classic, neon or mono")

	root.AddCommand(
		newShowCommand(opts),
		newCrumbsCommand(),
		newUserCommand(opts),
		newTodoCommand(opts),
		newAuthCommand(),
	)
	return root
}

// Execute runs the command line and returns the exit code: 0 ok, 1
// failure, 2 usage.
func Execute(args []string, in io.Reader, out, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(in, out, errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	ui.Fail(errOut, err.Error())
	if errors.Is(err, errUsage) {
		fmt.Fprintln(errOut, ui.Current().Muted.Render("Run `trail --help` for usage."))
		return 2
	}
	return 1
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("%s takes %d argument(s), got %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			return usagef("%s takes %d to %d arguments, got %d", cmd.CommandPath(), lo, hi, len(args))
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("%s needs at least %d argument(s)", cmd.CommandPath(), n)
		}
		return nil
	}
}
