package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/trail/internal/app"
	"github.com/Makepad-fr/trail/internal/breadcrumb"
	"github.com/Makepad-fr/trail/internal/loader"
	"github.com/Makepad-fr/trail/internal/route"
	"github.com/Makepad-fr/trail/internal/tui"
	"github.com/Makepad-fr/trail/internal/ui"
)

func runBrowser(ctx context.Context, opts *options) error {
	bridge := &tui.Bridge{}
	sess, err := opts.open(bridge.OnTerm)
	if err != nil {
		return err
	}
	defer sess.close()
	return tui.Run(ctx, sess.app, bridge)
}

func newShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show [path]",
		Short: "Print the view for a path (default: the last visited one)",
		Example: `  trail show
  trail show users#todos#1
  trail show users#posts#comments#1 --search gardner`,
		Args: rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open(nil)
			if err != nil {
				return err
			}
			defer sess.close()

			a := sess.app
			if len(args) == 1 {
				err = a.Dispatch(cmd.Context(), app.Navigate{Path: args[0]})
			} else {
				err = a.Start(cmd.Context())
			}

			out := cmd.OutOrStdout()
			if v := a.Region.Current(); v != nil {
				lines := append([]string{ui.Crumbs(a.Router.Breadcrumbs()), ""}, ui.ViewLines(v)...)
				ui.Panel(out, lines)
			}
			if _, failed := a.Region.Current().(loader.ErrorView); failed && err == nil {
				err = loader.ErrLoad
			}
			return err
		},
	}
}

func newCrumbsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "crumbs <path>",
		Short: "Print the breadcrumb trail for a path",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if r, ok := route.Parse(path); !ok {
				path = r.String()
			}
			t := ui.Current()
			for i, c := range breadcrumb.Build(path) {
				marker := " "
				if c.Current {
					marker = ">"
				}
				cmd.Printf("%s %d. %-20s %s\n", marker, i+1, c.Name, t.Muted.Render(c.Path))
			}
			return nil
		},
	}
}
