package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/trail/internal/app"
	"github.com/Makepad-fr/trail/internal/model"
	"github.com/Makepad-fr/trail/internal/ui"
)

func newUserCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage locally created users",
	}

	var name, email, username string
	add := &cobra.Command{
		Use:     "add",
		Short:   "Create a local user",
		Example: `  trail user add --name "Ada Lovelace" --email ada@example.com`,
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
				return usagef("user add needs --name and --email")
			}
			sess, err := opts.open(nil)
			if err != nil {
				return err
			}
			defer sess.close()

			u, err := sess.app.Loader.AddUser(name, email, username)
			if err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("user added: %s (id %s)", u.Name, u.ID))
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "full name (required)")
	add.Flags().StringVar(&email, "email", "", "email address (required)")
	add.Flags().StringVar(&username, "username", "", "username")

	var yes bool
	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a local user and their local todos",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteRecord(cmd, opts, app.EntityUser, parseID(args[0]), yes)
		},
	}
	rm.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(add, rm)
	return cmd
}

func newTodoCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage todos: local ones, and local overrides of remote ones",
	}

	var done bool
	add := &cobra.Command{
		Use:     "add <user-id> <title...>",
		Short:   "Create a local todo",
		Example: `  trail todo add 1 Buy milk`,
		Args:    minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			sess, err := opts.open(nil)
			if err != nil {
				return err
			}
			defer sess.close()

			t, err := sess.app.Loader.AddTodo(model.NumID(userID), strings.Join(args[1:], " "), done)
			if err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "todo added: "+t.ID.String())
			return nil
		},
	}
	add.Flags().BoolVar(&done, "done", false, "create it completed")

	toggle := &cobra.Command{
		Use:   "toggle <user-id> <todo-id>",
		Short: "Flip a todo; remote todos get a local override",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			sess, err := opts.open(nil)
			if err != nil {
				return err
			}
			defer sess.close()

			l := sess.app.Loader
			t, err := l.FindTodo(cmd.Context(), userID, parseID(args[1]))
			if err != nil {
				return err
			}
			t, err = l.ToggleTodo(t)
			if err != nil {
				return err
			}
			state := "pending"
			if t.Completed {
				state = "completed"
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("todo %s: %s", t.ID, state))
			return nil
		},
	}

	var yes bool
	rm := &cobra.Command{
		Use:   "rm <todo-id>",
		Short: "Delete a local todo; deleting an override restores the remote one",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteRecord(cmd, opts, app.EntityTodo, parseID(args[0]), yes)
		},
	}
	rm.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(add, toggle, rm)
	return cmd
}

// deleteRecord asks for confirmation unless yes is set. A declined prompt
// dispatches an unconfirmed delete, which does nothing.
func deleteRecord(cmd *cobra.Command, opts *options, e app.Entity, id model.ID, yes bool) error {
	sess, err := opts.open(nil)
	if err != nil {
		return err
	}
	defer sess.close()

	confirmed := yes || confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %s %s?", e, id))
	if err := sess.app.Dispatch(cmd.Context(), app.Delete{Entity: e, ID: id, Confirmed: confirmed}); err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Current().Muted.Render("cancelled"))
		return nil
	}
	ui.OK(cmd.OutOrStdout(), e.String()+" deleted")
	return nil
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprint(out, question+" [y/N] ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// parseID canonicalizes numeric ids, so 007 and 7 name the same record.
func parseID(s string) model.ID {
	id := model.ID(strings.TrimSpace(s))
	if n, ok := id.Uint(); ok {
		return model.NumID(n)
	}
	return id
}

func parseUserID(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, usagef("user id must be a number: %s", s)
	}
	return n, nil
}
