package ui

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/trail/internal/breadcrumb"
	"github.com/Makepad-fr/trail/internal/loader"
	"github.com/Makepad-fr/trail/internal/model"
)

const maxTitle = 80

// Crumbs renders the trail on one line. Navigable crumbs carry their
// 1-based position so they can be jumped to.
func Crumbs(crumbs []breadcrumb.Crumb) string {
	t := Current()
	parts := make([]string, len(crumbs))
	for i, c := range crumbs {
		if c.Current {
			parts[i] = t.Title.Render(c.Name)
			continue
		}
		parts[i] = t.Muted.Render(fmt.Sprintf("%d:", i+1)) + t.Accent.Render(c.Name)
	}
	return strings.Join(parts, t.Muted.Render(t.SymSep))
}

// Header is the title line of v plus its counts.
func Header(v loader.View) string {
	t := Current()
	title := t.Title.Render(v.Title())
	switch v := v.(type) {
	case loader.TodosView:
		return fmt.Sprintf("%s   %s %d  %s %d  %s %d", title,
			t.Success.Render(t.SymDone), v.Stats.Completed,
			t.Pending.Render(t.SymPending), v.Stats.Pending,
			t.Accent.Render("Total"), v.Stats.Total)
	case loader.ErrorView:
		return t.Error.Render(v.Message)
	}
	return fmt.Sprintf("%s   %s", title, t.Muted.Render(fmt.Sprintf("(%d)", v.Len())))
}

func UserRow(u model.User) string {
	t := Current()
	mark := " "
	if u.IsCustom {
		mark = t.Accent.Render(t.SymCustom)
	}
	return fmt.Sprintf("%s %s %s", mark, u.Name, t.Muted.Render("<"+u.Email+">"))
}

func TodoRow(td model.Todo) string {
	t := Current()
	box, text := t.Muted.Render(t.BoxUnchecked), Truncate(td.Title, maxTitle)
	if td.Completed {
		box, text = t.Success.Render(t.BoxChecked), t.Done.Render(text)
	}
	mark := " "
	if td.IsCustom {
		mark = t.Accent.Render(t.SymCustom)
	}
	return fmt.Sprintf("%s %s %s", box, mark, text)
}

func PostRow(p model.PostSummary) string {
	t := Current()
	return fmt.Sprintf("%s %s", Truncate(p.Title, maxTitle),
		t.Muted.Render(fmt.Sprintf("(%d comments)", p.Comments)))
}

func CommentRow(c model.Comment) string {
	t := Current()
	return fmt.Sprintf("%s %s", Truncate(c.Name, maxTitle), t.Muted.Render("<"+c.Email+">"))
}

// ViewLines renders v for the non-interactive commands.
func ViewLines(v loader.View) []string {
	t := Current()
	lines := []string{Header(v)}
	if tv, ok := v.(loader.TodosView); ok {
		lines = append(lines, t.Muted.Render(ProgressBar(tv.Stats.Completed, tv.Stats.Total, 28)))
	}
	lines = append(lines, "")

	var rows []string
	switch v := v.(type) {
	case loader.UsersView:
		for _, u := range v.Users {
			rows = append(rows, fmt.Sprintf("%s %s", t.Muted.Render(fmt.Sprintf("%-13s", u.ID)), UserRow(u)))
		}
	case loader.TodosView:
		for _, td := range v.Todos {
			rows = append(rows, fmt.Sprintf("%s %s", t.Muted.Render(Truncate(td.ID.String(), 13)), TodoRow(td)))
		}
	case loader.PostsView:
		for _, p := range v.Posts {
			rows = append(rows, fmt.Sprintf("%s %s", t.Muted.Render(fmt.Sprintf("%4s", p.ID)), PostRow(p)))
		}
	case loader.CommentsView:
		for _, c := range v.Comments {
			rows = append(rows, CommentRow(c))
			if body := strings.TrimSpace(c.Body); body != "" {
				rows = append(rows, t.Muted.Render("    "+Truncate(strings.ReplaceAll(body, "\n", " "), maxTitle)))
			}
		}
	case loader.ErrorView:
		rows = append(rows, t.Muted.Render("Run the command again to retry."))
	}
	if len(rows) == 0 {
		rows = []string{t.Muted.Render("no items")}
	}
	return append(lines, rows...)
}
