package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/trail/internal/loader"
	"github.com/Makepad-fr/trail/internal/model"
	"github.com/Makepad-fr/trail/internal/ui"
)

// row adapts one record of the mounted view to bubbles/list.Item. Exactly
// one pointer is set.
type row struct {
	user    *model.User
	todo    *model.Todo
	post    *model.PostSummary
	comment *model.Comment
}

// Filtering is done by the search state, not by the list.
func (row) FilterValue() string { return "" }

func (r row) text() string {
	switch {
	case r.user != nil:
		return ui.UserRow(*r.user)
	case r.todo != nil:
		return ui.TodoRow(*r.todo)
	case r.post != nil:
		return ui.PostRow(*r.post)
	case r.comment != nil:
		return ui.CommentRow(*r.comment)
	}
	return ""
}

func rows(v loader.View) []list.Item {
	var out []list.Item
	switch v := v.(type) {
	case loader.UsersView:
		for i := range v.Users {
			out = append(out, row{user: &v.Users[i]})
		}
	case loader.TodosView:
		for i := range v.Todos {
			out = append(out, row{todo: &v.Todos[i]})
		}
	case loader.PostsView:
		for i := range v.Posts {
			out = append(out, row{post: &v.Posts[i]})
		}
	case loader.CommentsView:
		for i := range v.Comments {
			out = append(out, row{comment: &v.Comments[i]})
		}
	}
	return out
}

// Custom delegate to control how rows render (single line)
type rowDelegate struct{}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, _ := item.(row)
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render("> ")
	}
	fmt.Fprint(w, prefix+r.text())
}
