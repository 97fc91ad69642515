package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/trail/internal/app"
	"github.com/Makepad-fr/trail/internal/model"
	"github.com/Makepad-fr/trail/internal/ui"
)

type field struct {
	label    string
	required bool
}

// form is an inline multi-field prompt. submit turns the trimmed values
// into the command to dispatch.
type form struct {
	title  string
	fields []field
	inputs []textinput.Model
	focus  int
	err    string
	done   string
	submit func(values []string) app.Command
}

func newForm(title, done string, fields []field, submit func([]string) app.Command) *form {
	f := &form{title: title, fields: fields, done: done, submit: submit}
	for i, fd := range fields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = fd.label
		ti.CharLimit = 200
		if i == 0 {
			ti.Focus()
		}
		f.inputs = append(f.inputs, ti)
	}
	return f
}

func addUserForm() *form {
	return newForm("Add user", "user added",
		[]field{{"Name", true}, {"Email", true}, {"Username", false}},
		func(v []string) app.Command { return app.AddUser{Name: v[0], Email: v[1], Username: v[2]} })
}

func addTodoForm(userID model.ID) *form {
	return newForm("Add todo", "todo added",
		[]field{{"Title", true}},
		func(v []string) app.Command { return app.AddTodo{UserID: userID, Title: v[0]} })
}

func (f *form) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// values returns the trimmed values, or ok=false with f.err set when a
// required field is empty.
func (f *form) values() ([]string, bool) {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = strings.TrimSpace(in.Value())
		if out[i] == "" && f.fields[i].required {
			f.err = f.fields[i].label + " cannot be empty"
			if f.focus != i {
				f.move(i - f.focus)
			}
			return nil, false
		}
	}
	f.err = ""
	return out, true
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) view() string {
	t := ui.Current()
	title := f.title
	if f.err != "" {
		title += "  " + t.Error.Render(f.err)
	}
	lines := []string{title}
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, t.Help.Render("tab next field • enter save • esc cancel"))
	return strings.Join(lines, "\n")
}
