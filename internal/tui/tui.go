// Package tui is the interactive browser: a Bubble Tea program over an
// app.App. Loads run as commands; their results are read back from the
// app's router and content region.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/trail/internal/app"
	"github.com/Makepad-fr/trail/internal/breadcrumb"
	"github.com/Makepad-fr/trail/internal/loader"
	"github.com/Makepad-fr/trail/internal/route"
	"github.com/Makepad-fr/trail/internal/router"
	"github.com/Makepad-fr/trail/internal/ui"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeConfirm
)

// loadedMsg reports a finished dispatch. ok is the status shown on success.
type loadedMsg struct {
	err error
	ok  string
}

// TermAppliedMsg tells the program that the debounced search term changed.
type TermAppliedMsg struct{ Term string }

// Bridge forwards debounced search terms into a running program. Its
// OnTerm goes into app.Config.
type Bridge struct {
	mu sync.Mutex
	p  *tea.Program
}

func (b *Bridge) OnTerm(term string) {
	b.mu.Lock()
	p := b.p
	b.mu.Unlock()
	if p != nil {
		p.Send(TermAppliedMsg{Term: term})
	}
}

func (b *Bridge) attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.p = p
}

type Model struct {
	ctx  context.Context
	app  *app.App
	keys keyMap

	list    list.Model
	search  textinput.Model
	form    *form
	pending *app.Delete
	mode    mode

	view   loader.View
	route  route.Route
	crumbs []breadcrumb.Crumb
	status string
	failed bool

	width, height int
}

func New(ctx context.Context, a *app.App) Model {
	keys := defaultKeys()

	l := list.New(nil, rowDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Help
	l.Styles.PaginationStyle = ui.Current().Help
	l.SetStatusBarItemName("item", "items")
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "pgdown"), key.WithHelp("→/pgdn", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("left", "pgup"), key.WithHelp("←/pgup", "prev page"))
	l.KeyMap.Quit = keys.Quit
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.full

	si := textinput.New()
	si.Prompt = "/ "
	si.Placeholder = "search..."
	si.CharLimit = 100
	si.SetValue(a.Search.Term())

	return Model{
		ctx:    ctx,
		app:    a,
		keys:   keys,
		list:   l,
		search: si,
		width:  80,
		height: 24,
	}
}

// Run starts the program and blocks until it quits.
func Run(ctx context.Context, a *app.App, b *Bridge) error {
	p := tea.NewProgram(New(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx))
	b.attach(p)
	defer b.attach(nil)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd { return m.dispatch(app.Reload{}, "") }

func (m Model) dispatch(cmd app.Command, ok string) tea.Cmd {
	a, ctx := m.app, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: a.Dispatch(ctx, cmd), ok: ok}
	}
}

func (m Model) navigate(r route.Route) tea.Cmd {
	return m.dispatch(app.Navigate{Path: r.String()}, "")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case loadedMsg:
		return m.loaded(msg), nil
	case TermAppliedMsg:
		return m, m.dispatch(app.Reload{}, "")
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeForm:
		cmd = m.form.update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m Model) loaded(msg loadedMsg) Model {
	switch {
	case errors.Is(msg.err, router.ErrStale):
		return m
	case msg.err != nil && !errors.Is(msg.err, loader.ErrLoad):
		m.status, m.failed = msg.err.Error(), true
	case msg.ok != "":
		m.status, m.failed = msg.ok, false
	}

	m.view = m.app.Region.Current()
	m.crumbs = m.app.Router.Breadcrumbs()
	next := m.app.Router.State().Route
	idx := m.list.Index()
	m.list.SetItems(rows(m.view))
	switch n := len(m.list.Items()); {
	case next != m.route:
		m.list.ResetSelected()
	case idx >= n && n > 0:
		m.list.Select(n - 1)
	}
	m.route = next
	if m.view != nil {
		m.list.Title = ui.Header(m.view)
	}
	return m
}

func (m Model) selected() (row, bool) {
	r, ok := m.list.SelectedItem().(row)
	return r, ok
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel, hasSel := m.selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Open):
		switch {
		case !hasSel:
		case sel.user != nil:
			if r, ok := route.ForUserTodos(sel.user.ID); ok {
				return m, m.navigate(r)
			}
		case sel.post != nil:
			if r, ok := route.ForPostComments(sel.post.ID); ok {
				return m, m.navigate(r)
			}
		case sel.todo != nil:
			return m, m.dispatch(app.Toggle{Todo: *sel.todo}, "")
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if hasSel && sel.todo != nil {
			return m, m.dispatch(app.Toggle{Todo: *sel.todo}, "")
		}
		return m, nil

	case key.Matches(msg, m.keys.Posts):
		switch v := m.view.(type) {
		case loader.UsersView:
			if hasSel {
				if r, ok := route.ForUserPosts(sel.user.ID); ok {
					return m, m.navigate(r)
				}
			}
		case loader.TodosView:
			if r, ok := route.ForUserPosts(v.UserID); ok {
				return m, m.navigate(r)
			}
		case loader.CommentsView:
			return m, m.navigate(v.Back())
		}
		return m, nil

	case key.Matches(msg, m.keys.Todos):
		switch v := m.view.(type) {
		case loader.UsersView:
			if hasSel {
				if r, ok := route.ForUserTodos(sel.user.ID); ok {
					return m, m.navigate(r)
				}
			}
		case loader.PostsView:
			if r, ok := route.ForUserTodos(v.UserID); ok {
				return m, m.navigate(r)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if v, ok := m.view.(loader.CommentsView); ok {
			return m, m.navigate(v.Back())
		}
		if m.route.Kind() != route.KindUsers {
			return m, m.navigate(route.Users())
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		return m, m.dispatch(app.Back{}, "")

	case key.Matches(msg, m.keys.Forward):
		return m, m.dispatch(app.Forward{}, "")

	case key.Matches(msg, m.keys.Jump):
		i := int(msg.String()[0] - '1')
		if i < len(m.crumbs)-1 {
			return m, m.dispatch(app.Navigate{Path: m.crumbs[i].Path}, "")
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Add):
		switch v := m.view.(type) {
		case loader.UsersView:
			m.form = addUserForm()
		case loader.TodosView:
			m.form = addTodoForm(v.UserID)
		default:
			return m, nil
		}
		m.mode = modeForm
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		return m.askDelete(sel, hasSel), nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.dispatch(app.Reload{}, "")
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) askDelete(sel row, hasSel bool) Model {
	if !hasSel {
		return m
	}
	switch {
	case sel.user != nil && sel.user.IsCustom:
		m.pending = &app.Delete{Entity: app.EntityUser, ID: sel.user.ID}
	case sel.todo != nil && sel.todo.IsCustom:
		m.pending = &app.Delete{Entity: app.EntityTodo, ID: sel.todo.ID}
	case sel.user != nil, sel.todo != nil:
		m.status, m.failed = loader.ErrNotCustom.Error(), true
		return m
	default:
		return m
	}
	m.mode = modeConfirm
	return m
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := *m.pending
	switch msg.String() {
	case "y", "Y":
		d.Confirmed = true
		m.pending, m.mode = nil, modeBrowse
		return m, m.dispatch(d, d.Entity.String()+" deleted")
	case "n", "N", "esc":
		m.pending, m.mode = nil, modeBrowse
		m.status, m.failed = "", false
		return m, m.dispatch(d, "")
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeBrowse
		m.search.Blur()
		m.search.SetValue("")
		return m, m.dispatch(app.Search{Immediate: true}, "")
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != prev {
		// Only restarts the debounce timer; the reload arrives as TermAppliedMsg.
		_ = m.app.Dispatch(m.ctx, app.Search{Raw: v})
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form, m.mode = nil, modeBrowse
		return m, nil
	case "tab", "down":
		m.form.move(1)
		return m, nil
	case "shift+tab", "up":
		m.form.move(-1)
		return m, nil
	case "enter":
		if m.form.focus < len(m.form.inputs)-1 {
			m.form.move(1)
			return m, nil
		}
		vals, ok := m.form.values()
		if !ok {
			return m, nil
		}
		f := m.form
		m.form, m.mode = nil, modeBrowse
		return m, m.dispatch(f.submit(vals), f.done)
	}
	return m, m.form.update(msg)
}

func (m Model) View() string {
	t := ui.Current()

	var extra []string
	if m.mode == modeSearch || m.search.Value() != "" {
		extra = append(extra, m.search.View())
	}
	switch m.mode {
	case modeForm:
		extra = append(extra, ui.PanelString(m.form.view()))
	case modeConfirm:
		extra = append(extra, t.Pending.Render(fmt.Sprintf("Delete %s %s? (y/n)", m.pending.Entity, m.pending.ID)))
	}
	if m.status != "" {
		style := t.Muted
		if m.failed {
			style = t.Error
		}
		extra = append(extra, style.Render(m.status))
	}

	reserved := 3 // border and the crumbs bar
	for _, e := range extra {
		reserved += strings.Count(e, "\n") + 1
	}
	m.list.SetSize(m.width-4, max(m.height-reserved, 3))

	var content string
	if ev, ok := m.view.(loader.ErrorView); ok {
		content = t.Error.Render(ev.Message) + "\n" + t.Help.Render("press r to reload • [ to go back • q to quit")
	} else {
		content = m.list.View()
	}

	lines := append([]string{ui.Crumbs(m.crumbs), content}, extra...)
	return ui.PanelString(strings.Join(lines, "\n"))
}
