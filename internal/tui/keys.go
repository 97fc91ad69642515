package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open    key.Binding
	Toggle  key.Binding
	Posts   key.Binding
	Todos   key.Binding
	Up      key.Binding
	Back    key.Binding
	Forward key.Binding
	Jump    key.Binding
	Search  key.Binding
	Add     key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Posts:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "posts")),
		Todos:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "todos")),
		Up:      key.NewBinding(key.WithKeys("backspace", "u"), key.WithHelp("u", "up")),
		Back:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "back")),
		Forward: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "forward")),
		Jump:    key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "crumb")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Open, k.Toggle, k.Posts, k.Up, k.Search, k.Add, k.Delete}
}

func (k keyMap) full() []key.Binding {
	return []key.Binding{
		k.Open, k.Toggle, k.Posts, k.Todos, k.Up, k.Back, k.Forward,
		k.Jump, k.Search, k.Add, k.Delete, k.Reload,
	}
}
