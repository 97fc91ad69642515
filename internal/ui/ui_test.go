package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/trail/internal/breadcrumb"
	"github.com/Makepad-fr/trail/internal/loader"
	"github.com/Makepad-fr/trail/internal/model"
)

func useMono(t *testing.T) {
	t.Helper()
	prev := Current()
	SetTheme("mono")
	t.Cleanup(func() { current = prev })
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[██░░] 1/2", ProgressBar(1, 2, 4))
	assert.Equal(t, "[░░░░] 0/1", ProgressBar(0, 0, 4))
	assert.Equal(t, "[████] 5/3", ProgressBar(5, 3, 4))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
}

func TestNamed_UnknownIsClassic(t *testing.T) {
	assert.Equal(t, "classic", Named("sparkly").Name)
	assert.Equal(t, "neon", Named("NEON").Name)
}

func TestCrumbs(t *testing.T) {
	useMono(t)
	got := Crumbs(breadcrumb.Build("users#posts#comments#42"))
	assert.Equal(t, "1:users > 2:posts > 3:comments > Post 42 Comments", got)
}

func TestViewLines_Todos(t *testing.T) {
	useMono(t)
	todos := []model.Todo{
		{ID: "1", UserID: "1", Title: "buy milk", Completed: true},
		{ID: "custom_x", UserID: "1", Title: "walk dog", IsCustom: true},
	}
	v := loader.TodosView{
		UserID: "1",
		Owner:  &model.User{ID: "1", Name: "Leanne Graham"},
		Todos:  todos,
		Stats:  model.CountTodos(todos),
	}
	out := strings.Join(ViewLines(v), "\n")
	assert.Contains(t, out, "Todos for Leanne Graham")
	assert.Contains(t, out, "[x]   buy milk")
	assert.Contains(t, out, "[ ] * walk dog")
	assert.Contains(t, out, "1/2")
}

func TestViewLines_Empty(t *testing.T) {
	useMono(t)
	lines := ViewLines(loader.UsersView{})
	assert.Equal(t, "no items", lines[len(lines)-1])
}

func TestViewLines_Error(t *testing.T) {
	useMono(t)
	lines := ViewLines(loader.ErrorView{Message: "Failed to load posts"})
	assert.Equal(t, "Failed to load posts", lines[0])
}

func TestPanel(t *testing.T) {
	useMono(t)
	var buf bytes.Buffer
	Panel(&buf, []string{"hello"})
	assert.Contains(t, buf.String(), "hello")
	assert.True(t, strings.HasPrefix(buf.String(), "┌"))
}
