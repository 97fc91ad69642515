package app

import "github.com/Makepad-fr/trail/internal/model"

// Command is a request dispatched to the App.
type Command interface {
	command()
}

// Navigate pushes Path onto the history and loads it.
type Navigate struct{ Path string }

type Back struct{}

type Forward struct{}

// Reload loads the current path again.
type Reload struct{}

// Search feeds raw input to the debounced search term. Immediate applies
// it at once and reloads.
type Search struct {
	Raw       string
	Immediate bool
}

type AddUser struct {
	Name     string
	Email    string
	Username string
}

type AddTodo struct {
	UserID    model.ID
	Title     string
	Completed bool
}

// Toggle flips the completion of Todo as it is currently shown.
type Toggle struct{ Todo model.Todo }

// Entity selects what a Delete removes.
type Entity int

const (
	EntityUser Entity = iota
	EntityTodo
)

func (e Entity) String() string {
	if e == EntityTodo {
		return "todo"
	}
	return "user"
}

// Delete removes a local record. Without Confirmed it does nothing.
type Delete struct {
	Entity    Entity
	ID        model.ID
	Confirmed bool
}

func (Navigate) command() {}
func (Back) command()     {}
func (Forward) command()  {}
func (Reload) command()   {}
func (Search) command()   {}
func (AddUser) command()  {}
func (AddTodo) command()  {}
func (Toggle) command()   {}
func (Delete) command()   {}
