package loader

import (
	"fmt"

	"github.com/Makepad-fr/trail/internal/model"
	"github.com/Makepad-fr/trail/internal/route"
)

// View is what a loader produces for one route: a filtered, reconciled
// collection plus whatever context its header needs.
type View interface {
	Kind() route.Kind
	Title() string
	Len() int
}

type UsersView struct {
	Users []model.User
}

func (UsersView) Kind() route.Kind { return route.KindUsers }
func (UsersView) Title() string    { return "Users" }
func (v UsersView) Len() int       { return len(v.Users) }

type TodosView struct {
	UserID model.ID
	Owner  *model.User
	Todos  []model.Todo
	Stats  model.TodoStats
}

func (TodosView) Kind() route.Kind { return route.KindUserTodos }
func (v TodosView) Len() int       { return len(v.Todos) }

func (v TodosView) Title() string {
	if v.Owner != nil {
		return "Todos for " + v.Owner.Name
	}
	return fmt.Sprintf("Todos for User #%s", v.UserID)
}

type PostsView struct {
	UserID model.ID
	Owner  *model.User
	Posts  []model.PostSummary
}

func (PostsView) Kind() route.Kind { return route.KindUserPosts }
func (v PostsView) Len() int       { return len(v.Posts) }

func (v PostsView) Title() string {
	if v.Owner != nil {
		return "Posts by " + v.Owner.Name
	}
	return fmt.Sprintf("Posts by User #%s", v.UserID)
}

type CommentsView struct {
	PostID   model.ID
	Post     *model.Post
	Comments []model.Comment
}

func (CommentsView) Kind() route.Kind { return route.KindPostComments }
func (v CommentsView) Len() int       { return len(v.Comments) }

func (v CommentsView) Title() string {
	if v.Post != nil {
		return fmt.Sprintf("Comments for: %q", v.Post.Title)
	}
	return fmt.Sprintf("Comments for Post #%s", v.PostID)
}

// Back is where "back to posts" leads: the owner's posts when the post is
// known, the user list otherwise.
func (v CommentsView) Back() route.Route {
	if v.Post != nil {
		if r, ok := route.ForUserPosts(v.Post.UserID); ok {
			return r
		}
	}
	return route.Users()
}

// ErrorView replaces the content region when a load fails.
type ErrorView struct {
	Route   route.Route
	Message string
}

func (v ErrorView) Kind() route.Kind { return v.Route.Kind() }
func (ErrorView) Title() string      { return "Error" }
func (ErrorView) Len() int           { return 0 }

// FailureMessage is the user-facing text for a failed load of kind.
func FailureMessage(kind route.Kind) string {
	switch kind {
	case route.KindUserTodos:
		return "Failed to load todos"
	case route.KindUserPosts:
		return "Failed to load posts"
	case route.KindPostComments:
		return "Failed to load comments"
	default:
		return "Failed to load users"
	}
}
