package model

// User is a person record. Remote users come from the API; custom users are
// created locally and carry IsCustom.
type User struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	IsCustom bool   `json:"isCustom,omitempty"`
}

// Todo is a task owned by a user. A custom todo with OriginalID set shadows
// the remote todo it was derived from.
type Todo struct {
	ID         ID     `json:"id"`
	UserID     ID     `json:"userId"`
	Title      string `json:"title"`
	Completed  bool   `json:"completed"`
	IsCustom   bool   `json:"isCustom,omitempty"`
	OriginalID ID     `json:"originalId,omitempty"`
}

// IsShadow reports whether t supersedes a remote todo.
func (t Todo) IsShadow() bool { return t.IsCustom && !t.OriginalID.IsZero() }

type Post struct {
	ID     ID     `json:"id"`
	UserID ID     `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type Comment struct {
	ID     ID     `json:"id"`
	PostID ID     `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// PostSummary is a post together with the number of comments it has.
type PostSummary struct {
	Post
	Comments int `json:"commentsCount"`
}

// TodoStats counts todos by completion.
type TodoStats struct {
	Total, Completed, Pending int
}

// CountTodos computes stats over todos.
func CountTodos(todos []Todo) TodoStats {
	s := TodoStats{Total: len(todos)}
	for _, t := range todos {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}
