package api

import (
	"context"

	"github.com/Makepad-fr/trail/internal/model"
)

// Fixtures serves a small built-in dataset instead of the network. It backs
// offline mode.
type Fixtures struct {
	users    []model.User
	todos    []model.Todo
	posts    []model.Post
	comments []model.Comment
}

func NewFixtures() *Fixtures {
	return &Fixtures{
		users: []model.User{
			{ID: "1", Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz"},
			{ID: "2", Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv"},
		},
		todos: []model.Todo{
			{ID: "1", UserID: "1", Title: "delectus aut autem"},
			{ID: "2", UserID: "1", Title: "quis ut nam facilis et officia qui"},
			{ID: "3", UserID: "2", Title: "fugiat veniam minus"},
			{ID: "4", UserID: "2", Title: "et porro tempora", Completed: true},
			{ID: "5", UserID: "1", Title: "laboriosam mollitia et enim quasi adipisci quia provident illum"},
		},
		posts: []model.Post{
			{
				ID: "1", UserID: "1",
				Title: "sunt aut facere repellat provident occaecati excepturi optio reprehenderit",
				Body:  "quia et suscipit\nsuscipit recusandae consequuntur expedita et cum\nreprehenderit molestiae ut ut quas totam\nnostrum rerum est autem sunt rem eveniet architecto",
			},
			{
				ID: "2", UserID: "2",
				Title: "qui est esse",
				Body:  "est rerum tempore vitae\nsequi sint nihil reprehenderit dolor beatae ea dolores neque\nfugiat blanditiis voluptate porro vel nihil molestiae ut reiciendis\nqui aperiam non debitis possimus qui neque nisi nulla",
			},
		},
		comments: []model.Comment{
			{
				ID: "1", PostID: "1",
				Name:  "id labore ex et quam laborum",
				Email: "Eliseo@gardner.biz",
				Body:  "laudantium enim quasi est quidem magnam voluptate ipsam eos\ntempora quo necessitatibus\ndolor quam autem quasi\nreiciendis et nam sapiente accusantium",
			},
			{
				ID: "2", PostID: "1",
				Name:  "quo vero reiciendis velit similique earum",
				Email: "Jayne_Kuhic@sydney.com",
				Body:  "est natus enim nihil est dolore omnis voluptatem numquam\net omnis occaecati quod ullam at\nvoluptatem error expedita pariatur\nnihil sint nostrum voluptatem reiciendis et",
			},
		},
	}
}

func (f *Fixtures) Users(ctx context.Context) ([]model.User, error) {
	return clone(ctx, f.users, nil)
}

func (f *Fixtures) UserTodos(ctx context.Context, userID uint64) ([]model.Todo, error) {
	uid := model.NumID(userID)
	return clone(ctx, f.todos, func(t model.Todo) bool { return t.UserID == uid })
}

func (f *Fixtures) UserPosts(ctx context.Context, userID uint64) ([]model.Post, error) {
	uid := model.NumID(userID)
	return clone(ctx, f.posts, func(p model.Post) bool { return p.UserID == uid })
}

func (f *Fixtures) PostComments(ctx context.Context, postID uint64) ([]model.Comment, error) {
	pid := model.NumID(postID)
	return clone(ctx, f.comments, func(c model.Comment) bool { return c.PostID == pid })
}

func (f *Fixtures) Posts(ctx context.Context) ([]model.Post, error) {
	return clone(ctx, f.posts, nil)
}

func (f *Fixtures) Todos(ctx context.Context) ([]model.Todo, error) {
	return clone(ctx, f.todos, nil)
}

func (f *Fixtures) Comments(ctx context.Context) ([]model.Comment, error) {
	return clone(ctx, f.comments, nil)
}

func clone[T any](ctx context.Context, src []T, keep func(T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(src))
	for _, v := range src {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}
