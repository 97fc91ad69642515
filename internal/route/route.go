// Package route parses and formats navigation paths.
//
// The grammar is fixed:
//
//	users
//	users#todos#<uint>
//	users#posts#<uint>
//	users#posts#comments#<uint>
//
// Anything else resolves to Users.
package route

import (
	"strconv"
	"strings"

	"github.com/Makepad-fr/trail/internal/model"
)

// Separator joins path segments.
const Separator = "#"

const (
	segUsers    = "users"
	segTodos    = "todos"
	segPosts    = "posts"
	segComments = "comments"
)

// Kind tags the variant of a Route.
type Kind int

const (
	KindUsers Kind = iota
	KindUserTodos
	KindUserPosts
	KindPostComments
)

func (k Kind) String() string {
	switch k {
	case KindUserTodos:
		return "UserTodos"
	case KindUserPosts:
		return "UserPosts"
	case KindPostComments:
		return "PostComments"
	default:
		return "Users"
	}
}

// Route is a parsed navigation path. The zero value is the Users route.
type Route struct {
	kind Kind
	id   uint64
}

func Users() Route { return Route{kind: KindUsers} }

func UserTodos(userID uint64) Route { return Route{kind: KindUserTodos, id: userID} }

func UserPosts(userID uint64) Route { return Route{kind: KindUserPosts, id: userID} }

func PostComments(postID uint64) Route { return Route{kind: KindPostComments, id: postID} }

func (r Route) Kind() Kind { return r.kind }

// UserID returns the user a todos or posts route is scoped to.
func (r Route) UserID() (uint64, bool) {
	if r.kind == KindUserTodos || r.kind == KindUserPosts {
		return r.id, true
	}
	return 0, false
}

// PostID returns the post a comments route is scoped to.
func (r Route) PostID() (uint64, bool) {
	if r.kind == KindPostComments {
		return r.id, true
	}
	return 0, false
}

// Segments returns the canonical segments of r.
func (r Route) Segments() []string {
	id := strconv.FormatUint(r.id, 10)
	switch r.kind {
	case KindUserTodos:
		return []string{segUsers, segTodos, id}
	case KindUserPosts:
		return []string{segUsers, segPosts, id}
	case KindPostComments:
		return []string{segUsers, segPosts, segComments, id}
	default:
		return []string{segUsers}
	}
}

// String formats r in canonical form.
func (r Route) String() string { return strings.Join(r.Segments(), Separator) }

// Split trims a leading separator and splits path into segments.
func Split(path string) []string {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, Separator)
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

type rule struct {
	pattern []string // "" marks the <uint> slot
	kind    Kind
}

// rules are ordered longest first so a comments path is never taken by the
// posts rule.
var rules = []rule{
	{[]string{segUsers, segPosts, segComments, ""}, KindPostComments},
	{[]string{segUsers, segTodos, ""}, KindUserTodos},
	{[]string{segUsers, segPosts, ""}, KindUserPosts},
	{[]string{segUsers}, KindUsers},
}

// Parse resolves path against the grammar. ok is false when nothing matched
// and the returned route is the Users fallback.
func Parse(path string) (r Route, ok bool) {
	segs := Split(path)
	for _, ru := range rules {
		if id, matched := ru.match(segs); matched {
			return Route{kind: ru.kind, id: id}, true
		}
	}
	return Users(), false
}

func (ru rule) match(segs []string) (uint64, bool) {
	if len(segs) != len(ru.pattern) {
		return 0, false
	}
	var id uint64
	for i, want := range ru.pattern {
		if want != "" {
			if segs[i] != want {
				return 0, false
			}
			continue
		}
		n, err := strconv.ParseUint(segs[i], 10, 64)
		if err != nil {
			return 0, false
		}
		id = n
	}
	return id, true
}

// ForUserTodos and friends build routes from record ids; a non-numeric id
// (a custom record) yields the Users fallback and false.
func ForUserTodos(id model.ID) (Route, bool)    { return scoped(id, UserTodos) }
func ForUserPosts(id model.ID) (Route, bool)    { return scoped(id, UserPosts) }
func ForPostComments(id model.ID) (Route, bool) { return scoped(id, PostComments) }

func scoped(id model.ID, mk func(uint64) Route) (Route, bool) {
	n, ok := id.Uint()
	if !ok {
		return Users(), false
	}
	return mk(n), true
}
