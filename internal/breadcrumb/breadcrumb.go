// Package breadcrumb derives the label trail shown above the content region.
package breadcrumb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Makepad-fr/trail/internal/route"
)

// Crumb is one step of the trail. Path is the cumulative route up to and
// including this step; the Current crumb is not navigable.
type Crumb struct {
	Name    string
	Path    string
	Current bool
}

// Build returns one crumb per segment of path.
func Build(path string) []Crumb {
	segs := route.Split(path)
	out := make([]Crumb, len(segs))
	for i, seg := range segs {
		name := seg
		if isNumeric(seg) {
			name = Label(i, segs)
		}
		out[i] = Crumb{
			Name: name,
			Path: strings.Join(segs[:i+1], route.Separator),
		}
	}
	if n := len(out); n > 0 {
		out[n-1].Current = true
	}
	return out
}

// Label names the numeric segment at index from its position and the
// segment before it. Unknown positions keep the number.
func Label(index int, segs []string) string {
	id := segs[index]
	switch {
	case index == 2 && segs[1] == "todos":
		return fmt.Sprintf("User %s Todos", id)
	case index == 2 && segs[1] == "posts":
		return fmt.Sprintf("User %s Posts", id)
	case index == 3 && segs[2] == "comments":
		return fmt.Sprintf("Post %s Comments", id)
	}
	return id
}

func isNumeric(s string) bool {
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}
