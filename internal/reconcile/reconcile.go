// Package reconcile merges remote collections with locally persisted
// overrides. Every function here is pure: inputs are never modified.
package reconcile

import "github.com/Makepad-fr/trail/internal/model"

// Users appends local users after remote ones. The two id spaces are
// disjoint so no collision handling is needed.
func Users(remote, local []model.User) []model.User {
	out := make([]model.User, 0, len(remote)+len(local))
	out = append(out, remote...)
	return append(out, local...)
}

// Todos merges remote todos with local ones for the same scope.
//
// Records are visited remote first, then local. A shadow removes the remote
// record it supersedes. On an id collision the first record is kept unless
// the later one is custom, in which case it takes the earlier one's place.
func Todos(remote, local []model.Todo) []model.Todo {
	m := merger{pos: make(map[model.ID]int, len(remote)+len(local))}
	for _, t := range remote {
		m.add(t)
	}
	for _, t := range local {
		m.add(t)
	}
	return m.result()
}

type merger struct {
	slots []model.Todo
	alive []bool
	pos   map[model.ID]int
}

func (m *merger) add(t model.Todo) {
	if t.IsShadow() {
		if i, ok := m.pos[t.OriginalID]; ok && !m.slots[i].IsCustom {
			m.alive[i] = false
			delete(m.pos, t.OriginalID)
		}
	}
	if i, ok := m.pos[t.ID]; ok {
		if t.IsCustom {
			m.slots[i] = t
		}
		return
	}
	m.pos[t.ID] = len(m.slots)
	m.slots = append(m.slots, t)
	m.alive = append(m.alive, true)
}

func (m *merger) result() []model.Todo {
	out := make([]model.Todo, 0, len(m.pos))
	for i, t := range m.slots {
		if m.alive[i] {
			out = append(out, t)
		}
	}
	return out
}

// Shadow derives the custom record that replaces remote todo t when its
// completion is toggled. The remote record itself is left untouched.
func Shadow(t model.Todo, completed bool, id model.ID) model.Todo {
	s := t
	s.ID = id
	s.Completed = completed
	s.IsCustom = true
	s.OriginalID = t.ID
	return s
}
