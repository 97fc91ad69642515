package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Makepad-fr/trail/internal/model"
)

// Overrides is the typed repository for custom users and todos.
//
// Every read goes to the KV; nothing is cached between calls. When a write
// fails, the failure is logged and the repository switches to an in-memory
// copy for the rest of the session so the UI keeps working.
type Overrides struct {
	logger *zap.Logger

	mu       sync.Mutex
	kv       KV
	degraded bool
}

func NewOverrides(kv KV, logger *zap.Logger) *Overrides {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Overrides{kv: kv, logger: logger.Named("store")}
}

// Degraded reports whether writes have fallen back to memory.
func (o *Overrides) Degraded() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.degraded
}

// Users returns every custom user.
func (o *Overrides) Users() ([]model.User, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var users []model.User
	err := o.load(KeyUsers, &users)
	return users, err
}

// SaveUser appends u.
func (o *Overrides) SaveUser(u model.User) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	var users []model.User
	if err := o.load(KeyUsers, &users); err != nil {
		return err
	}
	return o.save(KeyUsers, append(users, u))
}

// DeleteUser removes the custom user id together with that user's todos.
// Both documents are read before either is written, and todos go first so a
// failed cascade never leaves orphaned todos behind a deleted user.
func (o *Overrides) DeleteUser(id model.ID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	var users []model.User
	if err := o.load(KeyUsers, &users); err != nil {
		return err
	}
	var todos []model.Todo
	if err := o.load(KeyTodos, &todos); err != nil {
		return err
	}

	if err := o.save(KeyTodos, dropTodos(todos, func(t model.Todo) bool { return t.UserID == id })); err != nil {
		return err
	}
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	return o.save(KeyUsers, kept)
}

// Todos returns every custom todo.
func (o *Overrides) Todos() ([]model.Todo, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var todos []model.Todo
	err := o.load(KeyTodos, &todos)
	return todos, err
}

// UserTodos returns the custom todos owned by userID.
func (o *Overrides) UserTodos(userID model.ID) ([]model.Todo, error) {
	all, err := o.Todos()
	if err != nil {
		return nil, err
	}
	var out []model.Todo
	for _, t := range all {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

// SaveTodo inserts t, or replaces the stored todo with the same id.
func (o *Overrides) SaveTodo(t model.Todo) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	var todos []model.Todo
	if err := o.load(KeyTodos, &todos); err != nil {
		return err
	}
	replaced := false
	for i := range todos {
		if todos[i].ID == t.ID {
			todos[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		todos = append(todos, t)
	}
	return o.save(KeyTodos, todos)
}

// SetTodoCompleted updates a stored custom todo in place.
func (o *Overrides) SetTodoCompleted(id model.ID, completed bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	var todos []model.Todo
	if err := o.load(KeyTodos, &todos); err != nil {
		return err
	}
	for i := range todos {
		if todos[i].ID == id {
			todos[i].Completed = completed
			return o.save(KeyTodos, todos)
		}
	}
	return fmt.Errorf("todo %s: %w", id, ErrNotFound)
}

// DeleteTodo removes id from the store. Remote todos are not stored here, so
// deleting a shadow lets the remote original show again.
func (o *Overrides) DeleteTodo(id model.ID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	var todos []model.Todo
	if err := o.load(KeyTodos, &todos); err != nil {
		return err
	}
	return o.save(KeyTodos, dropTodos(todos, func(t model.Todo) bool { return t.ID == id }))
}

// Route returns the last persisted route, or "" when none was saved.
func (o *Overrides) Route() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var path string
	if err := o.load(KeyRoute, &path); err != nil {
		o.logger.Warn("reading route", zap.Error(err))
		return ""
	}
	return path
}

// SaveRoute persists path.
func (o *Overrides) SaveRoute(path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.save(KeyRoute, path)
}

func (o *Overrides) load(key string, v any) error {
	b, err := o.kv.Get(key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (o *Overrides) save(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := o.kv.Set(key, b); err != nil {
		if o.degraded {
			return fmt.Errorf("set %s: %w", key, err)
		}
		o.logger.Warn("store write failed, keeping changes in memory for this session",
			zap.String("key", key), zap.Error(err))
		o.degrade()
		return o.kv.Set(key, b)
	}
	return nil
}

// degrade swaps the backing KV for an in-memory copy of what it currently
// holds.
func (o *Overrides) degrade() {
	mem := NewMemory()
	for _, key := range []string{KeyUsers, KeyTodos, KeyRoute} {
		if b, err := o.kv.Get(key); err == nil {
			_ = mem.Set(key, b)
		}
	}
	o.kv = mem
	o.degraded = true
}

func dropTodos(todos []model.Todo, drop func(model.Todo) bool) []model.Todo {
	kept := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if !drop(t) {
			kept = append(kept, t)
		}
	}
	return kept
}
