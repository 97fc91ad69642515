// Package search holds the current search term and the per-entity
// predicates that narrow a reconciled collection.
package search

import (
	"strings"

	"github.com/Makepad-fr/trail/internal/model"
)

// Normalize trims and lower-cases raw input into a term.
func Normalize(raw string) string { return strings.ToLower(strings.TrimSpace(raw)) }

// Filter keeps the items match accepts for term. An empty term returns items
// unchanged.
func Filter[T any](items []T, term string, match func(T, string) bool) []T {
	if term == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if match(it, term) {
			out = append(out, it)
		}
	}
	return out
}

func MatchUser(u model.User, term string) bool {
	return contains(u.Name, term) || contains(u.Email, term)
}

func MatchTodo(t model.Todo, term string) bool {
	return contains(t.Title, term)
}

func MatchPost(p model.Post, term string) bool {
	return contains(p.Title, term) || contains(p.Body, term)
}

func MatchPostSummary(p model.PostSummary, term string) bool {
	return MatchPost(p.Post, term)
}

func MatchComment(c model.Comment, term string) bool {
	return contains(c.Name, term) || contains(c.Body, term) || contains(c.Email, term)
}

// contains assumes term is already lower-case.
func contains(field, term string) bool {
	return strings.Contains(strings.ToLower(field), term)
}
