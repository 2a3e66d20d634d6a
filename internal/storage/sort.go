package storage

import (
	"net/url"
	"sort"

	"github.com/julianstephens/habitree/internal/constants"
	"github.com/julianstephens/habitree/internal/models"
)

// SortNewestFirst orders habits by creation time descending, breaking ties
// by id so the order is stable across backends.
func SortNewestFirst(habits []models.Habit) {
	sort.SliceStable(habits, func(i, j int) bool {
		if !habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].CreatedAt.After(habits[j].CreatedAt)
		}
		return habits[i].ID > habits[j].ID
	})
}

// Namespace maps a user id to its cache namespace. User namespaces are
// "u-" plus the path-escaped id, so they never contain a separator and never
// equal the anonymous slot.
func Namespace(userID string) string {
	if userID == "" {
		return constants.AnonymousNamespace
	}
	return "u-" + url.PathEscape(userID)
}
