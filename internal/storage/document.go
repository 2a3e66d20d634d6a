package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/habitree/internal/models"
)

// TimestampFormat is a fixed-width UTC layout so text columns sort
// chronologically.
const TimestampFormat = "2006-01-02T15:04:05.000000000Z"

// EncodeHabit serializes the full habit document stored by the SQL backends.
func EncodeHabit(h models.Habit) ([]byte, error) {
	doc, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("failed to encode habit %s: %w", h.ID, err)
	}
	return doc, nil
}

// DecodeHabit parses a stored document. The version column wins over
// whatever the document carries.
func DecodeHabit(doc []byte, version int) (models.Habit, error) {
	var h models.Habit
	if err := json.Unmarshal(doc, &h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to decode habit document: %w", err)
	}
	h.Version = version
	if h.TreeNodes == nil {
		h.TreeNodes = []models.TreeNode{}
	}
	return h, nil
}

// FormatTimestamp renders t in TimestampFormat.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
