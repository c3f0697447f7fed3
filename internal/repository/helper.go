package repository

import (
	"fmt"
	"time"
)

// ParseTime parses a timestamp string in RFC3339 or "2006-01-02" format.
// Note: mirrors validation.ParseTime — both are intentionally kept local to avoid cross-layer imports.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(time.RFC3339, str)
	if err != nil {
		returnTime, err = time.Parse("2006-01-02", str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// FormatTime renders a timestamp the way all repositories store it.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
