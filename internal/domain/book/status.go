package book

import (
	"fmt"
	"strings"
)

// Status is the reading status of a book.
type Status string

// Reading status values.
const (
	Unread  Status = "Unread"
	Reading Status = "Reading"
	Read    Status = "Read"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	return s == Unread || s == Reading || s == Read
}

// ParseStatus converts a caller-supplied value (case-insensitive) into a Status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unread":
		return Unread, nil
	case "reading":
		return Reading, nil
	case "read":
		return Read, nil
	default:
		return "", fmt.Errorf("unknown reading status %q", s)
	}
}
