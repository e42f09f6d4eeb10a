package core

import (
	"fmt"

	"github.com/google/uuid"
)

// NewSessionID returns a unique identifier used to correlate the log lines
// of a single load session across worker goroutines.
func NewSessionID() string {
	return uuid.NewString()
}

// NewResourceName generates a unique name for resources that have no
// natural identifier, such as placeholder textures.
func NewResourceName(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
