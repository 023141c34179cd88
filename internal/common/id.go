package common

import (
	"github.com/google/uuid"
)

// NewRunID generates a unique check-run ID with the "run_" prefix.
// Format: run_<uuid>. Attached to log events so one CI invocation's
// lines can be correlated.
func NewRunID() string {
	return "run_" + uuid.New().String()
}
