package session

import (
	"fmt"
	"regexp"
)

// Session names become directory names under ~/.swipe/sessions, so the
// charset is restricted to lowercase filesystem-safe characters.
var namePattern = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidateName rejects names that cannot serve as a session directory.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("session name is empty")
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid session name %q: use 1-64 of a-z, 0-9, - or _", name)
	}
	return nil
}
