// Package adapter provides clients for the rig daemon the console talks to.
package adapter

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for classifying rig failures. Callers match with
// errors.Is; the editor maps each class to a different recovery path.
var (
	// ErrConflict means another session holds control of the rig.
	ErrConflict = errors.New("session conflict")
	// ErrRejected means the request failed validation or is not allowed
	// right now; retrying without changing anything will not help.
	ErrRejected = errors.New("request rejected")
	// ErrTransient covers network and server failures worth retrying.
	ErrTransient = errors.New("transient failure")
	// ErrNotApplicable means the operation had nothing to act on, e.g.
	// stopping when no session is active. Treated as a no-op by callers.
	ErrNotApplicable = errors.New("not applicable")
)

// Wrap tags err with a marker for later classification while keeping the
// operation context in the message. A nil marker defaults to ErrTransient.
func Wrap(marker error, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}

	detail := buildDetail(operation, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}

	return fmt.Errorf("%w: %s", marker, detail)
}

// IsConflict reports whether err is tagged as a session conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsRejected reports whether err is tagged as rejected.
func IsRejected(err error) bool { return errors.Is(err, ErrRejected) }

// IsNotApplicable reports whether err is tagged as a no-op condition.
func IsNotApplicable(err error) bool { return errors.Is(err, ErrNotApplicable) }

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}

	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}

	if len(parts) == 0 {
		return "rig failure"
	}

	return strings.Join(parts, ": ")
}
