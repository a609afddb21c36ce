package commands

import (
	"fmt"

	"modbot/utils"
)

// MissingUser is the answer to a punitive command issued without a target.
const MissingUser = "You must specify a user"

// ArgumentError is a problem with what the invoker typed. Its message is sent
// back verbatim and nothing is mutated.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

// Argumentf builds an ArgumentError.
func Argumentf(format string, args ...any) error {
	return &ArgumentError{Message: fmt.Sprintf(format, args...)}
}

// CapabilityError means the bot itself lacks the privilege for an action.
type CapabilityError struct {
	Message string
	Err     error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}

// Forbidden turns a 403 from Discord into a CapabilityError carrying message.
// Other errors are returned unchanged.
func Forbidden(err error, message string) error {
	if err == nil {
		return nil
	}
	if utils.IsForbidden(err) {
		return &CapabilityError{Message: message, Err: err}
	}
	return err
}
