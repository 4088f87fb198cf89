package hp

import (
	"fmt"
	"os"
)

// NotFoundError reports a preset or config artifact which cannot be resolved.
// A missing base preset is fatal: the dependent experiment has no complete
// field set without it, so resolution stops rather than returning a partial
// config.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "config " + e.Name + " not found"
}

// FieldError reports access to a field the config does not define, or a value
// which cannot be parsed into the field's type.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return "config field " + e.Field + ": " + e.Reason
}

// Exit in case of error
func CheckErr(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
