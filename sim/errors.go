package sim

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the sentinel wrapped by every ConfigurationError.
var ErrConfiguration = errors.New("gsp: invalid configuration")

// ConfigurationError reports an invalid initial state or reaction registration.
// Reaction is the index the rejected reaction would have taken, or -1 when the
// error concerns the initial state.
type ConfigurationError struct {
	Reaction int
	Field    string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Reaction < 0 {
		return fmt.Sprintf("gsp: state %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("gsp: reaction %d: %s: %s", e.Reaction, e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
