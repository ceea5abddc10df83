package verdict

import (
	"errors"
	"fmt"
	"strings"
)

// enabled is the process-wide validation switch. The engine only reads
// it; toggling is the caller's responsibility and must happen outside
// any in-flight validation.
var enabled = true

// SetEnabled turns validation on or off process-wide. While disabled,
// Validate returns nil without comparing. Intended for debug use only.
func SetEnabled(on bool) {
	enabled = on
}

// Enabled reports whether validation is currently enabled.
func Enabled() bool {
	return enabled
}

// ValidationError is returned when data does not satisfy a requirement.
// It carries the collection of differences and a description resolved
// at raise time: the caller-supplied message if any, else a fixed
// default naming the comparison mode.
type ValidationError struct {
	// Description is the human-readable failure summary.
	Description string

	// Differences holds the typed mismatches, list- or mapping-shaped
	// depending on the data's shape.
	Differences *Collection
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var buf strings.Builder
	n := e.Count()
	noun := "differences"
	if n == 1 {
		noun = "difference"
	}
	fmt.Fprintf(&buf, "%s (%d %s):\n", e.Description, n, noun)
	buf.WriteString(e.Differences.String())
	return buf.String()
}

// Count returns the number of differences carried by the error.
func (e *ValidationError) Count() int {
	return e.Differences.Len()
}

// Validate compares data against a requirement. It returns nil when the
// data satisfies the requirement, a *ValidationError carrying the
// differences when it does not, and a *ConfigError when the requirement
// is not structurally compatible with the data.
//
// The optional message overrides the default error description.
func Validate(data, requirement any, message ...string) error {
	if !enabled {
		return nil
	}

	collection, mode, err := compare(data, requirement)
	if err != nil {
		return err
	}
	if collection.Empty() {
		return nil
	}

	description := fmt.Sprintf("does not satisfy %s", mode)
	if len(message) > 0 && message[0] != "" {
		description = message[0]
	}
	return &ValidationError{Description: description, Differences: collection}
}

// Valid is the non-raising probe: it reports whether data satisfies the
// requirement. Configuration errors (shape incompatibility, malformed
// requirements) are programmer errors and panic rather than reading as
// invalid data.
func Valid(data, requirement any) bool {
	err := Validate(data, requirement)
	if err == nil {
		return true
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return false
	}
	panic(err)
}
