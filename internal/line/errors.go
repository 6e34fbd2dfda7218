// internal/line/errors.go
package line

import "fmt"

// AcquisitionError reports a line that could not be obtained or configured.
// Lines acquired before the failing one have already been released
// when this error is returned.
type AcquisitionError struct {
	Role Role
	ID   string
	Err  error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("line: acquire %s line %q: %v", e.Role, e.ID, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }
