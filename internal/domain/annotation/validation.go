package annotation

import "fmt"

// ValidateCreateInput validates fields required to create an annotation.
func ValidateCreateInput(req CreateRequest) error {
	if !req.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
	}
	return nil
}

// ParsePriority converts user input to a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, s)
	}
	return p, nil
}
