package problemgen

import "fmt"

// Validator vets one generated problem. The first failure rejects the
// whole batch. Implementations must be safe for concurrent use.
type Validator interface {
	Name() string
	Validate(p *Problem) *ValidationError
}

// ValidationError names the validator that rejected a problem.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

type funcValidator struct {
	name  string
	check func(p *Problem) string
}

// ValidatorFunc builds a Validator from check, which returns a failure
// message or "".
func ValidatorFunc(name string, check func(p *Problem) string) Validator {
	return funcValidator{name: name, check: check}
}

func (v funcValidator) Name() string { return v.name }

func (v funcValidator) Validate(p *Problem) *ValidationError {
	if msg := v.check(p); msg != "" {
		return &ValidationError{Validator: v.name, Message: msg}
	}
	return nil
}
