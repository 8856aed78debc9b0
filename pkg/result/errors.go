package result

import "fmt"

// CommandNotFound is the failure of dispatching to a command name that is not
// registered.
type CommandNotFound struct {
	Name string
}

func (e *CommandNotFound) Error() string {
	return fmt.Sprintf("command %q not found", e.Name)
}

// StageFailure is the failure of one stage of a pipeline.
type StageFailure struct {
	Stage string
	Cause error
}

func (e *StageFailure) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Cause)
}

func (e *StageFailure) Unwrap() error { return e.Cause }

// ServiceUnavailable is the failure of using a service that requires a loaded
// language while none is loaded.
type ServiceUnavailable struct {
	Service string
}

func (e *ServiceUnavailable) Error() string {
	return fmt.Sprintf("%s is unavailable: no language loaded", e.Service)
}

// PanicError is a panic recovered from a language implementation or command.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
