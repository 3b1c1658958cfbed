package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState matches every *TransitionError.
	ErrInvalidState = errors.New("command not allowed in current state")
	// ErrInvalidSetting matches every *InvalidSettingError.
	ErrInvalidSetting = errors.New("invalid setting value")
	// ErrChangeDeclined is returned when the confirmer vetoes a reset.
	ErrChangeDeclined = errors.New("change declined")
)

// TransitionError indicates no transition exists for the state/event pair.
type TransitionError struct {
	From  State
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.From, e.Event)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidState }

// InvalidSettingError is a rejected settings change. Err is the parse error
// or the engine's rejection.
type InvalidSettingError struct {
	Setting Setting
	Value   string
	Err     error
}

func (e *InvalidSettingError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Setting, e.Value, e.Err)
}

func (e *InvalidSettingError) Unwrap() error { return e.Err }

func (e *InvalidSettingError) Is(target error) bool { return target == ErrInvalidSetting }
