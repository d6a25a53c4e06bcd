package container

import (
	"fmt"
)

// Kind classifies launch failures, match with errors.Is(err, ErrNetworkSetup)
type Kind int

// Kinds of launch failures
const (
	ErrConfiguration Kind = iota + 1
	ErrSpawn
	ErrNetworkSetup
	ErrNamespaceSetup
	ErrResourceLimit
	ErrExec
)

var kindString = []string{
	"invalid",
	"ConfigurationError",
	"SpawnError",
	"NetworkSetupError",
	"NamespaceSetupError",
	"ResourceLimitError",
	"ExecError",
}

func (k Kind) String() string {
	i := int(k)
	if i < 0 || i >= len(kindString) {
		i = 0
	}
	return kindString[i]
}

func (k Kind) Error() string {
	return k.String()
}

// Error is the error returned by Runner.Start
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func newError(k Kind, op string, err error) *Error {
	return &Error{Kind: k, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("container: %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("container: %s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the Kind of the error
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}
