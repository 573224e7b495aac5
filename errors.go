package clatd

import "fmt"

// Kind classifies a fatal failure by the stage that produced it. The daemon
// never retries any of them, a supervisor restart is assumed.
type Kind int

const (
	// KindArgument covers invalid command-line input.
	KindArgument Kind = iota

	// KindPrivilege covers failed identity or capability transitions.
	KindPrivilege

	// KindResource covers acquisition of sockets, the tun device,
	// configuration and interface setup.
	KindResource

	// KindSignalSetup covers installation of the termination handler.
	KindSignalSetup
)

func (k Kind) String() string {

	switch k {
	case KindArgument:
		return "argument"
	case KindPrivilege:
		return "privilege"
	case KindResource:
		return "resource"
	case KindSignalSetup:
		return "signal-setup"
	}
	return "unknown"
}

// Error is a fatal daemon failure tagged with its kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

// Unwrap exposes the underlying failure.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}
