package privilege

import (
	"fmt"

	"go.aporeto.io/clatd/constants"
	"kernel.org/pub/linux/libs/security/libcap/cap"
)

// State identifies how much privilege the process currently holds.
type State int

const (
	// Elevated is the initial root-equivalent state the supervisor starts
	// the daemon in.
	Elevated State = iota

	// Reduced runs as the clat service identity and retains the
	// capabilities needed to open raw sockets and administer interfaces.
	Reduced

	// Minimal retains interface administration only. There is no
	// transition out of Minimal.
	Minimal
)

func (s State) String() string {
	switch s {
	case Elevated:
		return "elevated"
	case Reduced:
		return "reduced"
	case Minimal:
		return "minimal"
	}
	return "unknown"
}

// Credentials is the identity the daemon adopts when it leaves Elevated.
type Credentials struct {
	UID    int
	GID    int
	Groups []int
}

// DefaultCredentials is the platform service identity: the clat user plus
// the groups granting inet socket creation and tun device access.
func DefaultCredentials() Credentials {
	return Credentials{
		UID:    constants.UIDClat,
		GID:    constants.GIDClat,
		Groups: []int{constants.GIDInet, constants.GIDVpn},
	}
}

var (
	reducedSet = []cap.Value{cap.NET_ADMIN, cap.NET_RAW}
	minimalSet = []cap.Value{cap.NET_ADMIN}
)

// ReducedCapabilities returns the capability values retained in Reduced.
func ReducedCapabilities() []cap.Value {
	return append([]cap.Value(nil), reducedSet...)
}

// MinimalCapabilities returns the capability values retained in Minimal.
func MinimalCapabilities() []cap.Value {
	return append([]cap.Value(nil), minimalSet...)
}

// Primitives touching the process, replaceable in tests. cap.SetGroups and
// cap.SetUID keep the permitted set across the identity change and apply it
// to every thread of the process.
var (
	setGroups = cap.SetGroups
	setUID    = cap.SetUID
	applySet  = func(s *cap.Set) error { return s.SetProc() }
)

// Sequencer narrows process privilege. Transitions only ever move forward:
// no operation widens the capability set or revisits an earlier state.
type Sequencer struct {
	state State
}

// NewSequencer returns a sequencer in the Elevated state.
func NewSequencer() *Sequencer {
	return &Sequencer{state: Elevated}
}

// State returns the current privilege state.
func (s *Sequencer) State() State {
	return s.state
}

// DropRoot transitions Elevated to Reduced: it installs the supplementary
// groups, switches to the service identity with capabilities retained, and
// then holds only the Reduced capability set. Must complete before any
// resource acquisition.
func (s *Sequencer) DropRoot(cred Credentials) error {

	if s.state != Elevated {
		return fmt.Errorf("unable to drop root: invalid transition from %s", s.state)
	}

	if err := setGroups(cred.GID, cred.Groups...); err != nil {
		return fmt.Errorf("setgroups failed: %s", err)
	}

	if err := setUID(cred.UID); err != nil {
		return fmt.Errorf("setresuid failed: %s", err)
	}

	if err := applyCapabilities(reducedSet); err != nil {
		return err
	}

	s.state = Reduced
	return nil
}

// Narrow transitions Reduced to Minimal. It must run after the raw sockets
// exist and before the tun device is created.
func (s *Sequencer) Narrow() error {

	if s.state != Reduced {
		return fmt.Errorf("unable to narrow capabilities: invalid transition from %s", s.state)
	}

	if err := applyCapabilities(minimalSet); err != nil {
		return err
	}

	s.state = Minimal
	return nil
}

// applyCapabilities installs exactly the given values in the permitted,
// effective and inheritable vectors, clearing everything else.
func applyCapabilities(vals []cap.Value) error {

	set := cap.NewSet()
	for _, flag := range []cap.Flag{cap.Permitted, cap.Effective, cap.Inheritable} {
		if err := set.SetFlag(flag, true, vals...); err != nil {
			return fmt.Errorf("unable to build capability set: %s", err)
		}
	}

	if err := applySet(set); err != nil {
		return fmt.Errorf("capset failed: %s", err)
	}

	return nil
}
