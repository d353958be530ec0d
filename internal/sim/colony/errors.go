package colony

import (
	"errors"
	"fmt"

	"spacecolony/internal/protocol"
	"spacecolony/internal/sim/ledger"
	"spacecolony/internal/sim/planner"
)

var (
	ErrUnknownBuildingType = errors.New("unknown building type")
	ErrBuildingNotFound    = errors.New("building not found in colony")
	ErrInvalidIndex        = planner.ErrInvalidIndex
	ErrIndexTooLarge       = planner.ErrIndexTooLarge
	ErrClosed              = errors.New("engine closed")
)

// ActionError reports a rejected bootstrap, construct or demolish. Nothing
// was mutated by the failing call.
type ActionError struct {
	Op        string
	Code      string
	BuildType rune
	Index     int
	// Offset is the rune offset in the colony text (bootstrap only).
	Offset int
	// Fatal is set for bootstrap failures: the colony could not be loaded.
	Fatal bool
	Err   error
}

func (e *ActionError) Error() string {
	switch {
	case e.BuildType != 0 && e.Op == "bootstrap":
		return fmt.Sprintf("%s: building %q at offset %d: %v", e.Op, e.BuildType, e.Offset, e.Err)
	case e.BuildType != 0:
		return fmt.Sprintf("%s %q: %v", e.Op, e.BuildType, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *ActionError) Unwrap() error { return e.Err }

// Code maps err to a protocol result code.
func Code(err error) string {
	if err == nil {
		return protocol.OK
	}
	var ae *ActionError
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return codeFor(err)
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, ErrUnknownBuildingType):
		return protocol.ErrUnknownBuilding
	case errors.Is(err, ErrBuildingNotFound):
		return protocol.ErrNotFound
	case errors.Is(err, ErrInvalidIndex), errors.Is(err, ErrIndexTooLarge), errors.Is(err, planner.ErrGapType):
		return protocol.ErrInvalidIndex
	case errors.Is(err, ledger.ErrInsufficient):
		return protocol.ErrNoResource
	case errors.Is(err, ledger.ErrRecipeTooLong):
		return protocol.ErrRecipeMismatch
	case errors.Is(err, ErrClosed):
		return protocol.ErrClosed
	default:
		return protocol.ErrInternal
	}
}

// IsFatal reports whether err must end the program rather than the action.
func IsFatal(err error) bool {
	var ae *ActionError
	return errors.As(err, &ae) && ae.Fatal
}

// Shortfall returns the resource a failed action could not pay for.
func Shortfall(err error) (string, bool) {
	var sf *ledger.ShortfallError
	if errors.As(err, &sf) {
		return sf.Resource, true
	}
	return "", false
}
