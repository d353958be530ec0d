package protocol

// Result codes attached to engine outcomes, audit lines and console errors.
const (
	OK = "OK"

	// Input / validation.
	ErrBadRequest      = "E_BAD_REQUEST"
	ErrInvalidIndex    = "E_INVALID_INDEX"
	ErrUnknownBuilding = "E_UNKNOWN_BUILDING"

	// Ledger.
	ErrNoResource     = "E_NO_RESOURCE"
	ErrRecipeMismatch = "E_RECIPE_MISMATCH"

	// Layout.
	ErrNotFound = "E_NOT_FOUND"

	ErrClosed   = "E_CLOSED"
	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	OK:                 {},
	ErrBadRequest:      {},
	ErrInvalidIndex:    {},
	ErrUnknownBuilding: {},
	ErrNoResource:      {},
	ErrRecipeMismatch:  {},
	ErrNotFound:        {},
	ErrClosed:          {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
