package authz

import (
	"sync/atomic"

	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
)

// ErrPaused is returned for pausable commands while the switch is on.
var ErrPaused = apperrors.New(apperrors.CodeLedgerPaused, "ledger is paused")

// PauseSwitch is the process-wide on/off gate for mutations.
type PauseSwitch struct {
	paused atomic.Bool
}

// Paused reports whether mutations are currently refused.
func (p *PauseSwitch) Paused() bool {
	return p.paused.Load()
}

// SetPaused flips the switch and reports whether the value changed.
func (p *PauseSwitch) SetPaused(paused bool) bool {
	return p.paused.Swap(paused) != paused
}
