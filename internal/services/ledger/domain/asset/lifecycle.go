package asset

import (
	"strings"
	"time"

	"github.com/louisbranch/fractional/internal/services/ledger/domain/command"
)

// decideUpdateStatus moves an asset along the lifecycle graph. Pending is
// only ever entered by creation and Fraudulent is never left.
func decideUpdateStatus(state State, cmd command.Command, at time.Time) command.Decision {
	var p UpdateStatusPayload
	if f := decode(cmd, &p); f != nil {
		return f.decision()
	}

	ov := newOverlay(state)
	if _, f := ov.live(p.TokenID); f != nil {
		return f.decision()
	}
	to, ok := ParseStatus(p.Status)
	if !ok {
		return fail(ErrInvalidStatus, "TokenID", tokenLabel(p.TokenID), "Status", strings.TrimSpace(p.Status)).decision()
	}
	from, f := ov.setStatus(p.TokenID, to)
	if f != nil {
		return f.decision()
	}
	return command.Accept(newAssetEvent(cmd, EventTypeStatusUpdated, p.TokenID, StatusUpdatedPayload{
		TokenID: p.TokenID,
		From:    from,
		To:      to,
	}, at))
}
