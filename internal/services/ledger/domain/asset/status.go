package asset

import "strings"

// Status describes the lifecycle label of an asset.
type Status string

const (
	StatusUnspecified Status = ""
	StatusPending     Status = "Pending"
	StatusCertified   Status = "Certified"
	StatusInEscrow    Status = "InEscrow"
	StatusDisputed    Status = "Disputed"
	StatusFraudulent  Status = "Fraudulent"
)

// statusOrder fixes the listing order used by AllowedTransitions.
var statusOrder = [...]Status{
	StatusPending,
	StatusCertified,
	StatusInEscrow,
	StatusDisputed,
	StatusFraudulent,
}

// transitions is the lifecycle graph. It is never written after init.
var transitions = map[Status]map[Status]struct{}{
	StatusPending:    {StatusCertified: {}, StatusFraudulent: {}},
	StatusCertified:  {StatusInEscrow: {}, StatusDisputed: {}},
	StatusInEscrow:   {StatusCertified: {}, StatusDisputed: {}},
	StatusDisputed:   {StatusFraudulent: {}, StatusCertified: {}, StatusInEscrow: {}},
	StatusFraudulent: {},
}

// IsTransitionAllowed reports whether the lifecycle graph has an edge from
// one status to another. Self-loops are never allowed.
func IsTransitionAllowed(from, to Status) bool {
	_, ok := transitions[from][to]
	return ok
}

// AllowedTransitions lists the statuses reachable from a status in one step.
func AllowedTransitions(from Status) []Status {
	edges := transitions[from]
	if len(edges) == 0 {
		return nil
	}
	out := make([]Status, 0, len(edges))
	for _, candidate := range statusOrder {
		if _, ok := edges[candidate]; ok {
			out = append(out, candidate)
		}
	}
	return out
}

// Statuses returns every known status in lifecycle order.
func Statuses() []Status {
	return append([]Status(nil), statusOrder[:]...)
}

// IsTerminal reports whether no transitions leave the status.
func (s Status) IsTerminal() bool {
	_, known := transitions[s]
	return known && len(transitions[s]) == 0
}

// ParseStatus canonicalizes a status label. It accepts the canonical names
// case-insensitively plus snake and ASSET_STATUS_ prefixed forms.
func ParseStatus(value string) (Status, bool) {
	key := strings.ToUpper(strings.TrimSpace(value))
	key = strings.TrimPrefix(key, "ASSET_STATUS_")
	key = strings.ReplaceAll(key, "_", "")
	switch key {
	case "PENDING":
		return StatusPending, true
	case "CERTIFIED":
		return StatusCertified, true
	case "INESCROW":
		return StatusInEscrow, true
	case "DISPUTED":
		return StatusDisputed, true
	case "FRAUDULENT":
		return StatusFraudulent, true
	default:
		return StatusUnspecified, false
	}
}
