package order

import "github.com/cargotrack/server/internal/model"

// DecisionKind is the outcome class of a transition check.
type DecisionKind int

const (
	Accepted DecisionKind = iota
	Rejected
	NoOp
)

func (k DecisionKind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case NoOp:
		return "noop"
	}
	return "unknown"
}

// Decision is the result of Validate. Err is set only for Rejected.
type Decision struct {
	Kind DecisionKind
	Err  error
}

// Validate decides whether an order in current may move to requested.
// Any in-domain, non-equal move is allowed except cancelling an order whose
// payment has already been validated.
func Validate(current, requested model.State) Decision {
	if !requested.IsValid() {
		return Decision{Kind: Rejected, Err: ErrInvalidState}
	}
	if requested == current {
		return Decision{Kind: NoOp}
	}
	if requested.IsCancellation() && current >= model.StateProcessing {
		return Decision{Kind: Rejected, Err: ErrCannotCancelAfterPayment}
	}
	return Decision{Kind: Accepted}
}

// nextMaxState returns the high-water mark after moving to next.
// Cancellation codes never lower it.
func nextMaxState(current, next model.State) model.State {
	if next > 0 && next > current {
		return next
	}
	return current
}
