package order

import (
	"testing"

	"github.com/cargotrack/server/internal/model"
	"github.com/stretchr/testify/assert"
)

var allStates = []model.State{
	model.StateCancelled, model.StateRejected,
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13,
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		current   model.State
		requested model.State
		kind      DecisionKind
		err       error
	}{
		{"forward", model.StateReceived, model.StateAssigned, Accepted, nil},
		{"jump to delivered", model.StateCreated, model.StateDelivered, Accepted, nil},
		{"backwards", model.StateInTransit, model.StateReceived, Accepted, nil},
		{"same state", model.StateQuoted, model.StateQuoted, NoOp, nil},
		{"cancel before payment", model.StateAssigned, model.StateCancelled, Accepted, nil},
		{"reject before payment", model.StateCreated, model.StateRejected, Accepted, nil},
		{"cancel after payment", model.StateProcessing, model.StateCancelled, Rejected, ErrCannotCancelAfterPayment},
		{"reject after payment", model.StatePackingBox, model.StateRejected, Rejected, ErrCannotCancelAfterPayment},
		{"cancelled to rejected", model.StateCancelled, model.StateRejected, Accepted, nil},
		{"zero", model.StateCreated, 0, Rejected, ErrInvalidState},
		{"too high", model.StateCreated, 14, Rejected, ErrInvalidState},
		{"too low", model.StateCreated, -3, Rejected, ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Validate(tt.current, tt.requested)
			assert.Equal(t, tt.kind, d.Kind)
			if tt.err != nil {
				assert.ErrorIs(t, d.Err, tt.err)
			} else {
				assert.NoError(t, d.Err)
			}
		})
	}
}

func TestValidate_CancellationGuard(t *testing.T) {
	for current := model.StateProcessing; current <= model.StateDelivered; current++ {
		for _, requested := range []model.State{model.StateRejected, model.StateCancelled} {
			d := Validate(current, requested)
			assert.Equal(t, Rejected, d.Kind, "current=%d requested=%d", current, requested)
			assert.ErrorIs(t, d.Err, ErrCannotCancelAfterPayment)
		}
	}
}

func TestValidate_SameStateIsNoOp(t *testing.T) {
	for _, s := range allStates {
		assert.Equal(t, NoOp, Validate(s, s).Kind, "state=%d", s)
	}
}

func TestNextMaxState(t *testing.T) {
	for _, before := range allStates {
		if before < 0 {
			continue
		}
		for _, next := range allStates {
			got := nextMaxState(before, next)
			if next > 0 {
				assert.Equal(t, max(before, next), got)
			} else {
				assert.Equal(t, before, got)
			}
		}
	}
}

func TestDecisionKind_String(t *testing.T) {
	assert.Equal(t, "accepted", Accepted.String())
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "noop", NoOp.String())
}
