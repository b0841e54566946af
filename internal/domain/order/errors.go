package order

import (
	"errors"

	"github.com/cargotrack/server/internal/port/outbound"
)

// Domain errors for order.
var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrInvalidState             = errors.New("invalid order state")
	ErrCannotCancelAfterPayment = errors.New("cannot cancel an order after payment was validated")
	ErrStoreWrite               = errors.New("order state write failed")
	ErrStateConflict            = outbound.ErrStateConflict
)
