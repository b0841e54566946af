package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State is the integer code of an order's position in the fulfillment pipeline.
// The numeric values are shared with the web portal and must not change.
type State int

const (
	StateCancelled         State = -2
	StateRejected          State = -1
	StateCreated           State = 1
	StateReceived          State = 2
	StateQuoted            State = 3
	StateAssigned          State = 4
	StateProcessing        State = 5
	StatePackingBox        State = 6
	StatePackingContainer  State = 7
	StateReadyToShip       State = 8
	StateInTransit         State = 9
	StateCustoms           State = 10
	StateWarehouseReceived State = 11
	StateReadyForPickup    State = 12
	StateDelivered         State = 13
)

// stateInfo holds the machine name and the client-facing label of a state.
type stateInfo struct {
	name  string
	label string
}

var states = map[State]stateInfo{
	StateCancelled:         {"cancelled", "Cancelado"},
	StateRejected:          {"rejected", "Rechazado"},
	StateCreated:           {"created", "Pedido creado"},
	StateReceived:          {"received", "Recibido"},
	StateQuoted:            {"quoted", "Cotizado"},
	StateAssigned:          {"assigned", "Asignado Venezuela"},
	StateProcessing:        {"processing", "En procesamiento"},
	StatePackingBox:        {"packing-box", "Preparando envío"},
	StatePackingContainer:  {"packing-container", "Listo para envío"},
	StateReadyToShip:       {"ready-to-ship", "Enviado"},
	StateInTransit:         {"in-transit", "En tránsito"},
	StateCustoms:           {"customs", "En aduana"},
	StateWarehouseReceived: {"warehouse-received", "En almacén Venezuela"},
	StateReadyForPickup:    {"ready-for-pickup", "Listo para entrega"},
	StateDelivered:         {"delivered", "Entregado"},
}

// IsValid reports whether s belongs to the closed set {-2, -1, 1..13}.
func (s State) IsValid() bool {
	_, ok := states[s]
	return ok
}

// IsCancellation reports whether s is one of the cancellation sentinels.
func (s State) IsCancellation() bool {
	return s == StateCancelled || s == StateRejected
}

// Name returns the machine name of the state, or "unknown".
func (s State) Name() string {
	if info, ok := states[s]; ok {
		return info.name
	}
	return "unknown"
}

// Label returns the human-readable Spanish label shown to clients.
func (s State) Label() string {
	if info, ok := states[s]; ok {
		return info.label
	}
	return "Estado desconocido"
}

// String returns the machine name followed by the numeric code.
func (s State) String() string {
	return fmt.Sprintf("%s(%d)", s.Name(), int(s))
}

// Order is a tracked shipment order owned by a client.
type Order struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	ClientID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductName     string
	State           State `gorm:"not null;default:1;index"`
	MaxStateReached State `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the database table name.
func (Order) TableName() string {
	return "orders"
}

// StateHistory is one row of the append-only transition ledger of an order.
type StateHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   int64     `gorm:"not null;index:idx_order_state_history_order_state,priority:1"`
	State     State     `gorm:"not null;index:idx_order_state_history_order_state,priority:2"`
	Timestamp time.Time `gorm:"not null;index"`
	ChangedBy *string
	Notes     *string
	IPAddress *string
	UserAgent *string
}

// TableName returns the database table name.
func (StateHistory) TableName() string {
	return "order_state_history"
}

// HistoryMetadata carries the optional caller-supplied fields of a history row.
type HistoryMetadata struct {
	ChangedBy *string
	Notes     *string
	IPAddress *string
	UserAgent *string
}

// IsEmpty reports whether no metadata field was supplied.
func (m HistoryMetadata) IsEmpty() bool {
	return m.ChangedBy == nil && m.Notes == nil && m.IPAddress == nil && m.UserAgent == nil
}

// StateChange is a conditional state write against the order store.
type StateChange struct {
	OrderID         int64
	From            State
	To              State
	MaxStateReached State
	At              time.Time
}

// Client is the account that owns orders and receives status messages.
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the database table name.
func (Client) TableName() string {
	return "clients"
}
