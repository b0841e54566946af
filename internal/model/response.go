package model

import "time"

// ErrorResponse is the error body returned by the API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TransitionRequest is the body of a state transition request.
type TransitionRequest struct {
	State     *int    `json:"state" binding:"required"`
	ChangedBy *string `json:"changed_by,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
	UserAgent *string `json:"user_agent,omitempty"`
}

// TransitionResponse is returned when a transition was applied.
type TransitionResponse struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	OrderID       int64     `json:"orderId"`
	State         State     `json:"state"`
	PreviousState State     `json:"previousState"`
	Timestamp     time.Time `json:"timestamp"`
	HistoryID     *int64    `json:"historyId"`
}

// UnchangedResponse is returned when the requested state equals the current one.
type UnchangedResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	OrderID       int64  `json:"orderId"`
	State         State  `json:"state"`
	PreviousState State  `json:"previousState"`
}

// HistoryResponse is the JSON view of a StateHistory row.
type HistoryResponse struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	State     State     `json:"state"`
	StateName string    `json:"state_name"`
	Timestamp time.Time `json:"timestamp"`
	ChangedBy *string   `json:"changed_by,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	IPAddress *string   `json:"ip_address,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
}

// ToResponse converts a history row to its JSON view.
func (h *StateHistory) ToResponse() *HistoryResponse {
	if h == nil {
		return nil
	}
	return &HistoryResponse{
		ID:        h.ID,
		OrderID:   h.OrderID,
		State:     h.State,
		StateName: h.State.Name(),
		Timestamp: h.Timestamp,
		ChangedBy: h.ChangedBy,
		Notes:     h.Notes,
		IPAddress: h.IPAddress,
		UserAgent: h.UserAgent,
	}
}

// StateQueryResponse is returned by the state query endpoint.
type StateQueryResponse struct {
	Success    bool             `json:"success"`
	OrderID    int64            `json:"orderId"`
	State      State            `json:"state"`
	StateName  string           `json:"stateName"`
	CreatedAt  time.Time        `json:"createdAt"`
	LastChange *HistoryResponse `json:"lastChange"`
}

// CreateOrderRequest is the body of an order creation request.
type CreateOrderRequest struct {
	ClientID    string `json:"client_id" binding:"required,uuid"`
	ProductName string `json:"product_name"`
}

// OrderResponse is the JSON view of an order.
type OrderResponse struct {
	ID              int64     `json:"id"`
	ClientID        string    `json:"client_id"`
	ProductName     string    `json:"product_name"`
	State           State     `json:"state"`
	StateName       string    `json:"state_name"`
	MaxStateReached State     `json:"max_state_reached"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToResponse converts an order to its JSON view.
func (o *Order) ToResponse() *OrderResponse {
	return &OrderResponse{
		ID:              o.ID,
		ClientID:        o.ClientID.String(),
		ProductName:     o.ProductName,
		State:           o.State,
		StateName:       o.State.Name(),
		MaxStateReached: o.MaxStateReached,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// NotificationResponse is the JSON view of a notification.
type NotificationResponse struct {
	ID            int64        `json:"id"`
	AudienceType  AudienceType `json:"audience_type"`
	AudienceValue string       `json:"audience_value"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Href          string       `json:"href"`
	Severity      Severity     `json:"severity"`
	OrderID       *int64       `json:"order_id,omitempty"`
	Unread        bool         `json:"unread"`
	CreatedAt     time.Time    `json:"created_at"`
	ReadAt        *time.Time   `json:"read_at,omitempty"`
}

// ToResponse converts a notification to its JSON view.
func (n *Notification) ToResponse() *NotificationResponse {
	return &NotificationResponse{
		ID:            n.ID,
		AudienceType:  n.AudienceType,
		AudienceValue: n.AudienceValue,
		Title:         n.Title,
		Description:   n.Description,
		Href:          n.Href,
		Severity:      n.Severity,
		OrderID:       n.OrderID,
		Unread:        n.Unread,
		CreatedAt:     n.CreatedAt,
		ReadAt:        n.ReadAt,
	}
}

// CreateClientRequest is the body of a client registration request.
type CreateClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"omitempty,numeric,min=7,max=15"`
	Email string `json:"email" binding:"omitempty,email"`
}

// ClientResponse is the JSON view of a client.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a client to its JSON view.
func (c *Client) ToResponse() *ClientResponse {
	return &ClientResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
}
