package notification

import (
	"fmt"
	"time"

	"github.com/cargotrack/server/internal/model"
	"github.com/google/uuid"
)

// Transition is the input of the dispatcher.
type Transition struct {
	OrderID       int64
	PreviousState model.State
	NewState      model.State
	ClientID      uuid.UUID
}

// Audience is a resolved notification recipient.
type Audience struct {
	Type  model.AudienceType
	Value string
}

// AudienceSelector resolves the recipient of a rule, or false when the
// transition has no such recipient.
type AudienceSelector func(t Transition) (Audience, bool)

// Role selects a fixed role queue.
func Role(name string) AudienceSelector {
	return func(Transition) (Audience, bool) {
		return Audience{Type: model.AudienceRole, Value: name}, true
	}
}

// OrderClient selects the client that owns the order.
func OrderClient() AudienceSelector {
	return func(t Transition) (Audience, bool) {
		if t.ClientID == uuid.Nil {
			return Audience{}, false
		}
		return Audience{Type: model.AudienceUser, Value: t.ClientID.String()}, true
	}
}

// Template renders the content of a notification.
// Description may reference the order id (%[1]d) and the new state label (%[2]s).
type Template struct {
	Title       string
	Description string
	Href        string
	Severity    model.Severity
}

func (tpl Template) render(t Transition, audience Audience) *model.Notification {
	orderID := t.OrderID
	return &model.Notification{
		AudienceType:  audience.Type,
		AudienceValue: audience.Value,
		Title:         tpl.Title,
		Description:   fmt.Sprintf(tpl.Description, t.OrderID, t.NewState.Label()),
		Href:          tpl.Href,
		Severity:      tpl.Severity,
		OrderID:       &orderID,
		Unread:        true,
	}
}

// DedupKind selects how repeated notifications are suppressed.
type DedupKind int

const (
	DedupNone DedupKind = iota
	DedupForever
	DedupWindow
)

// DedupPolicy suppresses a notification when an identical one
// (audience, order, title) already exists. Window applies to DedupWindow.
type DedupPolicy struct {
	Kind   DedupKind
	Window time.Duration
}

// since returns the lower bound of the lookup, zero meaning any time.
func (p DedupPolicy) since(now time.Time) time.Time {
	if p.Kind == DedupWindow {
		return now.Add(-p.Window)
	}
	return time.Time{}
}

// Rule maps a new state to one notification.
type Rule struct {
	Name     string
	Match    func(model.State) bool
	Audience AudienceSelector
	Template Template
	Dedup    DedupPolicy
}

// StateIs matches exactly one state.
func StateIs(s model.State) func(model.State) bool {
	return func(got model.State) bool { return got == s }
}

// StateIsNot matches every state except s.
func StateIsNot(s model.State) func(model.State) bool {
	return func(got model.State) bool { return got != s }
}

// RulesConfig tunes the default rule table.
type RulesConfig struct {
	ReadyToPackWindow time.Duration
}

// DefaultRulesConfig returns the production settings.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{ReadyToPackWindow: 12 * time.Hour}
}

// Titles of the default rules. Dedup lookups match on title.
const (
	TitleStatusChanged     = "Estado del pedido actualizado"
	TitleAssigned          = "Nuevo pedido asignado"
	TitleToValidate        = "Nuevo pedido por validar"
	TitleRequiresAttention = "Pedido requiere atención"
	TitleForQuote          = "Nuevo pedido para cotizar"
	TitleQuoteReady        = "Cotización lista"
	TitleReadyToPack       = "Pedido listo para empaquetar"
)

// DefaultRules returns the notification fan-out table.
// Quote-ready goes to the client instead of the generic status change.
func DefaultRules(cfg RulesConfig) []Rule {
	return []Rule{
		{
			Name:     "client_status_changed",
			Match:    StateIsNot(model.StateQuoted),
			Audience: OrderClient(),
			Template: Template{
				Title:       TitleStatusChanged,
				Description: "Tu pedido #%[1]d cambió a: %[2]s",
				Href:        "/cliente/mis-pedidos",
				Severity:    model.SeverityInfo,
			},
		},
		{
			Name:     "venezuela_assigned",
			Match:    StateIs(model.StateAssigned),
			Audience: Role(model.RoleVenezuela),
			Template: Template{
				Title:       TitleAssigned,
				Description: "Se asignó el pedido #%[1]d a Venezuela",
				Href:        "/venezuela/pedidos",
				Severity:    model.SeverityInfo,
			},
		},
		{
			Name:     "pagos_to_validate",
			Match:    StateIs(model.StateAssigned),
			Audience: Role(model.RolePagos),
			Template: Template{
				Title:       TitleToValidate,
				Description: "El pedido #%[1]d espera validación de pago",
				Href:        "/pagos/validacion-pagos",
				Severity:    model.SeverityWarning,
			},
		},
		{
			Name:     "china_requires_attention",
			Match:    StateIs(model.StateReceived),
			Audience: Role(model.RoleChina),
			Template: Template{
				Title:       TitleRequiresAttention,
				Description: "El pedido #%[1]d requiere atención",
				Href:        "/china/pedidos",
				Severity:    model.SeverityWarning,
			},
		},
		{
			Name:     "china_for_quote",
			Match:    StateIs(model.StateQuoted),
			Audience: Role(model.RoleChina),
			Template: Template{
				Title:       TitleForQuote,
				Description: "El pedido #%[1]d está pendiente de cotización",
				Href:        "/china/pedidos",
				Severity:    model.SeverityInfo,
			},
		},
		{
			Name:     "client_quote_ready",
			Match:    StateIs(model.StateQuoted),
			Audience: OrderClient(),
			Template: Template{
				Title:       TitleQuoteReady,
				Description: "La cotización de tu pedido #%[1]d está lista. Realiza el pago para continuar.",
				Href:        "/cliente/mis-pedidos",
				Severity:    model.SeveritySuccess,
			},
			Dedup: DedupPolicy{Kind: DedupForever},
		},
		{
			Name:     "china_ready_to_pack",
			Match:    StateIs(model.StateProcessing),
			Audience: Role(model.RoleChina),
			Template: Template{
				Title:       TitleReadyToPack,
				Description: "El pago del pedido #%[1]d fue validado. Listo para empaquetar.",
				Href:        "/china/pedidos",
				Severity:    model.SeverityInfo,
			},
			Dedup: DedupPolicy{Kind: DedupWindow, Window: cfg.ReadyToPackWindow},
		},
	}
}
