package whatsapp

import (
	"fmt"

	"github.com/cargotrack/server/internal/model"
)

// templates maps a state to the message sent to the order's client.
// States without an entry fall back to defaultTemplate.
var templates = map[model.State]string{
	model.StateCreated:           "Tu pedido: %s. Estamos revisándolo.",
	model.StateReceived:          "Tu pedido: %s. Ha sido revisado y será cotizado en las próximas 48 horas.",
	model.StateQuoted:            "Tu pedido: %s. Tu cotización está lista. Por favor, realiza el pago para continuar.",
	model.StateAssigned:          "Tu pedido: %s. Estamos validando tu pago. Te notificaremos cuando esté procesado.",
	model.StateProcessing:        "Tu pedido: %s. ¡Pago validado! Está listo para ser empaquetado.",
	model.StatePackingBox:        "Tu pedido: %s. Está siendo empaquetado en una caja.",
	model.StatePackingContainer:  "Tu pedido: %s. Está siendo empaquetado en un contenedor.",
	model.StateInTransit:         "Tu pedido: %s. Ya va en camino a Venezuela.",
	model.StateCustoms:           "Tu pedido: %s. El contenedor ha sido recibido. En breve será procesado en nuestras oficinas.",
	model.StateWarehouseReceived: "Tu pedido: %s. Ha sido recibido en nuestras oficinas. Espera un mensaje cuando esté listo para retirar.",
	model.StateReadyForPickup:    "Tu pedido: %s. ¡Está listo para ser retirado en la tienda!",
	model.StateDelivered:         "Tu pedido: %s. Ha sido entregado exitosamente. ¡Gracias por tu compra!",
}

var defaultTemplate = templates[model.StateCreated]

// RenderMessage returns the client-facing text for a state.
func RenderMessage(state model.State, productName string) string {
	tmpl, ok := templates[state]
	if !ok {
		tmpl = defaultTemplate
	}
	return fmt.Sprintf(tmpl, productName)
}
