package status

import (
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

var ServiceOrder = NewMachine("service order",
	map[string]domain.ServiceOrderStatus{
		"confirm": domain.OrderConfirmed,
		"reject":  domain.OrderRejected,
	},
	Edge[domain.ServiceOrderStatus]{From: domain.OrderPending, To: domain.OrderConfirmed, Intents: []domain.IntentKind{domain.IntentNotifyGuest}},
	Edge[domain.ServiceOrderStatus]{From: domain.OrderPending, To: domain.OrderRejected, RequiresReason: true, Intents: []domain.IntentKind{domain.IntentNotifyGuest}},
)

type OrderStart struct {
	Status               domain.ServiceOrderStatus
	IsMinibarConsumption bool
	OwnerConfirmed       *bool
	Intents              []domain.IntentKind
}

// InitialOrder derives the starting state of an order from its lines. The
// order is confirmed only when every line's category confirms automatically;
// one manual line keeps the whole order pending.
func InitialOrder(lines []domain.ServiceOrderLine) OrderStart {
	start := OrderStart{Status: domain.OrderConfirmed}
	whatsapp := false

	for _, l := range lines {
		if !l.Automation.AutoConfirms() {
			start.Status = domain.OrderPending
		}
		switch l.Automation {
		case domain.AutomationSelfService:
			start.IsMinibarConsumption = true
		case domain.AutomationWhatsAppNotify:
			whatsapp = true
		}
	}

	if !start.IsMinibarConsumption {
		confirmed := false
		start.OwnerConfirmed = &confirmed
	}

	if whatsapp {
		start.Intents = append(start.Intents, domain.IntentNotifyOwnerWhatsApp)
	}
	if start.Status == domain.OrderPending {
		start.Intents = append(start.Intents, domain.IntentNotifyOwner)
	} else {
		start.Intents = append(start.Intents, domain.IntentNotifyGuest)
	}
	if start.IsMinibarConsumption {
		start.Intents = append(start.Intents, domain.IntentReconcileMinibar)
	}

	return start
}
