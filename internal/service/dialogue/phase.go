package dialogue

import "github.com/dukanx/vaani/internal/model/billing"

// Phase is the conversational state derived from session contents. There is
// deliberately no stored phase field: re-deriving it each turn means the
// machine self-heals from partial or corrupt intermediate states, whatever
// put the session there.
type Phase string

const (
	PhaseAwaitingIntent   Phase = "awaiting_intent"
	PhaseAwaitingCustomer Phase = "awaiting_customer"
	PhaseAwaitingItemName Phase = "awaiting_item_name"
	PhaseAwaitingItemQty  Phase = "awaiting_item_qty"
	PhaseAwaitingPrice    Phase = "awaiting_item_price"
	PhaseAwaitingAmount   Phase = "awaiting_amount"
	PhaseItemLoop         Phase = "item_loop"
	PhaseConfirming       Phase = "confirming"
)

// PhaseOf derives the current phase from what the session already knows.
func PhaseOf(session *billing.Session) Phase {
	if session.Intent == "" {
		return PhaseAwaitingIntent
	}
	if session.CustomerName == "" {
		return PhaseAwaitingCustomer
	}

	if session.Intent == billing.IntentPayment {
		if session.Payment.Amount == nil {
			return PhaseAwaitingAmount
		}
		return PhaseConfirming
	}

	// Every other intent collects an item list.
	last := session.LastItem()
	if last == nil || last.ItemName == "" {
		return PhaseAwaitingItemName
	}
	if last.Qty == nil {
		return PhaseAwaitingItemQty
	}
	if last.Price == nil && last.SalePrice == nil {
		return PhaseAwaitingPrice
	}
	return PhaseItemLoop
}
