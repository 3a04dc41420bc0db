package billing

import (
	"time"

	"github.com/google/uuid"
)

// Intent identifies the billing flow a session is driving towards.
type Intent string

const (
	IntentSale            Intent = "SALE"
	IntentPayment         Intent = "PAYMENT"
	IntentSaleReturn      Intent = "SALE_RETURN"
	IntentEstimate        Intent = "ESTIMATE"
	IntentSaleOrder       Intent = "SALE_ORDER"
	IntentDeliveryChallan Intent = "DELIVERY_CHALLAN"
)

// KnownIntent reports whether the extractor returned one of the supported intents.
func KnownIntent(i Intent) bool {
	switch i {
	case IntentSale, IntentPayment, IntentSaleReturn, IntentEstimate, IntentSaleOrder, IntentDeliveryChallan:
		return true
	default:
		return false
	}
}

// Question tags the last prompt the assistant asked, for re-prompt routing.
type Question string

const (
	QuestionIntent   Question = "intent"
	QuestionCustomer Question = "customerName"
	QuestionItemName Question = "itemName"
	QuestionQty      Question = "qty"
	QuestionPrice    Question = "price"
	QuestionAmount   Question = "amount"
	QuestionMore     Question = "more"
	QuestionConfirm  Question = "confirm"
)

// ItemDraft is one line of the bill being assembled. Qty and Price stay nil
// until the user supplies them; SalePrice is an optional catalog hint that
// satisfies the price requirement when present.
type ItemDraft struct {
	ItemName  string   `json:"itemName"`
	Qty       *float64 `json:"qty"`
	Price     *float64 `json:"price"`
	SalePrice *float64 `json:"salePrice,omitempty"`
}

// Complete reports whether the draft has everything needed to bill it.
func (d ItemDraft) Complete() bool {
	return d.ItemName != "" && d.Qty != nil && (d.Price != nil || d.SalePrice != nil)
}

// Payment holds the payment leg of a session.
type Payment struct {
	Amount *float64 `json:"amount"`
	Mode   string   `json:"mode"`
}

// Session is the per-user dialogue state. It lives only in memory and is
// rebuilt from scratch after the idle timeout.
type Session struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	Active       bool        `json:"active"`
	Intent       Intent      `json:"intent,omitempty"`
	CustomerName string      `json:"customerName,omitempty"`
	Items        []ItemDraft `json:"items"`
	Payment      Payment     `json:"payment"`
	LastQuestion Question    `json:"lastQuestion,omitempty"`
	TurnCount    int         `json:"turnCount"`
	LastActiveAt time.Time   `json:"lastActiveAt"`
}

// NewSession returns an empty inactive session for the user.
func NewSession(userID string) *Session {
	return &Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		Items:        make([]ItemDraft, 0, 4),
		LastActiveAt: time.Now().UTC(),
	}
}

// LastItem returns the most recently added draft, or nil when the bill is empty.
func (s *Session) LastItem() *ItemDraft {
	if len(s.Items) == 0 {
		return nil
	}
	return &s.Items[len(s.Items)-1]
}

// Snapshot returns a deep copy safe to hand to callers after the live
// session has been cleared or mutated.
func (s *Session) Snapshot() *Session {
	copied := *s
	copied.Items = make([]ItemDraft, len(s.Items))
	for i, item := range s.Items {
		item.Qty = copyFloat(item.Qty)
		item.Price = copyFloat(item.Price)
		item.SalePrice = copyFloat(item.SalePrice)
		copied.Items[i] = item
	}
	copied.Payment.Amount = copyFloat(s.Payment.Amount)
	return &copied
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	val := *v
	return &val
}
