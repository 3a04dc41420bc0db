package dialogue

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dukanx/vaani/internal/model/billing"
)

// PriceLookup supplies the catalog sale price for an item, when the shop has
// one on file. Implementations return nil with no error when the product is
// unknown.
type PriceLookup interface {
	SalePrice(ctx context.Context, userID, itemName string) (*float64, error)
}

// Planner decides the single next system utterance for a turn. It never
// fails: any unrecognized condition re-asks the most recent unanswered
// question instead of advancing.
type Planner struct {
	store  Store
	prices PriceLookup
}

// NewPlanner wires the planner to its session store and an optional catalog
// price lookup.
func NewPlanner(store Store, prices PriceLookup) *Planner {
	return &Planner{store: store, prices: prices}
}

// NextStep runs one turn of the billing state machine: cancel check, merge,
// then a prompt derived from whatever the session is still missing.
func (p *Planner) NextStep(ctx context.Context, userID, text string, extraction billing.Extraction) billing.TurnResult {
	// Global interrupt, honoured in any state before anything else runs.
	if IsCancel(text) {
		p.store.Clear(userID)
		return billing.TurnResult{
			Text:   "ठीक आहे, रद्द केले. (Okay, cancelled.)",
			Action: billing.ActionCancel,
		}
	}

	session := p.store.Get(userID)
	session.TurnCount++
	Merge(session, extraction)

	// Self-heal: an item that lost its name is useless, drop it and re-ask.
	if last := session.LastItem(); last != nil && last.ItemName == "" {
		session.Items = session.Items[:len(session.Items)-1]
	}

	return p.respond(ctx, session, text)
}

// respond maps the derived phase onto a prompt. The loop only repeats when a
// catalog autofill closes the price slot and the phase must be re-derived.
func (p *Planner) respond(ctx context.Context, session *billing.Session, text string) billing.TurnResult {
	for {
		switch PhaseOf(session) {
		case PhaseAwaitingIntent:
			return p.ask(session, billing.QuestionIntent,
				"तुम्हाला काय करायचं आहे? (Bill, Payment, Return, Estimate, Order or Challan?)")

		case PhaseAwaitingCustomer:
			return p.ask(session, billing.QuestionCustomer,
				"ग्राहकाचं नाव सांगा? (Customer name?)")

		case PhaseAwaitingItemName:
			return p.ask(session, billing.QuestionItemName,
				"कोणता आयटम ॲड करायचा? (Which item?)")

		case PhaseAwaitingItemQty:
			last := session.LastItem()
			return p.ask(session, billing.QuestionQty,
				fmt.Sprintf("'%s' चे किती नग? (Quantity?)", last.ItemName))

		case PhaseAwaitingPrice:
			last := session.LastItem()
			if p.fillCatalogPrice(ctx, session.UserID, last) {
				continue
			}
			return p.ask(session, billing.QuestionPrice,
				fmt.Sprintf("'%s' ची किंमत काय? (Price?)", last.ItemName))

		case PhaseAwaitingAmount:
			return p.ask(session, billing.QuestionAmount,
				"किती रक्कम मिळाली? (How much amount?)")

		case PhaseItemLoop:
			if IsFinish(text) {
				return p.confirm(session)
			}
			last := session.LastItem()
			return p.ask(session, billing.QuestionMore,
				fmt.Sprintf("Added %g %s. आणखी काही? (Anything else?)", *last.Qty, last.ItemName))

		default: // PhaseConfirming
			return p.confirm(session)
		}
	}
}

// ask records the question tag and returns a listen turn.
func (p *Planner) ask(session *billing.Session, question billing.Question, text string) billing.TurnResult {
	session.LastQuestion = question
	return billing.TurnResult{Text: text, Action: billing.ActionListen}
}

// confirm builds the human-readable summary and hands the full session back
// as the payload the caller persists on an affirmative answer.
func (p *Planner) confirm(session *billing.Session) billing.TurnResult {
	session.LastQuestion = billing.QuestionConfirm

	var summary strings.Builder
	fmt.Fprintf(&summary, "Complete. Validating: %s for %s.", session.Intent, session.CustomerName)

	if session.Intent == billing.IntentPayment {
		mode := session.Payment.Mode
		if mode == "" {
			mode = "CASH"
		}
		fmt.Fprintf(&summary, " Amount: %g (%s).", *session.Payment.Amount, mode)
	} else {
		lines := make([]string, 0, len(session.Items))
		for _, item := range session.Items {
			qty := float64(1)
			if item.Qty != nil {
				qty = *item.Qty
			}
			lines = append(lines, fmt.Sprintf("%g %s", qty, item.ItemName))
		}
		fmt.Fprintf(&summary, " Items: %s.", strings.Join(lines, ", "))
	}
	summary.WriteString(" Shall I save it?")

	return billing.TurnResult{
		Text:    summary.String(),
		Action:  billing.ActionConfirm,
		Payload: session.Snapshot(),
	}
}

// fillCatalogPrice attaches the catalog sale price to the draft when the
// shop has one, so the user is not asked for a price they never change.
func (p *Planner) fillCatalogPrice(ctx context.Context, userID string, item *billing.ItemDraft) bool {
	if p.prices == nil {
		return false
	}
	price, err := p.prices.SalePrice(ctx, userID, item.ItemName)
	if err != nil {
		log.Printf("[dialogue] catalog lookup failed for %q: %v", item.ItemName, err)
		return false
	}
	if price == nil {
		return false
	}
	item.SalePrice = price
	return true
}
