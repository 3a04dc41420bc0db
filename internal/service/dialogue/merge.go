package dialogue

import (
	"time"

	"github.com/dukanx/vaani/internal/model/billing"
)

// Merge folds one extraction into the session without clobbering anything
// already known. An all-empty extraction leaves the session unchanged apart
// from the activity timestamp.
func Merge(session *billing.Session, extraction billing.Extraction) {
	// Intent is write-once for the session's lifetime; later non-empty
	// intents in the same session are ignored.
	if extraction.Intent != "" && session.Intent == "" && billing.KnownIntent(extraction.Intent) {
		session.Intent = extraction.Intent
		session.Active = true
	}

	// Customer name may be corrected mid-flow, so a non-empty value always wins.
	if extraction.CustomerName != "" {
		session.CustomerName = extraction.CustomerName
	}

	for _, fragment := range extraction.Items {
		mergeItemFragment(session, fragment)
	}

	if extraction.Payment != nil {
		if extraction.Payment.Amount != nil {
			amount := *extraction.Payment.Amount
			session.Payment.Amount = &amount
		}
		if extraction.Payment.Mode != "" {
			session.Payment.Mode = extraction.Payment.Mode
		}
	}

	session.LastActiveAt = time.Now().UTC()
}

// mergeItemFragment routes a fragment either onto the bill as a new draft or
// into the still-open slots of the last draft. A nameless fragment with no
// item to complete is dropped here; the planner notices the bill is still
// empty and re-asks for the item name.
func mergeItemFragment(session *billing.Session, fragment billing.ItemFragment) {
	if fragment.ItemName == "" {
		last := session.LastItem()
		if last == nil {
			return
		}
		if fragment.Qty != nil && last.Qty == nil {
			qty := *fragment.Qty
			last.Qty = &qty
		}
		if fragment.Price != nil && last.Price == nil {
			price := *fragment.Price
			last.Price = &price
		}
		return
	}

	draft := billing.ItemDraft{ItemName: fragment.ItemName}
	if fragment.Qty != nil {
		qty := *fragment.Qty
		draft.Qty = &qty
	}
	if fragment.Price != nil {
		price := *fragment.Price
		draft.Price = &price
	}
	session.Items = append(session.Items, draft)
}
