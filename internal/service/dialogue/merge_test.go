package dialogue_test

import (
	"testing"

	"github.com/dukanx/vaani/internal/model/billing"
	"github.com/dukanx/vaani/internal/service/dialogue"
)

func fptr(v float64) *float64 { return &v }

func TestMergeAllEmptyLeavesSessionUnchanged(t *testing.T) {
	session := billing.NewSession("u1")
	session.Intent = billing.IntentSale
	session.Active = true
	session.CustomerName = "Ramesh"
	session.Items = append(session.Items, billing.ItemDraft{ItemName: "Rice", Qty: fptr(5), Price: fptr(40)})
	before := session.LastActiveAt

	dialogue.Merge(session, billing.Extraction{})

	if session.Intent != billing.IntentSale {
		t.Fatalf("intent changed: %s", session.Intent)
	}
	if session.CustomerName != "Ramesh" {
		t.Fatalf("customer changed: %s", session.CustomerName)
	}
	if len(session.Items) != 1 || session.Items[0].ItemName != "Rice" {
		t.Fatalf("items changed: %+v", session.Items)
	}
	if session.LastActiveAt.Before(before) {
		t.Fatal("lastActiveAt should have been refreshed")
	}
}

func TestMergeIntentIsWriteOnce(t *testing.T) {
	session := billing.NewSession("u1")
	dialogue.Merge(session, billing.Extraction{Intent: billing.IntentSale})

	if session.Intent != billing.IntentSale || !session.Active {
		t.Fatalf("intent not set: %+v", session)
	}

	dialogue.Merge(session, billing.Extraction{Intent: billing.IntentPayment})

	if session.Intent != billing.IntentSale {
		t.Fatalf("intent was overwritten to %s", session.Intent)
	}
}

func TestMergeCustomerNameOverwrite(t *testing.T) {
	session := billing.NewSession("u1")
	dialogue.Merge(session, billing.Extraction{CustomerName: "Ramesh"})

	// Empty value must not erase a known name.
	dialogue.Merge(session, billing.Extraction{})
	if session.CustomerName != "Ramesh" {
		t.Fatalf("empty merge erased name: %q", session.CustomerName)
	}

	// A corrected name wins.
	dialogue.Merge(session, billing.Extraction{CustomerName: "Suresh"})
	if session.CustomerName != "Suresh" {
		t.Fatalf("correction not applied: %q", session.CustomerName)
	}
}

func TestMergeCompletionFragmentTargetsLastItem(t *testing.T) {
	session := billing.NewSession("u1")
	session.Items = append(session.Items, billing.ItemDraft{ItemName: "Rice"})

	dialogue.Merge(session, billing.Extraction{
		Items: []billing.ItemFragment{{Qty: fptr(5)}},
	})

	if len(session.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(session.Items))
	}
	item := session.Items[0]
	if item.ItemName != "Rice" || item.Qty == nil || *item.Qty != 5 || item.Price != nil {
		t.Fatalf("unexpected item state: %+v", item)
	}
}

func TestMergeCompletionFragmentDoesNotClobberKnownQty(t *testing.T) {
	session := billing.NewSession("u1")
	session.Items = append(session.Items, billing.ItemDraft{ItemName: "Rice", Qty: fptr(5)})

	dialogue.Merge(session, billing.Extraction{
		Items: []billing.ItemFragment{{Qty: fptr(9), Price: fptr(40)}},
	})

	item := session.Items[0]
	if *item.Qty != 5 {
		t.Fatalf("known qty clobbered: %g", *item.Qty)
	}
	if item.Price == nil || *item.Price != 40 {
		t.Fatalf("open price slot not filled: %+v", item)
	}
}

func TestMergeDanglingFragmentWithEmptyItems(t *testing.T) {
	session := billing.NewSession("u1")

	dialogue.Merge(session, billing.Extraction{
		Items: []billing.ItemFragment{{Qty: fptr(2)}},
	})

	if len(session.Items) != 0 {
		t.Fatalf("phantom item appended: %+v", session.Items)
	}
}

func TestMergeNamedFragmentAppends(t *testing.T) {
	session := billing.NewSession("u1")
	session.Items = append(session.Items, billing.ItemDraft{ItemName: "Rice", Qty: fptr(5), Price: fptr(40)})

	dialogue.Merge(session, billing.Extraction{
		Items: []billing.ItemFragment{{ItemName: "Sugar", Qty: fptr(2)}},
	})

	if len(session.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(session.Items))
	}
	if session.Items[1].ItemName != "Sugar" {
		t.Fatalf("unexpected second item: %+v", session.Items[1])
	}
}

func TestMergePaymentFieldByField(t *testing.T) {
	session := billing.NewSession("u1")

	dialogue.Merge(session, billing.Extraction{Payment: &billing.PaymentFragment{Amount: fptr(500)}})
	dialogue.Merge(session, billing.Extraction{Payment: &billing.PaymentFragment{Mode: "UPI"}})

	if session.Payment.Amount == nil || *session.Payment.Amount != 500 {
		t.Fatalf("amount lost: %+v", session.Payment)
	}
	if session.Payment.Mode != "UPI" {
		t.Fatalf("mode lost: %+v", session.Payment)
	}
}
