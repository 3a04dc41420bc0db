package dialogue_test

import (
	"testing"
	"time"

	"github.com/dukanx/vaani/internal/model/billing"
	"github.com/dukanx/vaani/internal/service/dialogue"
)

func TestStoreGetCreatesFreshSession(t *testing.T) {
	store := dialogue.NewMemoryStore(0)

	session := store.Get("shop-1")
	if session.Active {
		t.Fatal("fresh session should be inactive")
	}
	if session.Intent != "" || session.CustomerName != "" || len(session.Items) != 0 {
		t.Fatalf("fresh session not empty: %+v", session)
	}
}

func TestStoreGetReturnsSameLiveSession(t *testing.T) {
	store := dialogue.NewMemoryStore(time.Minute)

	first := store.Get("shop-1")
	first.CustomerName = "Ramesh"

	second := store.Get("shop-1")
	if second.CustomerName != "Ramesh" {
		t.Fatalf("expected live session, got %+v", second)
	}
}

func TestStoreTimeoutEviction(t *testing.T) {
	store := dialogue.NewMemoryStore(60 * time.Second)

	session := store.Get("shop-1")
	session.Active = true
	session.Intent = billing.IntentSale
	session.Items = append(session.Items, billing.ItemDraft{ItemName: "Rice"})
	session.LastActiveAt = time.Now().UTC().Add(-61 * time.Second)

	fresh := store.Get("shop-1")
	if fresh.Active {
		t.Fatal("expired session should be replaced by an inactive one")
	}
	if len(fresh.Items) != 0 || fresh.Intent != "" {
		t.Fatalf("expired session leaked state: %+v", fresh)
	}
}

func TestStoreUpdateMergePreserve(t *testing.T) {
	store := dialogue.NewMemoryStore(time.Minute)

	session := store.Get("shop-1")
	session.CustomerName = "Ramesh"
	before := session.LastActiveAt

	store.Update("shop-1", dialogue.Partial{Intent: billing.IntentSale})

	got := store.Get("shop-1")
	if got.CustomerName != "Ramesh" {
		t.Fatalf("zero field erased customer: %q", got.CustomerName)
	}
	if got.Intent != billing.IntentSale {
		t.Fatalf("non-zero field not applied: %q", got.Intent)
	}
	if got.LastActiveAt.Before(before) {
		t.Fatal("update should refresh lastActiveAt")
	}
}

func TestStoreClearIsIdempotent(t *testing.T) {
	store := dialogue.NewMemoryStore(time.Minute)

	store.Get("shop-1").Active = true
	store.Clear("shop-1")
	store.Clear("shop-1") // no-op on absent session

	if store.Get("shop-1").Active {
		t.Fatal("session survived clear")
	}
}
