package nlu_test

import (
	"testing"

	"github.com/dukanx/vaani/internal/model/billing"
	"github.com/dukanx/vaani/internal/service/nlu"
)

func TestParseExtractionFullPayload(t *testing.T) {
	content := `{"intent":"SALE","customerName":"Ramesh","items":[{"itemName":"Rice","qty":5,"price":40}],"payment":{"amount":500,"mode":"cash"}}`

	extraction, err := nlu.ParseExtraction(content)
	if err != nil {
		t.Fatalf("ParseExtraction err: %v", err)
	}

	if extraction.Intent != billing.IntentSale {
		t.Fatalf("unexpected intent: %s", extraction.Intent)
	}
	if extraction.CustomerName != "Ramesh" {
		t.Fatalf("unexpected customer: %s", extraction.CustomerName)
	}
	if len(extraction.Items) != 1 || extraction.Items[0].ItemName != "Rice" {
		t.Fatalf("unexpected items: %+v", extraction.Items)
	}
	if *extraction.Items[0].Qty != 5 || *extraction.Items[0].Price != 40 {
		t.Fatalf("unexpected item numbers: %+v", extraction.Items[0])
	}
	if extraction.Payment == nil || *extraction.Payment.Amount != 500 || extraction.Payment.Mode != "CASH" {
		t.Fatalf("unexpected payment: %+v", extraction.Payment)
	}
}

func TestParseExtractionNullsStayEmpty(t *testing.T) {
	content := `{"intent":null,"customerName":null,"items":[],"payment":null}`

	extraction, err := nlu.ParseExtraction(content)
	if err != nil {
		t.Fatalf("ParseExtraction err: %v", err)
	}
	if !extraction.Empty() {
		t.Fatalf("expected empty extraction, got %+v", extraction)
	}
}

func TestParseExtractionUnknownIntentDropped(t *testing.T) {
	content := `{"intent":"UNKNOWN","customerName":null,"items":[],"payment":null}`

	extraction, err := nlu.ParseExtraction(content)
	if err != nil {
		t.Fatalf("ParseExtraction err: %v", err)
	}
	if extraction.Intent != "" {
		t.Fatalf("unknown intent should be dropped, got %s", extraction.Intent)
	}
}

func TestParseExtractionStripsMarkdownFence(t *testing.T) {
	content := "```json\n{\"intent\":\"PAYMENT\",\"customerName\":\"Suresh\",\"items\":[],\"payment\":{\"amount\":200,\"mode\":null}}\n```"

	extraction, err := nlu.ParseExtraction(content)
	if err != nil {
		t.Fatalf("ParseExtraction err: %v", err)
	}
	if extraction.Intent != billing.IntentPayment || extraction.CustomerName != "Suresh" {
		t.Fatalf("unexpected extraction: %+v", extraction)
	}
	if extraction.Payment == nil || *extraction.Payment.Amount != 200 || extraction.Payment.Mode != "" {
		t.Fatalf("unexpected payment: %+v", extraction.Payment)
	}
}

func TestParseExtractionQtyOnlyFragmentKept(t *testing.T) {
	content := `{"intent":null,"customerName":null,"items":[{"itemName":null,"qty":2,"price":null}],"payment":null}`

	extraction, err := nlu.ParseExtraction(content)
	if err != nil {
		t.Fatalf("ParseExtraction err: %v", err)
	}
	if len(extraction.Items) != 1 {
		t.Fatalf("completion fragment dropped: %+v", extraction.Items)
	}
	if extraction.Items[0].ItemName != "" || *extraction.Items[0].Qty != 2 {
		t.Fatalf("unexpected fragment: %+v", extraction.Items[0])
	}
}

func TestParseExtractionNoJSON(t *testing.T) {
	if _, err := nlu.ParseExtraction("I could not understand that."); err == nil {
		t.Fatal("expected error for missing json object")
	}
}

func TestParseValidationStatusNormalized(t *testing.T) {
	result, err := nlu.ParseValidation(`{"status":"incomplete","missingFields":["price"],"followUpQuestion":" What is the price of Rice? "}`)
	if err != nil {
		t.Fatalf("ParseValidation err: %v", err)
	}
	if result.Status != billing.ValidationIncomplete {
		t.Fatalf("unexpected status: %s", result.Status)
	}
	if result.FollowUpQuestion != "What is the price of Rice?" {
		t.Fatalf("question not trimmed: %q", result.FollowUpQuestion)
	}
}

func TestParseValidationUnknownStatusIsError(t *testing.T) {
	result, err := nlu.ParseValidation(`{"status":"MAYBE"}`)
	if err != nil {
		t.Fatalf("ParseValidation err: %v", err)
	}
	if result.Status != billing.ValidationError {
		t.Fatalf("unexpected status: %s", result.Status)
	}
}
