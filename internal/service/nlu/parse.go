package nlu

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/dukanx/vaani/internal/model/billing"
)

// extractionPayload mirrors the JSON the model is told to emit. All fields
// are optional; the model sends explicit nulls for anything unheard.
type extractionPayload struct {
	Intent       *string         `json:"intent"`
	CustomerName *string         `json:"customerName"`
	Items        []itemPayload   `json:"items"`
	Payment      *paymentPayload `json:"payment"`
}

type itemPayload struct {
	ItemName *string  `json:"itemName"`
	Qty      *float64 `json:"qty"`
	Price    *float64 `json:"price"`
}

type paymentPayload struct {
	Amount *float64 `json:"amount"`
	Mode   *string  `json:"mode"`
}

// ParseExtraction pulls the JSON object out of the model reply and maps it
// onto the billing extraction, discarding anything the model was not asked
// for. Unknown intents are dropped rather than propagated.
func ParseExtraction(content string) (billing.Extraction, error) {
	raw, err := sliceJSONObject(content)
	if err != nil {
		return billing.Extraction{}, err
	}

	payload := extractionPayload{}
	if err := sonic.UnmarshalString(raw, &payload); err != nil {
		return billing.Extraction{}, fmt.Errorf("invalid extraction json: %w", err)
	}

	extraction := billing.Extraction{}

	if payload.Intent != nil {
		intent := billing.Intent(strings.ToUpper(strings.TrimSpace(*payload.Intent)))
		if billing.KnownIntent(intent) {
			extraction.Intent = intent
		}
	}
	if payload.CustomerName != nil {
		extraction.CustomerName = strings.TrimSpace(*payload.CustomerName)
	}

	for _, item := range payload.Items {
		fragment := billing.ItemFragment{Qty: item.Qty, Price: item.Price}
		if item.ItemName != nil {
			fragment.ItemName = strings.TrimSpace(*item.ItemName)
		}
		if fragment.ItemName == "" && fragment.Qty == nil && fragment.Price == nil {
			continue
		}
		extraction.Items = append(extraction.Items, fragment)
	}

	if payload.Payment != nil && (payload.Payment.Amount != nil || payload.Payment.Mode != nil) {
		fragment := &billing.PaymentFragment{Amount: payload.Payment.Amount}
		if payload.Payment.Mode != nil {
			fragment.Mode = strings.ToUpper(strings.TrimSpace(*payload.Payment.Mode))
		}
		extraction.Payment = fragment
	}

	return extraction, nil
}

// ParseValidation maps the validator model's reply onto a validation result.
func ParseValidation(content string) (billing.ValidationResult, error) {
	raw, err := sliceJSONObject(content)
	if err != nil {
		return billing.ValidationResult{}, err
	}

	result := billing.ValidationResult{}
	if err := sonic.UnmarshalString(raw, &result); err != nil {
		return billing.ValidationResult{}, fmt.Errorf("invalid validation json: %w", err)
	}

	switch billing.ValidationStatus(strings.ToUpper(strings.TrimSpace(string(result.Status)))) {
	case billing.ValidationComplete:
		result.Status = billing.ValidationComplete
	case billing.ValidationIncomplete:
		result.Status = billing.ValidationIncomplete
	default:
		result.Status = billing.ValidationError
	}
	result.FollowUpQuestion = strings.TrimSpace(result.FollowUpQuestion)

	return result, nil
}

// sliceJSONObject trims any prose around the first top-level JSON object.
// Models occasionally wrap the payload in markdown fences or commentary.
func sliceJSONObject(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("missing json object in model output")
	}
	return trimmed[start : end+1], nil
}
