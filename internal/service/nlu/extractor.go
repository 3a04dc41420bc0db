package nlu

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/dukanx/vaani/internal/model/billing"
)

// Extractor converts a raw utterance into a structured billing extraction
// via the configured chat model. The model is instructed never to guess:
// anything not said stays null.
type Extractor struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewExtractor compiles the extraction chain on top of an existing chat model.
func NewExtractor(ctx context.Context, chatModel model.ChatModel) (*Extractor, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(extractorSystemPrompt),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile extraction chain: %w", err)
	}

	return &Extractor{chain: runnable}, nil
}

// Extract runs the NLU pass. A model or parse failure is returned as an
// error so the caller can fail closed without touching session state.
func (e *Extractor) Extract(ctx context.Context, text string) (billing.Extraction, error) {
	msg, err := e.chain.Invoke(ctx, map[string]any{"query": text})
	if err != nil {
		return billing.Extraction{}, fmt.Errorf("extraction model call failed: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return billing.Extraction{}, fmt.Errorf("extraction model returned empty content")
	}

	extraction, err := ParseExtraction(msg.Content)
	if err != nil {
		return billing.Extraction{}, fmt.Errorf("extraction output parse failed: %w", err)
	}
	return extraction, nil
}

const extractorSystemPrompt = `You are an NLP engine for a business billing application.
Analyze user speech or text (Marathi, Hindi, English or Hinglish) and convert
it into a STRICT, CLEAN JSON object.

SUPPORTED INTENTS: SALE, PAYMENT, SALE_RETURN, ESTIMATE, SALE_ORDER, DELIVERY_CHALLAN

RULES:
1. Detect the main intent (only ONE intent). If no intent is stated, use null.
2. Extract customer name if mentioned, else null.
3. Extract items: itemName, qty (number), price (per unit). Keep missing fields null.
4. Extract payment details if mentioned: amount, mode (CASH | UPI | BANK | CARD). Else payment is null.
5. Do NOT guess values. Do NOT add explanation text. Output ONLY valid JSON.

OUTPUT FORMAT:
{"intent": "SALE" | null, "customerName": "Name" | null, "items": [{"itemName": "Rice", "qty": 5, "price": 40}], "payment": {"amount": 500, "mode": "CASH"} | null}`
