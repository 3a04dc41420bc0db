package nlu

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/dukanx/vaani/internal/model/billing"
)

// Validator is the optional second LLM pass that checks an extraction for
// completeness and proposes the follow-up question to ask.
type Validator struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewValidator compiles the validation chain on top of an existing chat model.
func NewValidator(ctx context.Context, chatModel model.ChatModel) (*Validator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(validatorSystemPrompt),
		schema.UserMessage("{context}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile validation chain: %w", err)
	}

	return &Validator{chain: runnable}, nil
}

// Validate checks the extracted data against the required fields for its
// intent. Errors are returned to the caller, who treats the pass as advisory.
func (v *Validator) Validate(ctx context.Context, text string, extraction billing.Extraction) (billing.ValidationResult, error) {
	contextJSON, err := sonic.MarshalString(map[string]any{
		"user_input":     text,
		"extracted_data": extraction,
	})
	if err != nil {
		return billing.ValidationResult{}, fmt.Errorf("failed to encode validation context: %w", err)
	}

	msg, err := v.chain.Invoke(ctx, map[string]any{"context": contextJSON})
	if err != nil {
		return billing.ValidationResult{}, fmt.Errorf("validation model call failed: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return billing.ValidationResult{}, fmt.Errorf("validation model returned empty content")
	}

	return ParseValidation(msg.Content)
}

const validatorSystemPrompt = `You are an NLP validation engine for a voice-based billing system.
Analyze the extracted intent JSON and decide whether the data is COMPLETE or INCOMPLETE.

RULES:
1. NEVER guess missing values.
2. If fields are missing, status = "INCOMPLETE" and ask ONE short follow-up question.
3. If complete, status = "COMPLETE".
4. Output strict JSON only.

REQUIRED FIELDS:
SALE: customerName, items (at least 1 with name, qty, price)
PAYMENT: customerName, amount (mode may default to CASH)
SALE_RETURN: customerName, items
ESTIMATE: customerName, items

OUTPUT FORMAT:
{"status": "COMPLETE" | "INCOMPLETE", "missingFields": ["price"], "followUpQuestion": "What is the price of Rice?"}`
