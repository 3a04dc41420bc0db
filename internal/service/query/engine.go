package query

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/bytedance/sonic"
)

// Result is the spoken-friendly answer to a business question.
type Result struct {
	Success bool             `json:"success"`
	Text    string           `json:"text"`
	Rows    []map[string]any `json:"rows,omitempty"`
	SQL     string           `json:"sql,omitempty"`
}

// Engine translates natural-language business questions into SQL, executes
// them against the shop database, and formats the results for voice output.
type Engine struct {
	chain compose.Runnable[map[string]any, *schema.Message]
	db    *sql.DB
}

// NewEngine compiles the text-to-SQL chain. The database handle may be nil,
// in which case only the error path is reachable and callers get a polite
// refusal.
func NewEngine(ctx context.Context, chatModel model.ChatModel, db *sql.DB) (*Engine, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(sqlSystemPrompt),
		schema.UserMessage("{question}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sql chain: %w", err)
	}

	return &Engine{chain: runnable, db: db}, nil
}

type sqlPayload struct {
	SQL         *string `json:"sql"`
	Explanation string  `json:"explanation"`
}

// RunQuery answers one question for one shop. Failures come back as an
// unsuccessful Result with a conversational message, never as a raw error
// surfaced to the user.
func (e *Engine) RunQuery(ctx context.Context, userID, question string) Result {
	if e.db == nil {
		return Result{Text: "Business data is not connected right now."}
	}

	generated, err := e.generateSQL(ctx, userID, question)
	if err != nil {
		log.Printf("[query] sql generation failed: %v", err)
		return Result{Text: "I couldn't understand that question for the database."}
	}
	if generated.SQL == nil || strings.TrimSpace(*generated.SQL) == "" {
		text := generated.Explanation
		if text == "" {
			text = "I couldn't understand that question for the database."
		}
		return Result{Text: text}
	}

	statement := strings.TrimSpace(*generated.SQL)
	if !strings.HasPrefix(strings.ToUpper(statement), "SELECT") {
		log.Printf("[query] refused non-select statement: %s", statement)
		return Result{Text: "I can only look things up, not change them."}
	}

	rows, err := e.execute(ctx, statement)
	if err != nil {
		log.Printf("[query] execution failed: %v", err)
		return Result{Text: "Sorry, that query failed.", SQL: statement}
	}

	return Result{
		Success: true,
		Text:    FormatRows(rows, generated.Explanation),
		Rows:    rows,
		SQL:     statement,
	}
}

func (e *Engine) generateSQL(ctx context.Context, userID, question string) (*sqlPayload, error) {
	msg, err := e.chain.Invoke(ctx, map[string]any{
		"question": fmt.Sprintf("user_id=%s\n%s", userID, question),
	})
	if err != nil {
		return nil, fmt.Errorf("sql model call failed: %w", err)
	}

	trimmed := strings.TrimSpace(msg.Content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("missing json object in sql output")
	}

	payload := &sqlPayload{}
	if err := sonic.UnmarshalString(trimmed[start:end+1], payload); err != nil {
		return nil, fmt.Errorf("invalid sql json: %w", err)
	}
	return payload, nil
}

// execute runs the statement and flattens rows into maps keyed by column.
func (e *Engine) execute(ctx context.Context, statement string) ([]map[string]any, error) {
	return e.queryRows(ctx, statement)
}

const sqlSystemPrompt = `You are a SQL expert for a shop management app.
Convert natural language questions (Marathi, Hindi, English or Hinglish) to PostgreSQL queries.

DATABASE SCHEMA:
bills(id, user_id, invoice_number, customer_id, customer_name, bill_date timestamptz, subtotal, tax_amount, discount_amount, grand_total, paid_amount, status, payment_mode, deleted_at)
customers(id, user_id, name, phone, total_billed, total_paid, total_dues, is_active, deleted_at)
products(id, user_id, name, sku, category, unit, selling_price, cost_price, stock_quantity, low_stock_threshold, is_active, deleted_at)

RULES:
1. Output ONLY valid JSON: {"sql": "...", "explanation": "..."}
2. The first line of the user message carries user_id; ALWAYS filter user_id = that value AND deleted_at IS NULL.
3. Only SELECT statements. Limit to 20 rows max.
4. Return null sql if the question is unanswerable from this schema.`
