package dialogue

import (
	"context"
	"log"
	"sync"

	"github.com/dukanx/vaani/internal/model/billing"
)

// Extractor turns one utterance into a structured extraction. It never
// guesses; fields it cannot hear stay empty.
type Extractor interface {
	Extract(ctx context.Context, text string) (billing.Extraction, error)
}

// Validator is the optional secondary completeness check over an extraction.
type Validator interface {
	Validate(ctx context.Context, text string, extraction billing.Extraction) (billing.ValidationResult, error)
}

// Manager orchestrates one dialogue turn: extraction, merge, planning. It
// also enforces the concurrency contract — turns for the same user are
// serialized, turns for different users run in parallel.
type Manager struct {
	store     Store
	planner   *Planner
	extractor Extractor
	validator Validator

	locks sync.Map // userID -> *sync.Mutex
}

// NewManager builds a turn manager. The validator and the planner's price
// lookup may be nil.
func NewManager(store Store, extractor Extractor, validator Validator, prices PriceLookup) *Manager {
	return &Manager{
		store:     store,
		planner:   NewPlanner(store, prices),
		extractor: extractor,
		validator: validator,
	}
}

// Converse handles a raw utterance end to end. On extractor failure the
// session is left untouched and the user gets a conversational error turn,
// so the same utterance can simply be retried.
func (m *Manager) Converse(ctx context.Context, userID, text string) billing.TurnResult {
	unlock := m.lock(userID)
	defer unlock()

	extraction, err := m.extractor.Extract(ctx, text)
	if err != nil {
		log.Printf("[dialogue] extraction failed for user=%s: %v", userID, err)
		return billing.TurnResult{
			Text:   "माफ करा, मला समजलं नाही. पुन्हा सांगाल का? (Sorry, I had trouble understanding. Please say that again.)",
			Action: billing.ActionListen,
		}
	}

	return m.handleTurn(ctx, userID, text, extraction)
}

// HandleTurn runs a turn with an extraction the caller already has, for
// hosts that invoke the NLU layer themselves.
func (m *Manager) HandleTurn(ctx context.Context, userID, text string, extraction billing.Extraction) billing.TurnResult {
	unlock := m.lock(userID)
	defer unlock()
	return m.handleTurn(ctx, userID, text, extraction)
}

func (m *Manager) handleTurn(ctx context.Context, userID, text string, extraction billing.Extraction) billing.TurnResult {
	result := m.planner.NextStep(ctx, userID, text, extraction)

	// The validator only ever sharpens a question; it cannot change the
	// action or block the flow.
	if m.validator != nil && result.Action == billing.ActionListen && !extraction.Empty() {
		verdict, err := m.validator.Validate(ctx, text, extraction)
		if err != nil {
			log.Printf("[dialogue] validator failed for user=%s: %v", userID, err)
		} else if verdict.Status == billing.ValidationIncomplete && verdict.FollowUpQuestion != "" {
			result.Text = verdict.FollowUpQuestion
		}
	}

	return result
}

// ClearSession drops the user's session unconditionally.
func (m *Manager) ClearSession(userID string) {
	m.store.Clear(userID)
}

// lock serializes turns per user identifier. Without this, interleaved
// merges could corrupt the last-item pointer.
func (m *Manager) lock(userID string) func() {
	mu, _ := m.locks.LoadOrStore(userID, &sync.Mutex{})
	mutex := mu.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock
}
