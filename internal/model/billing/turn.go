package billing

// Action tells the caller what to do with the turn result.
type Action string

const (
	// ActionListen means the assistant asked a question and expects another utterance.
	ActionListen Action = "listen"
	// ActionConfirm means the bill is complete; Payload holds the session to persist.
	ActionConfirm Action = "confirm"
	// ActionCancel means the user aborted; the session is already cleared.
	ActionCancel Action = "cancel"
)

// TurnResult is the single system utterance produced for one inbound turn.
type TurnResult struct {
	Text    string   `json:"text"`
	Action  Action   `json:"action"`
	Payload *Session `json:"payload,omitempty"`
}
