package billing

// Extraction is the structured result of the NLU pass over one utterance.
// The extractor never guesses: absent fields stay zero/nil.
type Extraction struct {
	Intent       Intent           `json:"intent,omitempty"`
	CustomerName string           `json:"customerName,omitempty"`
	Items        []ItemFragment   `json:"items,omitempty"`
	Payment      *PaymentFragment `json:"payment,omitempty"`
}

// Empty reports whether the extraction carries no usable signal.
func (e Extraction) Empty() bool {
	return e.Intent == "" && e.CustomerName == "" && len(e.Items) == 0 && e.Payment == nil
}

// ItemFragment is a possibly partial item mention. A fragment without a name
// is a completion for the last item already on the bill ("2 kilos" after
// being asked for quantity).
type ItemFragment struct {
	ItemName string   `json:"itemName,omitempty"`
	Qty      *float64 `json:"qty,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

// PaymentFragment carries payment details mentioned in the utterance.
type PaymentFragment struct {
	Amount *float64 `json:"amount,omitempty"`
	Mode   string   `json:"mode,omitempty"`
}

// ValidationStatus is the secondary LLM validator's verdict.
type ValidationStatus string

const (
	ValidationComplete   ValidationStatus = "COMPLETE"
	ValidationIncomplete ValidationStatus = "INCOMPLETE"
	ValidationError      ValidationStatus = "ERROR"
)

// ValidationResult flags missing required fields and suggests the follow-up
// question to ask instead of the planner's default prompt.
type ValidationResult struct {
	Status           ValidationStatus `json:"status"`
	MissingFields    []string         `json:"missingFields,omitempty"`
	FollowUpQuestion string           `json:"followUpQuestion,omitempty"`
}
