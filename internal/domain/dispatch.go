package domain

// Recipient is one address in a dispatch batch. Ephemeral: it exists only for
// the duration of a single dispatch call.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TrackingLink is an opaque per-recipient URL embedded in dispatched email
// bodies. Generation is external; the pipeline only injects it.
type TrackingLink string

// LinkMasking decouples a link's visible text from its target URL. When
// enabled, the rendered anchor text is DisplayText while the href remains the
// tracking URL; when disabled the literal URL is both.
type LinkMasking struct {
	Enabled     bool   `json:"enabled"`
	DisplayText string `json:"displayText"`
}

// AttemptOutcome enumerates the terminal states of one recipient's send.
type AttemptOutcome string

const (
	OutcomeSent    AttemptOutcome = "sent"
	OutcomeFailed  AttemptOutcome = "failed"
	OutcomeInvalid AttemptOutcome = "invalid"
)

// DispatchAttempt is the transient record of one recipient's send. It is
// never persisted; it exists only to build the aggregate DispatchReport.
type DispatchAttempt struct {
	Recipient Recipient
	Outcome   AttemptOutcome
	Error     string
}

// DispatchReport is the single aggregate result of one bulk-send call.
// Errors holds "<address>: <reason>" entries in recipient order and is empty
// when every send succeeded. Sent + Failed always equals Total.
type DispatchReport struct {
	Status string   `json:"status"`
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Total  int      `json:"total"`
	Errors []string `json:"errors,omitempty"`
}
