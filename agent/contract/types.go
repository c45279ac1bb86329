package contract

import "time"

// Identity is the authenticated advisor id supplied by the auth layer.
type Identity int64

type ModelTier string

const (
	ModelTierStandard ModelTier = "standard"
	ModelTierAdvanced ModelTier = "advanced"
)

// ChatRequest is the inbound message from the API boundary. The caller
// identity is never part of the payload; it arrives through the auth layer.
type ChatRequest struct {
	Message        string    `json:"message"`
	ConversationID int64     `json:"conversation_id,omitempty"`
	ModelTier      ModelTier `json:"model_tier,omitempty"`
}

type SideEffectKind string

const (
	SideEffectMeeting   SideEffectKind = "meeting"
	SideEffectEmail     SideEffectKind = "email"
	SideEffectPortfolio SideEffectKind = "portfolio"
)

// SideEffect is a structured hint telling the client to present an
// interactive artifact (confirmation dialog) alongside the reply.
type SideEffect struct {
	Kind    SideEffectKind `json:"kind"`
	Payload any            `json:"payload"`
}

// ToolOutcome is the normalized result of one tool invocation. Exactly one
// outcome exists per tool call requested by the model, failures included.
type ToolOutcome struct {
	Tool       string      `json:"tool"`
	CallID     string      `json:"call_id"`
	Success    bool        `json:"success"`
	Payload    any         `json:"payload,omitempty"`
	Error      string      `json:"error,omitempty"`
	SideEffect *SideEffect `json:"-"`
}

// SideEffects holds at most one directive per kind; when a tool runs twice
// in one request the last invocation wins.
type SideEffects struct {
	Meeting   any `json:"meeting,omitempty"`
	Email     any `json:"email,omitempty"`
	Portfolio any `json:"portfolio,omitempty"`
}

type ChatResponse struct {
	Success        bool          `json:"success"`
	Response       string        `json:"response"`
	ConversationID int64         `json:"conversation_id"`
	Model          string        `json:"model"`
	SideEffects    SideEffects   `json:"side_effects"`
	ToolOutcomes   []ToolOutcome `json:"tool_outcomes,omitempty"`
}

type ClientRecord struct {
	ID        int64    `json:"id"`
	AdvisorID Identity `json:"advisor_id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Segment   string   `json:"segment,omitempty"`
}

type Meeting struct {
	ID        int64     `json:"id"`
	AdvisorID Identity  `json:"advisor_id"`
	ClientID  int64     `json:"client_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Location  string    `json:"location,omitempty"`
}

// MeetingDraft is the payload behind the meeting confirmation dialog.
type MeetingDraft struct {
	ClientID   int64     `json:"client_id,omitempty"`
	ClientName string    `json:"client_name,omitempty"`
	Title      string    `json:"title"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Location   string    `json:"location,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// EmailDraft is the payload behind the email composition dialog.
type EmailDraft struct {
	ClientID int64  `json:"client_id"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

type Allocation struct {
	AssetClass string  `json:"asset_class"`
	Weight     float64 `json:"weight"`
	Amount     float64 `json:"amount"`
}

type Portfolio struct {
	RiskProfile string       `json:"risk_profile"`
	Amount      float64      `json:"amount"`
	Allocations []Allocation `json:"allocations"`
}

type NewsItem struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}
