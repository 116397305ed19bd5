package audit

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies events for retention and routing.
type Category string

const (
	// CategoryCompliance covers lookups of a third party's identity.
	CategoryCompliance Category = "compliance"
	// CategoryOperations covers cache and connection housekeeping.
	CategoryOperations Category = "operations"
)

// Action names what happened.
type Action string

const (
	ActionValidate Action = "bgc_validate"
	ActionTrace    Action = "bgc_trace"
)

// Event is emitted from domain logic to capture key actions. It never holds a
// raw identifier; SubjectHash is a keyed hash of the SSN being checked.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Category    Category  `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
	Action      Action    `json:"action"`
	SubjectHash string    `json:"subject_hash"`
	Product     string    `json:"product,omitempty"`
	Connection  string    `json:"connection,omitempty"`
	Outcome     string    `json:"outcome"` // ok, api_error, product_error, malformed, failed
	Reason      string    `json:"reason,omitempty"`
	Cached      bool      `json:"cached"`
	RequestID   string    `json:"request_id,omitempty"`
	ClientIP    string    `json:"client_ip,omitempty"`
}
