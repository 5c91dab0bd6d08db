package domain

import "time"

type ThreadID string

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// DialogState tracks where a conversation sits in the qualification flow.
type DialogState string

const (
	StateUnknown    DialogState = "unknown"         // pre-routing
	StateSupport    DialogState = "support"         // answering policy questions
	StateCollecting DialogState = "collecting_info" // mid slot-filling
	StateCompleted  DialogState = "completed"       // all slots filled, quote pending
	StateFinished   DialogState = "finished"        // terminal, quote delivered
)

type Timestamp = time.Time
