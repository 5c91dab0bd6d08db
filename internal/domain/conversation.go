package domain

import "time"

// Message is one entry in a conversation timeline (user or agent).
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
}

// Field is one of the qualification slots the agent collects.
type Field string

const (
	FieldAge      Field = "age"
	FieldLocation Field = "location"
	FieldIncome   Field = "income"
)

// FieldOrder is the fixed priority in which missing slots are asked about.
var FieldOrder = []Field{FieldAge, FieldLocation, FieldIncome}

// UserInfo holds the qualification slots. A nil pointer means "not yet
// collected". Once a slot is set it is never overwritten (first-write-wins).
type UserInfo struct {
	Age      *int    `json:"age"`
	Location *string `json:"location"`
	Income   *int    `json:"income"`
}

// Set writes a slot only if it is currently unset. Returns true if written.
func (u *UserInfo) Set(f Field, v any) bool {
	switch f {
	case FieldAge:
		if u.Age != nil {
			return false
		}
		if n, ok := v.(int); ok {
			u.Age = &n
			return true
		}
	case FieldLocation:
		if u.Location != nil {
			return false
		}
		if s, ok := v.(string); ok {
			u.Location = &s
			return true
		}
	case FieldIncome:
		if u.Income != nil {
			return false
		}
		if n, ok := v.(int); ok {
			u.Income = &n
			return true
		}
	}
	return false
}

// NextMissing returns the first unset slot in FieldOrder, or "" if none.
func (u *UserInfo) NextMissing() Field {
	if u.Age == nil {
		return FieldAge
	}
	if u.Location == nil {
		return FieldLocation
	}
	if u.Income == nil {
		return FieldIncome
	}
	return ""
}

// Complete reports whether every slot has been collected.
func (u *UserInfo) Complete() bool {
	return u.NextMissing() == ""
}

// Conversation is the full per-thread dialog state. It is the unit of
// persistence: a ConversationStore round-trips exactly this record.
type Conversation struct {
	ThreadID    ThreadID    `json:"thread_id"`
	Messages    []Message   `json:"messages"`
	UserInfo    UserInfo    `json:"user_info"`
	DialogState DialogState `json:"dialog_state"`
	CreatedAt   Timestamp   `json:"created_at"`
	UpdatedAt   Timestamp   `json:"updated_at"`
}

// NewConversation creates an empty conversation in the pre-routing state.
func NewConversation(id ThreadID, now time.Time) *Conversation {
	return &Conversation{
		ThreadID:    id,
		DialogState: StateUnknown,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Append adds one message to the timeline. Messages are append-only.
func (c *Conversation) Append(role Role, content string, now time.Time) {
	c.Messages = append(c.Messages, Message{Role: role, Content: content, CreatedAt: now})
	c.UpdatedAt = now
}

// LastMessage returns the most recent message, or nil for an empty timeline.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// Finished reports whether the conversation reached its terminal state.
func (c *Conversation) Finished() bool {
	return c.DialogState == StateFinished
}

// Clone returns a deep copy. Stores hand out clones so that a turn that
// fails before commit cannot leak mutations into persisted state.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	copy(cp.Messages, c.Messages)
	if c.UserInfo.Age != nil {
		v := *c.UserInfo.Age
		cp.UserInfo.Age = &v
	}
	if c.UserInfo.Location != nil {
		v := *c.UserInfo.Location
		cp.UserInfo.Location = &v
	}
	if c.UserInfo.Income != nil {
		v := *c.UserInfo.Income
		cp.UserInfo.Income = &v
	}
	return &cp
}
