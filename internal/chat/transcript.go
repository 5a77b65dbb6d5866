package chat

import "krishisahay/internal/compose"

// Role tags a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one message in a conversation.
type Entry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is the append-only history of one session. Every completed
// turn adds exactly one user entry followed by one assistant entry.
type Transcript struct {
	entries []Entry
}

// AppendTurn records a finished turn.
func (t *Transcript) AppendTurn(question, answer string) {
	t.entries = append(t.entries,
		Entry{Role: RoleUser, Content: question},
		Entry{Role: RoleAssistant, Content: answer},
	)
}

// Entries returns a copy of the history.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len reports the number of entries.
func (t *Transcript) Len() int { return len(t.entries) }

// UserContents returns the farmer's messages in conversation order.
func (t *Transcript) UserContents() []string {
	var out []string
	for _, e := range t.entries {
		if e.Role == RoleUser {
			out = append(out, e.Content)
		}
	}
	return out
}

// Messages projects the history into the prompt builder's shape.
func (t *Transcript) Messages() []compose.Message {
	out := make([]compose.Message, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, compose.Message{
			FromFarmer: e.Role == RoleUser,
			Content:    e.Content,
		})
	}
	return out
}
