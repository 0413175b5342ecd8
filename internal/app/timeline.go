package app

import (
	"sync"

	"docuchat/internal/model"
)

// Timeline owns the ordered message sequence of one conversation view.
// Messages are append-only; only the trailing assistant message may grow
// while an exchange streams into it.
type Timeline struct {
	mu       sync.Mutex
	messages []model.Message
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

func (t *Timeline) Append(msg model.Message) {
	if msg.Kind == "" {
		msg.Kind = model.KindNormal
	}
	t.mu.Lock()
	t.messages = append(t.messages, msg)
	t.mu.Unlock()
}

// AppendDelta grows the trailing assistant message and reports whether the
// delta was applied. A delta arriving when the last message is missing or
// not assistant-authored is dropped.
func (t *Timeline) AppendDelta(delta string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.messages) == 0 {
		return false
	}
	last := &t.messages[len(t.messages)-1]
	if last.Role != model.RoleAssistant {
		return false
	}
	last.Content += delta
	return true
}

func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

func (t *Timeline) Last() (model.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.messages) == 0 {
		return model.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Messages returns a copy of the sequence.
func (t *Timeline) Messages() []model.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Message, len(t.messages))
	copy(out, t.messages)
	return out
}
