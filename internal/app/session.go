package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"docuchat/internal/api"
	"docuchat/internal/cache"
	"docuchat/internal/model"
	"docuchat/internal/pkg/eventstream"
)

const cancelledMessage = "Request was cancelled."

var (
	ErrEmptyMessage = errors.New("message content is empty")
	ErrNoDocuments  = errors.New("no document selected")
)

type ExchangeState int

const (
	StateIdle ExchangeState = iota
	StateSending
	StateStreaming
	StateCompleted
	StateFailed
	StateCancelled
)

func (s ExchangeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s ExchangeState) live() bool {
	return s == StateSending || s == StateStreaming
}

// ExchangeClient is the transport surface a session drives.
type ExchangeClient interface {
	OpenExchange(ctx context.Context, req api.ExchangeRequest) (io.ReadCloser, error)
	ListConversations(ctx context.Context) ([]model.Conversation, error)
}

// exchangeHandle ties one outstanding exchange to its cancellation. Cancel
// is idempotent; once cancelled no further network reads are issued and
// frames already buffered are discarded unprocessed.
type exchangeHandle struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

func (h *exchangeHandle) Cancel() {
	h.once.Do(h.cancel)
}

func (h *exchangeHandle) Cancelled() bool {
	return h.ctx.Err() != nil
}

type SendInput struct {
	Message        string
	DocumentIDs    []string
	ConversationID string
}

// ChatSession runs streamed exchanges against one conversation view. Send
// blocks until the exchange reaches a terminal state; at most one exchange
// is live at a time, and submitting while one is streaming cancels it first.
type ChatSession struct {
	client    ExchangeClient
	timeline  *Timeline
	convCache *cache.ConversationCache
	logger    *zap.Logger

	onDelta         func(delta string)
	onConversations func(conversations []model.Conversation)

	mu        sync.Mutex
	state     ExchangeState
	handle    *exchangeHandle
	lastError string
}

func NewChatSession(client ExchangeClient, timeline *Timeline, convCache *cache.ConversationCache, logger *zap.Logger) *ChatSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatSession{
		client:    client,
		timeline:  timeline,
		convCache: convCache,
		logger:    logger,
		state:     StateIdle,
	}
}

// OnDelta registers a callback invoked for every applied chunk delta.
func (s *ChatSession) OnDelta(fn func(delta string)) {
	s.onDelta = fn
}

// OnConversations registers a callback invoked with the refreshed
// conversation list after a completed exchange.
func (s *ChatSession) OnConversations(fn func(conversations []model.Conversation)) {
	s.onConversations = fn
}

func (s *ChatSession) State() ExchangeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError holds the failure text of the most recent exchange for transient
// display. It is cleared when the next message is submitted.
func (s *ChatSession) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Cancel aborts the in-flight exchange, if any. Safe to call repeatedly.
func (s *ChatSession) Cancel() {
	s.mu.Lock()
	h := s.handle
	s.mu.Unlock()
	if h != nil {
		h.Cancel()
	}
}

// Send runs one exchange to a terminal state. An empty message or an empty
// document selection means the operation is not issued at all: no state
// change, no network call. Cancellation is not an error.
func (s *ChatSession) Send(ctx context.Context, input SendInput) error {
	content := strings.TrimSpace(input.Message)
	if content == "" {
		return ErrEmptyMessage
	}
	if len(input.DocumentIDs) == 0 {
		return ErrNoDocuments
	}

	exCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	handle := &exchangeHandle{ctx: exCtx, cancel: cancel, done: make(chan struct{})}
	defer close(handle.done)

	// At most one live exchange per conversation view: a prior in-flight
	// exchange is cancelled and drained before this one begins.
	s.mu.Lock()
	prev := s.handle
	prevLive := s.state.live()
	s.mu.Unlock()
	if prev != nil && prevLive {
		prev.Cancel()
		<-prev.done
	}

	s.mu.Lock()
	s.handle = handle
	s.state = StateSending
	s.lastError = ""
	s.mu.Unlock()

	s.timeline.Append(model.Message{Role: model.RoleUser, Content: content})

	body, err := s.client.OpenExchange(exCtx, api.ExchangeRequest{
		Message:        content,
		DocumentIDs:    input.DocumentIDs,
		ConversationID: input.ConversationID,
		Stream:         true,
	})
	if err != nil {
		if handle.Cancelled() {
			return s.finishCancelled(handle)
		}
		return s.finishFailed(handle, err)
	}
	defer body.Close()

	s.setState(handle, StateStreaming)
	s.timeline.Append(model.Message{Role: model.RoleAssistant})

	parser := eventstream.NewParser(body)
	parser.OnDecodeError(func(line string, err error) {
		s.logger.Warn("dropping malformed frame", zap.String("line", line), zap.Error(err))
	})

	for {
		if handle.Cancelled() {
			return s.finishCancelled(handle)
		}
		ev, err := parser.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if handle.Cancelled() {
				return s.finishCancelled(handle)
			}
			return s.finishFailed(handle, err)
		}
		if ev.Type != eventstream.EventChunk || ev.Text == "" {
			continue
		}
		if s.timeline.AppendDelta(ev.Text) {
			if s.onDelta != nil {
				s.onDelta(ev.Text)
			}
		} else {
			s.logger.Warn("delta arrived without a streaming assistant message, dropped")
		}
	}

	if handle.Cancelled() {
		return s.finishCancelled(handle)
	}
	s.setState(handle, StateCompleted)
	s.refreshConversations(ctx)
	return nil
}

func (s *ChatSession) setState(handle *exchangeHandle, state ExchangeState) {
	s.mu.Lock()
	if s.handle == handle {
		s.state = state
	}
	s.mu.Unlock()
}

func (s *ChatSession) finishCancelled(handle *exchangeHandle) error {
	s.setState(handle, StateCancelled)
	s.timeline.Append(model.Message{Role: model.RoleAssistant, Content: cancelledMessage})
	return nil
}

func (s *ChatSession) finishFailed(handle *exchangeHandle, err error) error {
	msg := err.Error()
	s.mu.Lock()
	if s.handle == handle {
		s.state = StateFailed
		s.lastError = msg
	}
	s.mu.Unlock()
	s.timeline.Append(model.Message{Role: model.RoleAssistant, Content: msg})
	return err
}

func (s *ChatSession) refreshConversations(ctx context.Context) {
	conversations, err := s.client.ListConversations(ctx)
	if err != nil {
		s.logger.Warn("refresh conversations failed", zap.Error(err))
		return
	}
	if s.convCache != nil {
		s.convCache.Set(conversations)
	}
	if s.onConversations != nil {
		s.onConversations(conversations)
	}
}
