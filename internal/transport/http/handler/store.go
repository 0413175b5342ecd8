package handler

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"docuchat/internal/model"
)

// Store is the in-memory state behind the stub service. Ingestion is
// simulated: a document's progress advances by a fixed step each time its
// status is polled, and a title containing "fail" fails mid-processing so
// the failure path can be exercised.
type Store struct {
	progressStep int

	mu            sync.Mutex
	documents     map[string]*documentState
	conversations map[string]*model.Conversation
}

type documentState struct {
	doc      model.Document
	status   model.ProcessingStatus
	progress int
}

func NewStore(progressStep int) *Store {
	if progressStep <= 0 {
		progressStep = 25
	}
	return &Store{
		progressStep:  progressStep,
		documents:     make(map[string]*documentState),
		conversations: make(map[string]*model.Conversation),
	}
}

func (s *Store) AddDocument(title, contentType string) model.Document {
	doc := model.Document{
		ID:          uuid.NewString(),
		Title:       title,
		ContentType: contentType,
		CreatedAt:   time.Now(),
	}
	s.mu.Lock()
	s.documents[doc.ID] = &documentState{doc: doc, status: model.StatusPending}
	s.mu.Unlock()
	return doc
}

// StepStatus returns the current processing snapshot for a document and
// advances the simulation by one step.
func (s *Store) StepStatus(documentID string) (title string, status model.ProcessingStatus, progress int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.documents[documentID]
	if !ok {
		return "", "", 0, false
	}
	if st.status.Terminal() {
		return st.doc.Title, st.status, st.progress, true
	}

	st.status = model.StatusProcessing
	st.progress += s.progressStep
	switch {
	case strings.Contains(strings.ToLower(st.doc.Title), "fail") && st.progress >= 50:
		st.status = model.StatusFailed
	case st.progress >= 100:
		st.progress = 100
		st.status = model.StatusCompleted
		st.doc.IsProcessed = true
	}
	return st.doc.Title, st.status, st.progress, true
}

func (s *Store) Documents() []model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]model.Document, 0, len(s.documents))
	for _, st := range s.documents {
		docs = append(docs, st.doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs
}

func (s *Store) DeleteDocument(documentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[documentID]; !ok {
		return false
	}
	delete(s.documents, documentID)
	return true
}

// EnsureConversation finds the conversation or creates one titled with the
// first words of the opening message, mirroring the real service.
func (s *Store) EnsureConversation(conversationID, firstMessage string) model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conversationID != "" {
		if conv, ok := s.conversations[conversationID]; ok {
			return *conv
		}
	}
	title := strings.TrimSpace(firstMessage)
	if len(title) > 50 {
		title = title[:50]
	}
	conv := &model.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now(),
	}
	s.conversations[conv.ID] = conv
	return *conv
}

func (s *Store) CountMessages(conversationID string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.conversations[conversationID]; ok {
		conv.MessageCount += n
	}
}

func (s *Store) Conversations() []model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs := make([]model.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		convs = append(convs, *conv)
	}
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].CreatedAt.After(convs[j].CreatedAt)
	})
	return convs
}

func (s *Store) DeleteConversation(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[conversationID]; !ok {
		return false
	}
	delete(s.conversations, conversationID)
	return true
}
