package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"docuchat/internal/api"
	"docuchat/internal/model"
)

// UploadClient is the transport surface the ingest service drives.
type UploadClient interface {
	StatusClient
	Upload(ctx context.Context, filename string, file io.Reader) (*api.UploadResult, error)
}

// IngestService uploads documents and tracks their server-side processing.
// Each in-flight document id owns exactly one tracker; overlapping uploads
// run independent trackers.
type IngestService struct {
	client   UploadClient
	timeline *Timeline
	interval time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	trackers map[string]*IngestionTracker
}

func NewIngestService(client UploadClient, timeline *Timeline, interval time.Duration, logger *zap.Logger) *IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{
		client:   client,
		timeline: timeline,
		interval: interval,
		logger:   logger,
		trackers: make(map[string]*IngestionTracker),
	}
}

// Upload sends the file, then starts polling the returned document id. The
// returned tracker is already running; fn observes every snapshot. When a
// tracker for the same document id is still polling, it is reused instead of
// starting a second timer.
func (s *IngestService) Upload(ctx context.Context, filename string, file io.Reader, fn TrackFunc) (*IngestionTracker, error) {
	result, err := s.client.Upload(ctx, filename, file)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.trackers[result.DocumentID]; ok && existing.State() == TrackerPolling {
		return existing, nil
	}

	tracker := StartTracker(s.client, result.DocumentID, result.Title, s.interval, s.logger, func(rec model.IngestionRecord) {
		if rec.Status == model.StatusCompleted && s.timeline != nil {
			s.timeline.Append(model.Message{
				Role:    model.RoleAssistant,
				Kind:    model.KindDocumentAdded,
				Content: fmt.Sprintf("Your document %q is ready.", rec.Title),
			})
		}
		if fn != nil {
			fn(rec)
		}
	})
	s.trackers[result.DocumentID] = tracker
	return tracker, nil
}

// Tracker returns the tracker for a document id, if one was ever started.
func (s *IngestService) Tracker(documentID string) (*IngestionTracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trackers[documentID]
	return t, ok
}

// StopAll halts every tracker, for component teardown.
func (s *IngestService) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.trackers {
		t.Stop()
	}
}
