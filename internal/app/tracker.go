package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"docuchat/internal/api"
	"docuchat/internal/model"
)

const defaultPollInterval = 5 * time.Second

// StatusClient is the polling surface a tracker drives.
type StatusClient interface {
	DocumentStatus(ctx context.Context, documentID string) (*api.StatusResult, error)
}

// TrackFunc receives every progress snapshot, including the terminal one.
type TrackFunc func(rec model.IngestionRecord)

type TrackerState int

const (
	TrackerPolling TrackerState = iota
	TrackerCompleted
	TrackerFailed
	TrackerStopped
)

func (s TrackerState) String() string {
	switch s {
	case TrackerPolling:
		return "polling"
	case TrackerCompleted:
		return "completed"
	case TrackerFailed:
		return "failed"
	case TrackerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IngestionTracker polls processing status for one uploaded document at a
// fixed interval until the document completes, a query fails, or the tracker
// is stopped. The timer is exclusively owned; no two trackers service the
// same document id.
type IngestionTracker struct {
	client   StatusClient
	interval time.Duration
	logger   *zap.Logger
	fn       TrackFunc

	mu    sync.Mutex
	state TrackerState
	rec   model.IngestionRecord
	err   error

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// StartTracker begins polling immediately with an initial progress of 0.
func StartTracker(client StatusClient, documentID, title string, interval time.Duration, logger *zap.Logger, fn TrackFunc) *IngestionTracker {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &IngestionTracker{
		client:   client,
		interval: interval,
		logger:   logger,
		fn:       fn,
		state:    TrackerPolling,
		rec: model.IngestionRecord{
			DocumentID: documentID,
			Title:      title,
			Status:     model.StatusPending,
		},
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	t.emit(t.rec)
	go t.run()
	return t
}

func (t *IngestionTracker) State() TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *IngestionTracker) Record() model.IngestionRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rec
}

// Err reports what ended the tracker when its state is TrackerFailed.
func (t *IngestionTracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Done is closed once the tracker reaches any terminal state.
func (t *IngestionTracker) Done() <-chan struct{} {
	return t.done
}

// Stop halts polling without emitting a terminal record. Safe to call
// repeatedly and after the tracker has already finished.
func (t *IngestionTracker) Stop() {
	t.mu.Lock()
	if t.state == TrackerPolling {
		t.state = TrackerStopped
	}
	t.mu.Unlock()
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *IngestionTracker) run() {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if t.poll() {
				return
			}
		}
	}
}

// poll issues one status query and reports whether the tracker is finished.
func (t *IngestionTracker) poll() bool {
	status, err := t.client.DocumentStatus(context.Background(), t.rec.DocumentID)
	if err != nil {
		t.logger.Warn("document status query failed",
			zap.String("document_id", t.rec.DocumentID), zap.Error(err))
		rec, ok := t.finish(model.StatusFailed, err)
		if ok {
			t.emit(rec)
		}
		return true
	}

	t.mu.Lock()
	if t.state != TrackerPolling {
		t.mu.Unlock()
		return true
	}
	if status.Title != "" {
		t.rec.Title = status.Title
	}
	t.rec.Status = status.ProcessingStatus
	if status.ProcessingProgress > t.rec.Progress {
		t.rec.Progress = status.ProcessingProgress
	}

	switch {
	case status.ProcessingStatus == model.StatusCompleted || t.rec.Progress >= 100:
		t.rec.Status = model.StatusCompleted
		t.rec.Progress = 100
		t.state = TrackerCompleted
	case status.ProcessingStatus == model.StatusFailed:
		t.state = TrackerFailed
		t.err = errors.New("document processing failed")
	}
	rec := t.rec
	state := t.state
	t.mu.Unlock()

	t.emit(rec)
	return state != TrackerPolling
}

func (t *IngestionTracker) finish(status model.ProcessingStatus, err error) (model.IngestionRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TrackerPolling {
		return model.IngestionRecord{}, false
	}
	t.state = TrackerFailed
	t.err = err
	t.rec.Status = status
	return t.rec, true
}

func (t *IngestionTracker) emit(rec model.IngestionRecord) {
	if t.fn != nil {
		t.fn(rec)
	}
}
