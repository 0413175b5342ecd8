package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/api"
	"docuchat/internal/model"
)

type fakeUploadClient struct {
	*scriptedStatusClient
	uploadResult *api.UploadResult
	uploadErr    error
}

func (c *fakeUploadClient) Upload(ctx context.Context, filename string, file io.Reader) (*api.UploadResult, error) {
	return c.uploadResult, c.uploadErr
}

func TestIngestServiceAppendsDocumentAddedOnCompletion(t *testing.T) {
	client := &fakeUploadClient{
		scriptedStatusClient: &scriptedStatusClient{steps: []statusStep{
			processing(50),
			{result: &api.StatusResult{Title: "report.pdf", ProcessingStatus: model.StatusCompleted, ProcessingProgress: 100}},
		}},
		uploadResult: &api.UploadResult{DocumentID: "d1", Title: "report.pdf"},
	}
	timeline := NewTimeline()
	svc := NewIngestService(client, timeline, testInterval, nil)

	tracker, err := svc.Upload(t.Context(), "report.pdf", strings.NewReader("%PDF-"), nil)
	require.NoError(t, err)
	<-tracker.Done()

	require.Equal(t, TrackerCompleted, tracker.State())
	last, ok := timeline.Last()
	require.True(t, ok)
	assert.Equal(t, model.KindDocumentAdded, last.Kind)
	assert.Contains(t, last.Content, "report.pdf")
}

func TestIngestServiceUploadFailure(t *testing.T) {
	client := &fakeUploadClient{
		scriptedStatusClient: &scriptedStatusClient{steps: []statusStep{processing(0)}},
		uploadErr:            errors.New("upload rejected"),
	}
	svc := NewIngestService(client, nil, testInterval, nil)

	_, err := svc.Upload(t.Context(), "report.pdf", strings.NewReader(""), nil)
	require.Error(t, err)
}

func TestIngestServiceReusesLiveTrackerPerDocument(t *testing.T) {
	client := &fakeUploadClient{
		scriptedStatusClient: &scriptedStatusClient{steps: []statusStep{processing(10)}},
		uploadResult:         &api.UploadResult{DocumentID: "d1", Title: "report.pdf"},
	}
	svc := NewIngestService(client, nil, time.Hour, nil)

	first, err := svc.Upload(t.Context(), "report.pdf", strings.NewReader(""), nil)
	require.NoError(t, err)
	second, err := svc.Upload(t.Context(), "report.pdf", strings.NewReader(""), nil)
	require.NoError(t, err)

	assert.Same(t, first, second, "one live tracker per document id")
	svc.StopAll()
}

func TestIngestServiceStopAll(t *testing.T) {
	client := &fakeUploadClient{
		scriptedStatusClient: &scriptedStatusClient{steps: []statusStep{processing(10)}},
		uploadResult:         &api.UploadResult{DocumentID: "d1", Title: "report.pdf"},
	}
	svc := NewIngestService(client, nil, time.Hour, nil)

	tracker, err := svc.Upload(t.Context(), "report.pdf", strings.NewReader(""), nil)
	require.NoError(t, err)

	svc.StopAll()
	select {
	case <-tracker.Done():
	case <-time.After(time.Second):
		t.Fatal("tracker did not stop")
	}
	assert.Equal(t, TrackerStopped, tracker.State())

	got, ok := svc.Tracker("d1")
	require.True(t, ok)
	assert.Same(t, tracker, got)
}
