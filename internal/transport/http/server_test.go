package http

import (
	"bytes"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/api"
	"docuchat/internal/app"
	"docuchat/internal/cache"
	"docuchat/internal/config"
	"docuchat/internal/model"
	"docuchat/internal/pkg/jwtutil"
)

const testJWTSecret = "integration-test-secret"

func newStubEnv(t *testing.T) (*httptest.Server, *api.Client) {
	t.Helper()

	server := httptest.NewServer(NewRouter(config.StubConfig{
		GinMode:      gin.TestMode,
		JWTSecret:    testJWTSecret,
		ProgressStep: 50,
	}))
	t.Cleanup(server.Close)

	token, err := jwtutil.GenerateToken(testJWTSecret, "tester", time.Hour)
	require.NoError(t, err)

	client := api.NewClient(api.Config{
		BaseURL: server.URL,
		Token:   token,
		Timeout: 5 * time.Second,
	})
	return server, client
}

func TestRejectsMissingToken(t *testing.T) {
	server, _ := newStubEnv(t)

	resp, err := nethttp.Get(server.URL + "/api/conversations/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestRejectsForgedToken(t *testing.T) {
	server, _ := newStubEnv(t)

	token, err := jwtutil.GenerateToken("some-other-secret", "intruder", time.Hour)
	require.NoError(t, err)

	req, err := nethttp.NewRequest(nethttp.MethodGet, server.URL+"/api/conversations/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := nethttp.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestChatExchangeEndToEnd(t *testing.T) {
	_, client := newStubEnv(t)

	timeline := app.NewTimeline()
	convCache := cache.NewConversationCache(time.Minute)
	session := app.NewChatSession(client, timeline, convCache, nil)

	var refreshed []model.Conversation
	session.OnConversations(func(conversations []model.Conversation) {
		refreshed = conversations
	})

	question := "What are the main takeaways?"
	err := session.Send(t.Context(), app.SendInput{
		Message:     question,
		DocumentIDs: []string{"doc-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, app.StateCompleted, session.State())

	messages := timeline.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, question, messages[0].Content)
	assert.Equal(t, model.RoleAssistant, messages[1].Role)
	assert.Contains(t, messages[1].Content, "main takeaways")

	require.Len(t, refreshed, 1)
	assert.Equal(t, question, refreshed[0].Title)
	cached, ok := convCache.Get()
	require.True(t, ok)
	assert.Equal(t, refreshed, cached)
}

func TestChatRejectsBlankMessageServerSide(t *testing.T) {
	_, client := newStubEnv(t)

	body, err := client.OpenExchange(t.Context(), api.ExchangeRequest{Message: "   "})
	if body != nil {
		body.Close()
	}
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, nethttp.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Message is required", apiErr.Message)
}

func TestUploadTracksToCompletion(t *testing.T) {
	_, client := newStubEnv(t)

	timeline := app.NewTimeline()
	service := app.NewIngestService(client, timeline, 5*time.Millisecond, nil)

	var progress []int
	tracker, err := service.Upload(t.Context(), "report.pdf", bytes.NewReader([]byte("%PDF-1.4")), func(rec model.IngestionRecord) {
		progress = append(progress, rec.Progress)
	})
	require.NoError(t, err)

	select {
	case <-tracker.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not finish")
	}

	assert.Equal(t, app.TrackerCompleted, tracker.State())
	rec := tracker.Record()
	assert.Equal(t, model.StatusCompleted, rec.Status)
	assert.Equal(t, 100, rec.Progress)
	assert.Equal(t, "report.pdf", rec.Title)
	assert.Equal(t, []int{0, 50, 100}, progress)

	last, ok := timeline.Last()
	require.True(t, ok)
	assert.Equal(t, model.KindDocumentAdded, last.Kind)
	assert.Contains(t, last.Content, "report.pdf")
}

func TestUploadFailingDocument(t *testing.T) {
	_, client := newStubEnv(t)

	service := app.NewIngestService(client, app.NewTimeline(), 5*time.Millisecond, nil)

	tracker, err := service.Upload(t.Context(), "will-fail.pdf", strings.NewReader("%PDF-1.4"), nil)
	require.NoError(t, err)

	select {
	case <-tracker.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not finish")
	}

	assert.Equal(t, app.TrackerFailed, tracker.State())
	assert.Equal(t, model.StatusFailed, tracker.Record().Status)
	require.Error(t, tracker.Err())
}

func TestUploadRejectsNonPDF(t *testing.T) {
	_, client := newStubEnv(t)

	_, err := client.Upload(t.Context(), "notes.txt", strings.NewReader("plain text"))
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, nethttp.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Only PDF files are supported", apiErr.Message)
}

func TestDocumentLifecycle(t *testing.T) {
	_, client := newStubEnv(t)

	uploaded, err := client.Upload(t.Context(), "guide.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	docs, err := client.ListDocuments(t.Context())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, uploaded.DocumentID, docs[0].ID)
	assert.Equal(t, "guide.pdf", docs[0].Title)

	require.NoError(t, client.DeleteDocument(t.Context(), uploaded.DocumentID))

	docs, err = client.ListDocuments(t.Context())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStatusOfUnknownDocument(t *testing.T) {
	_, client := newStubEnv(t)

	_, err := client.DocumentStatus(t.Context(), "no-such-id")
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, nethttp.StatusNotFound, apiErr.Status)
}

func TestConversationDelete(t *testing.T) {
	_, client := newStubEnv(t)

	body, err := client.OpenExchange(t.Context(), api.ExchangeRequest{
		Message:     "hello there",
		DocumentIDs: []string{"doc-1"},
	})
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, body)
	body.Close()

	conversations, err := client.ListConversations(t.Context())
	require.NoError(t, err)
	require.Len(t, conversations, 1)

	require.NoError(t, client.DeleteConversation(t.Context(), conversations[0].ID))

	conversations, err = client.ListConversations(t.Context())
	require.NoError(t, err)
	assert.Empty(t, conversations)
}
