package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"docuchat/internal/model"
)

const fallbackErrorMessage = "An error occurred while processing the request"

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Error is a non-success response decoded from the service's {message} body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client issues authenticated requests against the document-chat service.
// Unary calls are bounded by the configured timeout; streaming exchanges are
// bounded only by their caller's context.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

type ExchangeRequest struct {
	Message        string   `json:"message"`
	DocumentIDs    []string `json:"document_ids"`
	ConversationID string   `json:"conversation_id"`
	Stream         bool     `json:"stream"`
}

// OpenExchange starts one streamed chat exchange and hands the raw response
// body to the caller, who owns closing it. A non-success status is decoded
// into an *Error before any stream is exposed.
func (c *Client) OpenExchange(ctx context.Context, reqBody ExchangeRequest) (io.ReadCloser, error) {
	reqBody.Stream = true
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal exchange request failed: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/chat/", bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange request failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp.Body, nil
}

type UploadResult struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
}

func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload form failed: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read upload file failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish upload form failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/documents/upload/", &buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var result UploadResult
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type StatusResult struct {
	Title              string                 `json:"title"`
	ProcessingStatus   model.ProcessingStatus `json:"processing_status"`
	ProcessingProgress int                    `json:"processing_progress"`
}

func (c *Client) DocumentStatus(ctx context.Context, documentID string) (*StatusResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, "/api/documents/"+documentID+"/status/", nil, "")
	if err != nil {
		return nil, err
	}

	var result StatusResult
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, "/api/conversations/", nil, "")
	if err != nil {
		return nil, err
	}

	var result struct {
		Conversations []model.Conversation `json:"conversations"`
	}
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	return result.Conversations, nil
}

func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/conversations/"+conversationID+"/delete/", nil, "")
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

func (c *Client) ListDocuments(ctx context.Context) ([]model.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, "/api/documents/", nil, "")
	if err != nil {
		return nil, err
	}

	var result struct {
		Documents []model.Document `json:"documents"`
	}
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	return result.Documents, nil
}

func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/documents/"+documentID+"/delete/", nil, "")
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response of %s failed: %w", req.URL.Path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Message: fallbackErrorMessage}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && strings.TrimSpace(body.Message) != "" {
		apiErr.Message = strings.TrimSpace(body.Message)
	}
	return apiErr
}
