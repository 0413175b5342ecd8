package handler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docuchat/internal/transport/http/response"
)

const answerChunkRunes = 12

var cannedAnswers = map[string]string{
	"What is this document about?":             "The document you uploaded covers its subject in several sections. The opening part frames the topic, the middle develops the argument, and the closing summarises the findings.",
	"Give a brief summary of the document?":    "In short, the document introduces its topic, supports it with detail, and closes with practical conclusions you can act on.",
	"Explain the key points in this document.": "The key points are laid out section by section: the motivation, the supporting evidence, and the conclusions drawn from them.",
	"What are the main takeaways?":             "The main takeaways are the conclusions of the final section, each of which follows from the evidence presented earlier in the document.",
}

const defaultAnswer = "Based on the content of your uploaded documents, here is what I found relevant to your question. Let me know if you would like more detail on any part."

type ChatHandler struct {
	store         *Store
	chunkInterval time.Duration
}

type exchangeRequest struct {
	Message        string   `json:"message"`
	DocumentIDs    []string `json:"document_ids"`
	ConversationID string   `json:"conversation_id"`
	Stream         bool     `json:"stream"`
}

type chunkFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewChatHandler(store *Store, chunkInterval time.Duration) *ChatHandler {
	return &ChatHandler{store: store, chunkInterval: chunkInterval}
}

// Exchange streams the assistant's answer as line-oriented "data: " frames.
func (h *ChatHandler) Exchange(c *gin.Context) {
	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, "invalid request payload")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		response.Error(c, 400, "Message is required")
		return
	}

	conv := h.store.EnsureConversation(req.ConversationID, req.Message)
	h.store.CountMessages(conv.ID, 2)

	answer, ok := cannedAnswers[strings.TrimSpace(req.Message)]
	if !ok {
		answer = defaultAnswer
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Status(200)

	for _, piece := range splitRunes(answer, answerChunkRunes) {
		select {
		case <-c.Request.Context().Done():
			return
		default:
		}

		payload, err := json.Marshal(chunkFrame{Type: "chunk", Text: piece})
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n", payload)
		c.Writer.Flush()

		if h.chunkInterval > 0 {
			time.Sleep(h.chunkInterval)
		}
	}
}

func splitRunes(s string, n int) []string {
	runes := []rune(s)
	var pieces []string
	for start := 0; start < len(runes); start += n {
		end := start + n
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}
