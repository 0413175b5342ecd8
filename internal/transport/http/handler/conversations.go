package handler

import (
	"github.com/gin-gonic/gin"

	"docuchat/internal/transport/http/response"
)

type ConversationHandler struct {
	store *Store
}

func NewConversationHandler(store *Store) *ConversationHandler {
	return &ConversationHandler{store: store}
}

func (h *ConversationHandler) List(c *gin.Context) {
	response.OK(c, gin.H{"conversations": h.store.Conversations()})
}

func (h *ConversationHandler) Delete(c *gin.Context) {
	conversationID := c.Param("id")
	if !h.store.DeleteConversation(conversationID) {
		response.Error(c, 404, "conversation not found")
		return
	}
	response.OK(c, gin.H{"deleted_conversation_id": conversationID})
}
