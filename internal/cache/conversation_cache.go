package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"docuchat/internal/model"
)

const conversationsKey = "conversations"

// ConversationCache keeps the most recent conversation list so repeated
// renders between refreshes do not refetch it.
type ConversationCache struct {
	store *gocache.Cache
	ttl   time.Duration
}

func NewConversationCache(ttl time.Duration) *ConversationCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ConversationCache{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *ConversationCache) Get() ([]model.Conversation, bool) {
	v, ok := c.store.Get(conversationsKey)
	if !ok {
		return nil, false
	}
	conversations, ok := v.([]model.Conversation)
	return conversations, ok
}

func (c *ConversationCache) Set(conversations []model.Conversation) {
	c.store.Set(conversationsKey, conversations, c.ttl)
}

func (c *ConversationCache) Invalidate() {
	c.store.Delete(conversationsKey)
}
