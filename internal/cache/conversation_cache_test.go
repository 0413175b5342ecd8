package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/model"
)

func TestConversationCacheRoundTrip(t *testing.T) {
	c := NewConversationCache(time.Minute)

	_, ok := c.Get()
	assert.False(t, ok)

	conversations := []model.Conversation{{ID: "c1", Title: "payroll question"}}
	c.Set(conversations)

	got, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, conversations, got)
}

func TestConversationCacheInvalidate(t *testing.T) {
	c := NewConversationCache(time.Minute)
	c.Set([]model.Conversation{{ID: "c1"}})

	c.Invalidate()

	_, ok := c.Get()
	assert.False(t, ok)
}

func TestConversationCacheExpires(t *testing.T) {
	c := NewConversationCache(10 * time.Millisecond)
	c.Set([]model.Conversation{{ID: "c1"}})

	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get()
	assert.False(t, ok)
}

func TestConversationCacheDefaultTTL(t *testing.T) {
	c := NewConversationCache(0)
	assert.Equal(t, 60*time.Second, c.ttl)
}
