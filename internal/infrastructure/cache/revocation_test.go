package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRevocationList_ReportsUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	revoked, err := NewRevocationList(client).IsRevoked(context.Background(), "token-id")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "token-id")
	assert.False(t, revoked)
}
