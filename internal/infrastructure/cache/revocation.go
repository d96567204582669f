package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "revoked_token:"

// RevocationList reads the token IDs withdrawn by the identity provider, stored
// as "revoked_token:<id>" keys that expire with the token.
type RevocationList struct {
	client *redis.Client
}

func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

func (l *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := l.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check token %s: %w", tokenID, err)
	}
	return exists > 0, nil
}
