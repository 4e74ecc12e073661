package coupon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const redemptionKeyPrefix = "coupon:redeemed:"

type RedisRedemptionStore struct {
	Client *redis.Client
}

func NewRedisRedemptionStore(client *redis.Client) *RedisRedemptionStore {
	return &RedisRedemptionStore{Client: client}
}

func redemptionKey(code, userID string) string {
	return fmt.Sprintf("%s%s:%s", redemptionKeyPrefix, code, userID)
}

func (s *RedisRedemptionStore) Claim(ctx context.Context, code, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.SetNX(ctx, redemptionKey(code, userID), time.Now().Unix(), 0).Result()
}

func (s *RedisRedemptionStore) Release(ctx context.Context, code, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Del(ctx, redemptionKey(code, userID)).Err()
}

// MemoryRedemptionStore keeps redemptions in process.
type MemoryRedemptionStore struct {
	mu   sync.Mutex
	used map[string]struct{}
}

func NewMemoryRedemptionStore() *MemoryRedemptionStore {
	return &MemoryRedemptionStore{used: make(map[string]struct{})}
}

func (s *MemoryRedemptionStore) Claim(_ context.Context, code, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := redemptionKey(code, userID)
	if _, ok := s.used[key]; ok {
		return false, nil
	}
	s.used[key] = struct{}{}
	return true, nil
}

func (s *MemoryRedemptionStore) Release(_ context.Context, code, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.used, redemptionKey(code, userID))
	return nil
}
