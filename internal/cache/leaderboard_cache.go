package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for per-scenario rankings
type LeaderboardCache interface {
	UpdateScore(ctx context.Context, scenarioID, sessionID, nickname string, score int) error
	GetTop(ctx context.Context, scenarioID string, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, scenarioID, sessionID string) (int64, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	SessionID string `json:"sessionId"`
	Nickname  string `json:"nickname"`
	Score     int    `json:"score"`
	Rank      int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) key(scenarioID string) string {
	return fmt.Sprintf("scenario:%s:lb", scenarioID)
}

func (c *leaderboardCache) namesKey(scenarioID string) string {
	return fmt.Sprintf("scenario:%s:names", scenarioID)
}

func (c *leaderboardCache) UpdateScore(ctx context.Context, scenarioID, sessionID, nickname string, score int) error {
	if err := c.client.ZAdd(ctx, c.key(scenarioID), redis.Z{
		Score:  float64(score),
		Member: sessionID,
	}).Err(); err != nil {
		return err
	}
	return c.client.HSet(ctx, c.namesKey(scenarioID), sessionID, nickname).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, scenarioID string, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(scenarioID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			SessionID: z.Member.(string),
			Score:     int(z.Score),
			Rank:      i + 1,
		}
	}
	if len(entries) > 0 {
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.SessionID
		}
		names, err := c.client.HMGet(ctx, c.namesKey(scenarioID), ids...).Result()
		if err != nil {
			return nil, err
		}
		for i, n := range names {
			if s, ok := n.(string); ok {
				entries[i].Nickname = s
			}
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, scenarioID, sessionID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(scenarioID), sessionID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
