package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"coalition/internal/model"
)

type SessionCache interface {
	Set(ctx context.Context, session *model.InterviewSession) error
	Get(ctx context.Context, id string) (*model.InterviewSession, error)
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) Set(ctx context.Context, session *model.InterviewSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	// Every write refreshes the TTL; an abandoned interview simply expires.
	return c.client.Set(ctx, "interview:"+session.ID, data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.InterviewSession, error) {
	data, err := c.client.Get(ctx, "interview:"+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.InterviewSession
	err = json.Unmarshal([]byte(data), &session)
	return &session, err
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "interview:"+id).Err()
}
