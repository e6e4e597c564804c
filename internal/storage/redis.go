package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

// DefaultRedisPrefix namespaces the hashes used by the Redis repositories.
const DefaultRedisPrefix = "linkodin:"

// ConnectRedis parses a redis:// URL and verifies the server is reachable.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// RedisPersonaRepository keeps every persona as a JSON field of one hash.
type RedisPersonaRepository struct {
	client *redis.Client
	key    string
}

func NewRedisPersonaRepository(client *redis.Client, prefix string) *RedisPersonaRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisPersonaRepository{client: client, key: prefix + "personas"}
}

func (r *RedisPersonaRepository) Save(ctx context.Context, persona *models.Persona) error {
	data, err := json.Marshal(toPersonaRecord(persona))
	if err != nil {
		return fmt.Errorf("failed to encode persona %s: %w", persona.ID, err)
	}
	if err := r.client.HSet(ctx, r.key, persona.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to save persona %s: %w", persona.ID, err)
	}
	return nil
}

func (r *RedisPersonaRepository) GetByID(ctx context.Context, id string) (*models.Persona, error) {
	data, err := r.client.HGet(ctx, r.key, id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get persona %s: %w", id, err)
	}
	var rec personaRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode persona %s: %w", id, err)
	}
	return rec.toPersona()
}

func (r *RedisPersonaRepository) GetAll(ctx context.Context) ([]*models.Persona, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}
	personas := make([]*models.Persona, 0, len(fields))
	for id, data := range fields {
		var rec personaRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			log.Printf("[Storage] Warning: skipping undecodable persona %s: %v", id, err)
			continue
		}
		p, err := rec.toPersona()
		if err != nil {
			log.Printf("[Storage] Warning: skipping invalid persona %s: %v", id, err)
			continue
		}
		personas = append(personas, p)
	}
	sortPersonas(personas)
	return personas, nil
}

func (r *RedisPersonaRepository) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.client.HDel(ctx, r.key, id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete persona %s: %w", id, err)
	}
	return n > 0, nil
}

// RedisPostRepository keeps every post as a JSON field of one hash.
type RedisPostRepository struct {
	client *redis.Client
	key    string
}

func NewRedisPostRepository(client *redis.Client, prefix string) *RedisPostRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisPostRepository{client: client, key: prefix + "posts"}
}

func (r *RedisPostRepository) Save(ctx context.Context, post *models.LinkedInPost) error {
	data, err := json.Marshal(toPostRecord(post))
	if err != nil {
		return fmt.Errorf("failed to encode post %s: %w", post.ID, err)
	}
	if err := r.client.HSet(ctx, r.key, post.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to save post %s: %w", post.ID, err)
	}
	return nil
}

func (r *RedisPostRepository) GetByID(ctx context.Context, id string) (*models.LinkedInPost, error) {
	data, err := r.client.HGet(ctx, r.key, id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	var rec postRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode post %s: %w", id, err)
	}
	return rec.toPost()
}

func (r *RedisPostRepository) GetByPersona(ctx context.Context, personaID string) ([]*models.LinkedInPost, error) {
	return r.scan(ctx, func(rec postRecord) bool { return rec.PersonaID == personaID })
}

func (r *RedisPostRepository) GetAll(ctx context.Context) ([]*models.LinkedInPost, error) {
	return r.scan(ctx, func(postRecord) bool { return true })
}

func (r *RedisPostRepository) scan(ctx context.Context, keep func(postRecord) bool) ([]*models.LinkedInPost, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	posts := make([]*models.LinkedInPost, 0, len(fields))
	for id, data := range fields {
		var rec postRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			log.Printf("[Storage] Warning: skipping undecodable post %s: %v", id, err)
			continue
		}
		if !keep(rec) {
			continue
		}
		p, err := rec.toPost()
		if err != nil {
			log.Printf("[Storage] Warning: skipping invalid post %s: %v", id, err)
			continue
		}
		posts = append(posts, p)
	}
	sortPosts(posts)
	return posts, nil
}
