package draft

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/nacl/secretbox"

	"signup/internal/signup/models"
	"signup/pkg/platform/sentinel"
	"signup/pkg/requestcontext"
)

const (
	draftKeyPrefix = "signup:draft:"

	defaultMaxRetries = 5
)

const nonceSize = 24

// RedisStore keeps each draft as a JSON value whose key expires with the
// draft. Updates use WATCH/MULTI so concurrent edits of one draft never
// overwrite each other. The draft password is stored sealed with secretbox.
type RedisStore struct {
	client     *redis.Client
	maxRetries int
	key        [32]byte
	hasKey     bool
}

// storedDraft is the Redis value: the draft without its password, plus the
// password as nonce||secretbox.
type storedDraft struct {
	*models.Draft
	SealedPassword []byte `json:"sealed_password,omitempty"`
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithMaxRetries bounds how often Update retries after losing a WATCH race.
func WithMaxRetries(n int) RedisOption {
	return func(s *RedisStore) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithSealKey sets the key sealing draft passwords. Every instance sharing
// the Redis database must use the same key.
func WithSealKey(key [32]byte) RedisOption {
	return func(s *RedisStore) {
		s.key = key
		s.hasKey = true
	}
}

// NewRedis constructs a Redis-backed draft store. Without WithSealKey a
// random key is generated, so only this process can read the passwords back.
func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, maxRetries: defaultMaxRetries}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if !s.hasKey {
		_, _ = rand.Read(s.key[:])
	}
	return s
}

func draftKey(id uuid.UUID) string {
	return draftKeyPrefix + id.String()
}

func (s *RedisStore) Create(ctx context.Context, d *models.Draft) error {
	if d == nil {
		return fmt.Errorf("draft is required")
	}
	ttl, err := remaining(ctx, d)
	if err != nil {
		return err
	}
	payload, err := s.encode(d)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, draftKey(d.ID), payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("create draft: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	raw, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find draft: %w", err)
	}
	return s.decode(raw)
}

// Update runs fn inside an optimistic transaction. When another writer
// touches the key between read and write the transaction is retried; after
// maxRetries lost races redis.TxFailedErr is returned.
func (s *RedisStore) Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (*models.Draft, error) {
	key := draftKey(id)
	var updated *models.Draft

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return sentinel.ErrNotFound
			}
			return err
		}
		d, err := s.decode(raw)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
		ttl, err := remaining(ctx, d)
		if err != nil {
			return err
		}
		payload, err := s.encode(d)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = d
		return nil
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, redis.TxFailedErr
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.client.Del(ctx, draftKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *RedisStore) encode(d *models.Draft) ([]byte, error) {
	rec := storedDraft{Draft: d}
	if d.Password != "" {
		var nonce [nonceSize]byte
		if _, err := rand.Read(nonce[:]); err != nil {
			return nil, fmt.Errorf("seal password: %w", err)
		}
		rec.SealedPassword = secretbox.Seal(nonce[:], []byte(d.Password), &nonce, &s.key)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	return payload, nil
}

func (s *RedisStore) decode(raw []byte) (*models.Draft, error) {
	rec := storedDraft{Draft: &models.Draft{}}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	if len(rec.SealedPassword) > 0 {
		if len(rec.SealedPassword) < nonceSize {
			return nil, errors.New("decode draft: sealed password truncated")
		}
		var nonce [nonceSize]byte
		copy(nonce[:], rec.SealedPassword[:nonceSize])
		pw, ok := secretbox.Open(nil, rec.SealedPassword[nonceSize:], &nonce, &s.key)
		if !ok {
			return nil, errors.New("decode draft: sealed password does not open with this key")
		}
		rec.Draft.Password = string(pw)
	}
	return rec.Draft, nil
}

// remaining is the key TTL for d, or sentinel.ErrExpired when the draft is
// already past its expiry.
func remaining(ctx context.Context, d *models.Draft) (time.Duration, error) {
	if d.ExpiresAt.IsZero() {
		return 0, nil
	}
	ttl := d.ExpiresAt.Sub(requestcontext.Now(ctx))
	if ttl <= 0 {
		return 0, sentinel.ErrExpired
	}
	return ttl, nil
}
