package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/algoviz/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "algoviz:subject:"

// Store implements ports.SubjectStore on Redis. Subjects are stored as JSON under
// <prefix>sorting and <prefix>pathfinding.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL expires stored subjects after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New connects to the Redis server at addr.
func New(addr string, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{Addr: addr})
	return NewFromClient(client, opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// SaveSequence stores seq as a JSON array.
func (s *Store) SaveSequence(ctx context.Context, seq domain.Sequence) error {
	if seq == nil {
		seq = domain.Sequence{}
	}
	return s.put(ctx, domain.ModeSorting, seq)
}

// LoadSequence reads the stored sequence.
func (s *Store) LoadSequence(ctx context.Context) (domain.Sequence, error) {
	var seq domain.Sequence
	if err := s.get(ctx, domain.ModeSorting, &seq); err != nil {
		return nil, err
	}
	if seq == nil {
		seq = domain.Sequence{}
	}
	return seq, nil
}

// SaveGrid stores g as JSON.
func (s *Store) SaveGrid(ctx context.Context, g *domain.Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return s.put(ctx, domain.ModePathfinding, g)
}

// LoadGrid reads the stored grid and validates it.
func (s *Store) LoadGrid(ctx context.Context) (*domain.Grid, error) {
	var g domain.Grid
	if err := s.get(ctx, domain.ModePathfinding, &g); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("stored grid: %w", err)
	}
	return &g, nil
}

// Delete removes the subject of mode.
func (s *Store) Delete(ctx context.Context, mode domain.Mode) error {
	if _, err := domain.ParseMode(string(mode)); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.key(mode)).Err(); err != nil {
		return fmt.Errorf("redis error deleting %s: %w", mode, err)
	}
	return nil
}

func (s *Store) key(mode domain.Mode) string {
	return s.prefix + string(mode)
}

func (s *Store) put(ctx context.Context, mode domain.Mode, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s subject: %w", mode, err)
	}
	if err := s.client.Set(ctx, s.key(mode), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis error saving %s: %w", mode, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, mode domain.Mode, v any) error {
	data, err := s.client.Get(ctx, s.key(mode)).Bytes()
	if errors.Is(err, backend.Nil) {
		return domain.ErrSubjectNotFound
	}
	if err != nil {
		return fmt.Errorf("redis error loading %s: %w", mode, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s subject: %w", mode, err)
	}
	return nil
}
