package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/grahmind/careers-waitlist/internal/models"
	"gorm.io/gorm"
)

// SessionStore persists admin sessions. Get returns (nil, nil) for an unknown token.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// MemorySessionStore keeps sessions in process memory; they are lost on restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]Session)}
}

func (s *MemorySessionStore) Create(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = *session
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Cache is the subset of the application cache used for sessions.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const cacheKeyPrefix = "admin_session:"

// CacheSessionStore shares sessions between instances through Redis.
type CacheSessionStore struct {
	cache Cache
}

func NewCacheSessionStore(cache Cache) *CacheSessionStore {
	return &CacheSessionStore{cache: cache}
}

func (s *CacheSessionStore) Create(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(cachedSession{CreatedAt: session.CreatedAt})
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+session.Token, string(payload), 0); err != nil {
		return fmt.Errorf("store admin session: %w", err)
	}
	return nil
}

func (s *CacheSessionStore) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := s.cache.Get(ctx, cacheKeyPrefix+token)
	if err != nil {
		return nil, fmt.Errorf("load admin session: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var cached cachedSession
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, fmt.Errorf("decode admin session: %w", err)
	}
	return &Session{Token: token, CreatedAt: cached.CreatedAt}, nil
}

func (s *CacheSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.cache.Delete(ctx, cacheKeyPrefix+token); err != nil {
		return fmt.Errorf("delete admin session: %w", err)
	}
	return nil
}

type cachedSession struct {
	CreatedAt time.Time `json:"created_at"`
}

// DatabaseSessionStore keeps sessions in the admin_sessions table.
type DatabaseSessionStore struct {
	db *gorm.DB
}

func NewDatabaseSessionStore(db *gorm.DB) *DatabaseSessionStore {
	return &DatabaseSessionStore{db: db}
}

func (s *DatabaseSessionStore) Create(ctx context.Context, session *Session) error {
	row := models.AdminSession{Token: session.Token, CreatedAt: session.CreatedAt}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("store admin session: %w", err)
	}
	return nil
}

func (s *DatabaseSessionStore) Get(ctx context.Context, token string) (*Session, error) {
	var row models.AdminSession
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load admin session: %w", err)
	}
	return &Session{Token: row.Token, CreatedAt: row.CreatedAt}, nil
}

func (s *DatabaseSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.AdminSession{}).Error; err != nil {
		return fmt.Errorf("delete admin session: %w", err)
	}
	return nil
}
