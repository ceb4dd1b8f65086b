package admin

import (
	"context"
	"testing"
	"time"

	"github.com/grahmind/careers-waitlist/internal/models"
	"github.com/grahmind/careers-waitlist/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func exerciseSessionStore(t *testing.T, store SessionStore) {
	t.Helper()
	ctx := context.Background()
	created := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

	missing, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Create(ctx, &Session{Token: "tok-1", CreatedAt: created}))

	found, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "tok-1", found.Token)
	assert.True(t, created.Equal(found.CreatedAt))

	require.NoError(t, store.Delete(ctx, "tok-1"))
	gone, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.NoError(t, store.Delete(ctx, "never-existed"))
}

func TestMemorySessionStore(t *testing.T) {
	exerciseSessionStore(t, NewMemorySessionStore())
}

func TestDatabaseSessionStore(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.ModelRegistry...))

	exerciseSessionStore(t, NewDatabaseSessionStore(db))
}

type mapCache map[string]string

func (c mapCache) Get(_ context.Context, key string) (string, error) { return c[key], nil }
func (c mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c[key] = value
	return nil
}
func (c mapCache) Delete(_ context.Context, key string) error {
	delete(c, key)
	return nil
}

func TestCacheSessionStore(t *testing.T) {
	exerciseSessionStore(t, NewCacheSessionStore(mapCache{}))
}

func TestCacheSessionStore_KeysAndNoExpiry(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := NewMockCache(ctrl)
	cache.EXPECT().Set(gomock.Any(), "admin_session:tok-9", gomock.Any(), time.Duration(0)).Return(nil)

	store := NewCacheSessionStore(cache)

	require.NoError(t, store.Create(context.Background(), &Session{Token: "tok-9", CreatedAt: time.Now()}))
}

func TestNewSessionStore(t *testing.T) {
	store, err := NewSessionStore(constants.SessionStoreMemory, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemorySessionStore{}, store)

	_, err = NewSessionStore(constants.SessionStoreRedis, nil, nil)
	assert.Error(t, err)

	_, err = NewSessionStore(constants.SessionStoreDatabase, nil, nil)
	assert.Error(t, err)

	store, err = NewSessionStore(constants.SessionStoreRedis, mapCache{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &CacheSessionStore{}, store)

	_, err = NewSessionStore("memcached", nil, nil)
	assert.Error(t, err)
}
