package admin

import (
	"fmt"

	"github.com/grahmind/careers-waitlist/pkg/constants"
	"gorm.io/gorm"
)

// NewSessionStore selects the backend named by SESSION_STORE.
func NewSessionStore(kind string, cache Cache, db *gorm.DB) (SessionStore, error) {
	switch kind {
	case "", constants.SessionStoreMemory:
		return NewMemorySessionStore(), nil
	case constants.SessionStoreRedis:
		if cache == nil {
			return nil, fmt.Errorf("session store %q requires a cache", kind)
		}
		return NewCacheSessionStore(cache), nil
	case constants.SessionStoreDatabase:
		if db == nil {
			return nil, fmt.Errorf("session store %q requires a database", kind)
		}
		return NewDatabaseSessionStore(db), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", kind)
	}
}
