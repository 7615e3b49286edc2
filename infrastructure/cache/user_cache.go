package cache

import (
	"sync"

	"crewboard/models"
)

// UnknownUserName is returned when a user id cannot be resolved.
const UnknownUserName = "Unknown User"

// UserCache caches users by id for display-name lookups.
type UserCache struct {
	mu    sync.RWMutex
	users map[int64]models.User
}

func NewUserCache() *UserCache {
	return &UserCache{users: make(map[int64]models.User)}
}

func (c *UserCache) Add(user models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[user.ID] = user
}

func (c *UserCache) Get(id int64) (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.users[id]
	return u, ok
}

// GetName resolves a user id to a display name, falling back to
// UnknownUserName for ids that are missing or no longer exist.
func (c *UserCache) GetName(id int64) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if u, ok := c.users[id]; ok && u.Name != "" {
		return u.Name
	}
	return UnknownUserName
}

// ReplaceAll swaps the full cached user set, used by the users store
// on every collection refresh.
func (c *UserCache) ReplaceAll(users []models.User) {
	next := make(map[int64]models.User, len(users))
	for _, u := range users {
		next[u.ID] = u
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = next
}
