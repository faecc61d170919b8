package telegram

import (
	"sync"

	"github.com/gotd/td/tg"
)

// PeerCache запоминает access hash пользователей из входящих обновлений.
type PeerCache struct {
	mu     sync.RWMutex
	hashes map[int64]int64
}

func NewPeerCache() *PeerCache {
	return &PeerCache{hashes: make(map[int64]int64)}
}

// Remember сохраняет пользователей, пришедших вместе с обновлением.
func (c *PeerCache) Remember(e tg.Entities) {
	if len(e.Users) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, u := range e.Users {
		if u == nil || u.Min {
			continue
		}
		c.hashes[id] = u.AccessHash
	}
}

// InputPeer возвращает адресата. Для незнакомого пользователя hash будет 0,
// Telegram принимает такой адрес, только если пользователь уже писал боту.
func (c *PeerCache) InputPeer(userID int64) tg.InputPeerClass {
	c.mu.RLock()
	hash := c.hashes[userID]
	c.mu.RUnlock()
	return &tg.InputPeerUser{UserID: userID, AccessHash: hash}
}
