package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryDenylist keeps revoked token ids in process memory. Revocations do
// not survive a restart and are not shared between replicas; it is the
// fallback when no Redis address is configured.
type MemoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !until.After(d.now()) {
		return nil
	}
	d.revoked[tokenID] = until
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	until, ok := d.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !until.After(d.now()) {
		delete(d.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// Purge drops entries whose tokens have expired.
func (d *MemoryDenylist) Purge() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	purged := 0
	for id, until := range d.revoked {
		if !until.After(now) {
			delete(d.revoked, id)
			purged++
		}
	}
	return purged
}
