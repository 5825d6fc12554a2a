// Package authtest provides an in-memory refresh token blacklist.
package authtest

import (
	"context"
	"sync"
	"time"
)

type Blacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewBlacklist() *Blacklist {
	return &Blacklist{entries: map[string]time.Time{}}
}

func (b *Blacklist) Revoke(_ context.Context, jti string, _ int64, expiresAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.entries[jti]; ok {
		return false, nil
	}
	b.entries[jti] = expiresAt
	return true, nil
}

func (b *Blacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.entries[jti]
	return ok, nil
}

func (b *Blacklist) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
