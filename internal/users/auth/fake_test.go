// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/recipebox/internal/platform/dberr"
	"github.com/taibuivan/recipebox/internal/platform/identity"
)

// memoryUsers is an in-memory UserRepository.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*identity.Identity
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[int64]*identity.Identity{}}
}

func (m *memoryUsers) FindByID(_ context.Context, id int64) (*identity.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("find_user_by_id: %w", dberr.ErrNotFound)
	}
	clone := *account
	return &clone, nil
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*identity.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, account := range m.byID {
		if account.Username == username {
			clone := *account
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("find_user_by_username: %w", dberr.ErrNotFound)
}

func (m *memoryUsers) Create(_ context.Context, account *identity.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.byID {
		if existing.Username == account.Username {
			return fmt.Errorf("create_user: %w", dberr.ErrConflict)
		}
	}

	m.nextID++
	account.ID = m.nextID
	account.CreatedAt = time.Now()
	clone := *account
	m.byID[account.ID] = &clone
	return nil
}

func (m *memoryUsers) List(_ context.Context, limit, offset int) ([]*identity.Identity, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*identity.Identity, 0, len(m.byID))
	for _, account := range m.byID {
		clone := *account
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []*identity.Identity{}, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

// promote flips an account to admin, as an operator would out-of-band.
func (m *memoryUsers) promote(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].Role = identity.RoleAdmin
}
