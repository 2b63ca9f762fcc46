// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/recipebox/internal/core/recipe"
	"github.com/taibuivan/recipebox/internal/platform/dberr"
	"github.com/taibuivan/recipebox/internal/platform/identity"
	"github.com/taibuivan/recipebox/internal/platform/storage"
)

// # Recipes

// memoryRecipes is an in-memory Repository that counts lookups.
type memoryRecipes struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*recipe.Recipe
	lookups int
	failOn  string
}

func newMemoryRecipes() *memoryRecipes {
	return &memoryRecipes{byID: map[int64]*recipe.Recipe{}}
}

func (m *memoryRecipes) FindByID(_ context.Context, id int64) (*recipe.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lookups++
	found, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("get_recipe: %w", dberr.ErrNotFound)
	}
	clone := *found
	return &clone, nil
}

func (m *memoryRecipes) List(_ context.Context, limit, offset int) ([]*recipe.Recipe, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*recipe.Recipe, 0, len(m.byID))
	for _, r := range m.byID {
		clone := *r
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	if offset >= len(all) {
		return []*recipe.Recipe{}, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (m *memoryRecipes) Create(_ context.Context, r *recipe.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failOn == "create" {
		return errors.New("connection reset")
	}

	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	clone := *r
	m.byID[r.ID] = &clone
	return nil
}

func (m *memoryRecipes) Update(_ context.Context, r *recipe.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[r.ID]; !ok {
		return fmt.Errorf("update_recipe: %w", dberr.ErrNotFound)
	}
	r.UpdatedAt = time.Now()
	clone := *r
	m.byID[r.ID] = &clone
	return nil
}

func (m *memoryRecipes) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("delete_recipe: %w", dberr.ErrNotFound)
	}
	delete(m.byID, id)
	return nil
}

// seed stores a recipe directly, bypassing the service.
func (m *memoryRecipes) seed(ownerID int64, title string, image *string) *recipe.Recipe {
	r := &recipe.Recipe{Title: title, Description: "seeded", OwnerID: ownerID, Image: image}
	_ = m.Create(context.Background(), r)
	return r
}

func (m *memoryRecipes) get(id int64) (*recipe.Recipe, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	return r, ok
}

// # Images

// memoryImages is an in-memory ImageStore.
type memoryImages struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
	counter int
}

func newMemoryImages() *memoryImages {
	return &memoryImages{saved: map[string][]byte{}}
}

func (m *memoryImages) Save(_ context.Context, upload storage.Upload) (string, error) {
	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	ref := fmt.Sprintf("/images/%d%s", m.counter, upload.Ext)
	m.saved[ref] = data
	return ref, nil
}

func (m *memoryImages) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, ref)
	m.deleted = append(m.deleted, ref)
	return nil
}

func (m *memoryImages) Backend() string { return storage.BackendDisk }

func (m *memoryImages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

// # Users

// memoryUsers resolves identities for the gate.
type memoryUsers struct {
	mu   sync.Mutex
	byID map[int64]*identity.Identity
}

func newMemoryUsers(accounts ...*identity.Identity) *memoryUsers {
	users := &memoryUsers{byID: map[int64]*identity.Identity{}}
	for _, account := range accounts {
		users.byID[account.ID] = account
	}
	return users
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

func (m *memoryUsers) remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

// # Metrics

// countingRecorder records calls for assertions.
type countingRecorder struct {
	mu         sync.Mutex
	rejections map[string]int
	stored     map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{rejections: map[string]int{}, stored: map[string]int{}}
}

func (c *countingRecorder) ObserveRequest(string, string, int, time.Duration) {}

func (c *countingRecorder) RecordAuthRejection(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejections[reason]++
}

func (c *countingRecorder) RecordImageStored(backend string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored[backend]++
}

// # Payloads

// pngBytes is the smallest header http.DetectContentType recognises as PNG.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
