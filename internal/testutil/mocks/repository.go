// Package mocks provides mock implementations of ports for testing.
package mocks

import (
	"context"
	"slices"
	"sync"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-blog/internal/domain/model"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/repository"
)

// --- PostRepository Mock ---

// PostRepository is a mock implementation of repository.PostRepository.
type PostRepository struct {
	mu sync.RWMutex

	// Storage
	posts  map[int64]*model.Post
	nextID int64

	// Call tracking
	Calls struct {
		FindAll   int
		FindByID  int
		FindByIDs int
		Create    int
		Update    int
		Delete    int
	}

	// Error injection
	Errors struct {
		FindAll   error
		FindByID  error
		FindByIDs error
		Create    error
		Update    error
		Delete    error
	}

	// OnUpdate, when set, runs inside Update before the post is changed.
	OnUpdate func(id int64)
}

// NewPostRepository creates a new mock PostRepository.
func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[int64]*model.Post),
		nextID: 1,
	}
}

func (m *PostRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.FindAll++

	if m.Errors.FindAll != nil {
		return nil, m.Errors.FindAll
	}

	posts := make([]*model.Post, 0, len(m.posts))
	for _, id := range m.sortedIDs() {
		posts = append(posts, m.posts[id])
	}
	slices.Reverse(posts)
	return posts, nil
}

func (m *PostRepository) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.FindByID++

	if m.Errors.FindByID != nil {
		return nil, m.Errors.FindByID
	}

	post, ok := m.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return post, nil
}

func (m *PostRepository) FindByIDs(ctx context.Context, ids []int64) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.FindByIDs++

	if m.Errors.FindByIDs != nil {
		return nil, m.Errors.FindByIDs
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	posts := make([]*model.Post, 0, len(sorted))
	for _, id := range sorted {
		if post, ok := m.posts[id]; ok {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (m *PostRepository) Create(ctx context.Context, post *model.Post) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Create++

	if m.Errors.Create != nil {
		return 0, m.Errors.Create
	}

	id := m.nextID
	m.nextID++
	m.posts[id] = model.ReconstructPost(id, post.Title(), post.Content(), post.CreatedAt())
	return id, nil
}

func (m *PostRepository) Update(ctx context.Context, id int64, update repository.PostUpdate) (bool, error) {
	m.mu.Lock()
	m.Calls.Update++
	hook := m.OnUpdate
	m.mu.Unlock()

	if hook != nil {
		hook(id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Errors.Update != nil {
		return false, m.Errors.Update
	}

	post, ok := m.posts[id]
	if !ok {
		return false, nil
	}
	m.posts[id] = model.ReconstructPost(id, update.Title, update.Content, post.CreatedAt())
	return true, nil
}

func (m *PostRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Delete++

	if m.Errors.Delete != nil {
		return false, m.Errors.Delete
	}

	if _, ok := m.posts[id]; !ok {
		return false, nil
	}
	delete(m.posts, id)
	return true, nil
}

// --- Helper Methods ---

// AddPost stores a post directly, bypassing call tracking.
func (m *PostRepository) AddPost(title, content string) *model.Post {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	post := model.ReconstructPost(id, title, content, types.Now())
	m.posts[id] = post
	return post
}

// GetPost returns the stored post with id, or nil.
func (m *PostRepository) GetPost(id int64) *model.Post {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.posts[id]
}

// Count returns the number of stored posts.
func (m *PostRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.posts)
}

// sortedIDs returns stored ids in ascending order (must hold lock).
func (m *PostRepository) sortedIDs() []int64 {
	ids := make([]int64, 0, len(m.posts))
	for id := range m.posts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

var _ repository.PostRepository = (*PostRepository)(nil)
