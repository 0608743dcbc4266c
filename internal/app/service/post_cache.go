package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/0xsj/overwatch-pkg/log"
	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-blog/internal/domain/model"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/kv"
)

const (
	postKeyPrefix  = "posts:"
	allPostsKey    = "posts:all"
	defaultPostTTL = 1 * time.Hour
)

// PostCache is a cache-aside store for the "all posts" and "post by id" views.
//
// Reads never populate the cache; callers fall back to the durable store on a
// miss and write the result back. Every failure, including an unreachable
// store or an undecodable entry, is logged and degrades to a miss or a
// skipped write.
type PostCache interface {
	GetAll(ctx context.Context) ([]*model.Post, bool)
	SetAll(ctx context.Context, posts []*model.Post)
	GetOne(ctx context.Context, id int64) (*model.Post, bool)
	SetOne(ctx context.Context, id int64, post *model.Post)

	// Invalidate drops the "all posts" view and, when id is present, that post.
	// Call it after every durable write, before responding.
	Invalidate(ctx context.Context, id types.Optional[int64])
}

// postCache implements PostCache.
type postCache struct {
	store  kv.Store
	ttl    time.Duration
	logger log.Logger
}

// NewPostCache creates a new PostCache.
func NewPostCache(store kv.Store, ttl time.Duration, logger log.Logger) PostCache {
	if ttl == 0 {
		ttl = defaultPostTTL
	}
	return &postCache{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *postCache) GetAll(ctx context.Context) ([]*model.Post, bool) {
	var cached []cachedPost
	if !c.read(ctx, allPostsKey, &cached) {
		return nil, false
	}

	posts := make([]*model.Post, len(cached))
	for i, p := range cached {
		posts[i] = p.toModel()
	}
	return posts, true
}

func (c *postCache) SetAll(ctx context.Context, posts []*model.Post) {
	cached := make([]cachedPost, 0, len(posts))
	for _, p := range posts {
		if p != nil {
			cached = append(cached, newCachedPost(p))
		}
	}
	c.write(ctx, allPostsKey, cached)
}

func (c *postCache) GetOne(ctx context.Context, id int64) (*model.Post, bool) {
	var cached cachedPost
	if !c.read(ctx, postKey(id), &cached) {
		return nil, false
	}
	return cached.toModel(), true
}

func (c *postCache) SetOne(ctx context.Context, id int64, post *model.Post) {
	if post == nil {
		return
	}
	c.write(ctx, postKey(id), newCachedPost(post))
}

func (c *postCache) Invalidate(ctx context.Context, id types.Optional[int64]) {
	keys := []string{allPostsKey}
	if id.IsPresent() {
		keys = append(keys, postKey(id.MustGet()))
	}

	if err := c.store.Del(ctx, keys...); err != nil {
		c.logger.Error("failed to invalidate post cache",
			log.Any("keys", keys),
			log.String("error", err.Error()),
		)
	}
}

func (c *postCache) read(ctx context.Context, key string, dst any) bool {
	data, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("post cache read failed, treating as miss",
			log.String("key", key),
			log.String("error", err.Error()),
		)
		return false
	}
	if !found {
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("undecodable post cache entry, treating as miss",
			log.String("key", key),
			log.String("error", err.Error()),
		)
		return false
	}
	return true
}

func (c *postCache) write(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("failed to marshal post cache entry",
			log.String("key", key),
			log.String("error", err.Error()),
		)
		return
	}

	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("failed to write post cache entry",
			log.String("key", key),
			log.String("error", err.Error()),
		)
	}
}

// Key helper

func postKey(id int64) string {
	return postKeyPrefix + strconv.FormatInt(id, 10)
}

// Cached post structure for JSON serialization

type cachedPost struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func newCachedPost(p *model.Post) cachedPost {
	return cachedPost{
		ID:        p.ID(),
		Title:     p.Title(),
		Content:   p.Content(),
		CreatedAt: p.CreatedAt().Time(),
	}
}

func (c cachedPost) toModel() *model.Post {
	return model.ReconstructPost(c.ID, c.Title, c.Content, types.FromTime(c.CreatedAt))
}
