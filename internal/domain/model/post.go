package model

import (
	"strings"

	"github.com/0xsj/overwatch-pkg/types"

	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
)

// Post is a blog post as held by the durable store.
// The ID is assigned by the store on creation.
type Post struct {
	id        int64
	title     string
	content   string
	createdAt types.Timestamp
}

// NewPost creates a Post that has not been persisted yet.
func NewPost(title, content string) (*Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domainerror.ErrPostTitleRequired
	}

	return &Post{
		title:     title,
		content:   content,
		createdAt: types.Now(),
	}, nil
}

// ReconstructPost creates a Post from persisted or cached data (bypasses validation).
func ReconstructPost(
	id int64,
	title string,
	content string,
	createdAt types.Timestamp,
) *Post {
	return &Post{
		id:        id,
		title:     title,
		content:   content,
		createdAt: createdAt,
	}
}

// Getters

func (p *Post) ID() int64                  { return p.id }
func (p *Post) Title() string              { return p.title }
func (p *Post) Content() string            { return p.content }
func (p *Post) CreatedAt() types.Timestamp { return p.createdAt }
