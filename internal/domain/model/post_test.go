package model_test

import (
	"testing"
	"time"

	"github.com/0xsj/overwatch-pkg/types"

	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/domain/model"
)

func TestNewPost(t *testing.T) {
	t.Run("valid inputs", func(t *testing.T) {
		post, err := model.NewPost("Tech Innovations in 2024", "body")
		if err != nil {
			t.Fatalf("NewPost() error = %v", err)
		}
		if post.ID() != 0 {
			t.Errorf("ID = %d, want 0 before persistence", post.ID())
		}
		if post.Title() != "Tech Innovations in 2024" {
			t.Errorf("Title = %q", post.Title())
		}
		if post.Content() != "body" {
			t.Errorf("Content = %q", post.Content())
		}
		if post.CreatedAt().IsZero() {
			t.Error("CreatedAt should be set")
		}
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := model.NewPost("", "body")
		if err != domainerror.ErrPostTitleRequired {
			t.Errorf("NewPost() error = %v, want %v", err, domainerror.ErrPostTitleRequired)
		}
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := model.NewPost("   \t", "body")
		if err != domainerror.ErrPostTitleRequired {
			t.Errorf("NewPost() error = %v, want %v", err, domainerror.ErrPostTitleRequired)
		}
	})
}

func TestReconstructPost(t *testing.T) {
	createdAt := types.FromTime(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	post := model.ReconstructPost(42, "title", "content", createdAt)

	if post.ID() != 42 {
		t.Errorf("ID = %d, want 42", post.ID())
	}
	if post.Title() != "title" {
		t.Errorf("Title = %q, want %q", post.Title(), "title")
	}
	if !post.CreatedAt().Time().Equal(createdAt.Time()) {
		t.Errorf("CreatedAt = %v, want %v", post.CreatedAt().Time(), createdAt.Time())
	}
}
