package event

import (
	"strconv"
)

// PostCreated is emitted after a post is persisted.
type PostCreated struct {
	BaseEvent
	PostID int64
	Title  string
}

// NewPostCreated creates a new PostCreated event.
func NewPostCreated(postID int64, title string) PostCreated {
	return PostCreated{
		BaseEvent: NewBaseEvent(EventTypePostCreated, postAggregateID(postID), AggregateTypePost),
		PostID:    postID,
		Title:     title,
	}
}

// PostUpdated is emitted after a post edit has been committed and the
// cache and search index have been brought in line with it.
type PostUpdated struct {
	BaseEvent
	PostID   int64
	OldTitle string
	NewTitle string
}

// NewPostUpdated creates a new PostUpdated event.
func NewPostUpdated(postID int64, oldTitle, newTitle string) PostUpdated {
	return PostUpdated{
		BaseEvent: NewBaseEvent(EventTypePostUpdated, postAggregateID(postID), AggregateTypePost),
		PostID:    postID,
		OldTitle:  oldTitle,
		NewTitle:  newTitle,
	}
}

// PostDeleted is emitted after a post is removed.
type PostDeleted struct {
	BaseEvent
	PostID int64
}

// NewPostDeleted creates a new PostDeleted event.
func NewPostDeleted(postID int64) PostDeleted {
	return PostDeleted{
		BaseEvent: NewBaseEvent(EventTypePostDeleted, postAggregateID(postID), AggregateTypePost),
		PostID:    postID,
	}
}

func postAggregateID(id int64) string {
	return strconv.FormatInt(id, 10)
}
