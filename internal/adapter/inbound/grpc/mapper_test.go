package grpc

import (
	"testing"
	"time"

	"github.com/0xsj/overwatch-pkg/types"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/0xsj/overwatch-blog/internal/domain/model"
)

func TestToPostValue(t *testing.T) {
	t.Run("nil post returns nil", func(t *testing.T) {
		if result := toPostValue(nil); result != nil {
			t.Error("expected nil result for nil post")
		}
	})

	t.Run("maps all fields", func(t *testing.T) {
		createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		post := model.ReconstructPost(7, "Title", "Body", types.FromTime(createdAt))

		result := toPostValue(post)

		if result["id"] != int64(7) {
			t.Errorf("id = %v, want 7", result["id"])
		}
		if result["title"] != "Title" {
			t.Errorf("title = %v, want Title", result["title"])
		}
		if result["content"] != "Body" {
			t.Errorf("content = %v, want Body", result["content"])
		}
		if result["created_at"] != "2024-03-01T12:00:00Z" {
			t.Errorf("created_at = %v, want 2024-03-01T12:00:00Z", result["created_at"])
		}
	})

	t.Run("encodes as struct", func(t *testing.T) {
		post := model.ReconstructPost(1, "T", "", types.Now())

		if _, err := structpb.NewStruct(map[string]any{
			"posts": toPostValues([]*model.Post{post, post}),
		}); err != nil {
			t.Fatalf("NewStruct() error = %v", err)
		}
	})
}

func TestToPostValues_Empty(t *testing.T) {
	result := toPostValues(nil)
	if result == nil || len(result) != 0 {
		t.Errorf("toPostValues(nil) = %v, want empty non-nil slice", result)
	}
}

func TestToSessionValue(t *testing.T) {
	if toSessionValue(nil) != nil {
		t.Error("expected nil result for nil session")
	}

	session := model.ReconstructSession("user-1", map[string]any{"role": "admin"}, types.Now())
	result := toSessionValue(session)

	if result["subject_id"] != "user-1" {
		t.Errorf("subject_id = %v, want user-1", result["subject_id"])
	}
	claims, ok := result["claims"].(map[string]any)
	if !ok || claims["role"] != "admin" {
		t.Errorf("claims = %v", result["claims"])
	}
}

func TestInt64Field(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   int64
		wantOK bool
	}{
		{name: "integer number", value: 42, want: 42, wantOK: true},
		{name: "negative number", value: -3, want: -3, wantOK: true},
		{name: "decimal string", value: "17", want: 17, wantOK: true},
		{name: "padded string", value: " 5 ", want: 5, wantOK: true},
		{name: "fractional number", value: 1.5, wantOK: false},
		{name: "non-numeric string", value: "abc", wantOK: false},
		{name: "bool", value: true, wantOK: false},
		{name: "too large", value: 1e19, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := structpb.NewStruct(map[string]any{"post_id": tt.value})
			if err != nil {
				t.Fatalf("NewStruct() error = %v", err)
			}

			got, ok := int64Field(req, "post_id")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("int64Field() = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("absent", func(t *testing.T) {
		if _, ok := int64Field(&structpb.Struct{}, "post_id"); ok {
			t.Error("absent field should not be ok")
		}
	})
}

func TestStringField(t *testing.T) {
	req, err := structpb.NewStruct(map[string]any{
		"title": "Hello",
		"count": 3,
	})
	if err != nil {
		t.Fatalf("NewStruct() error = %v", err)
	}

	if got := stringField(req, "title"); got != "Hello" {
		t.Errorf("stringField(title) = %q, want Hello", got)
	}
	if got := stringField(req, "count"); got != "" {
		t.Errorf("stringField(count) = %q, want empty", got)
	}
	if got := stringField(req, "missing"); got != "" {
		t.Errorf("stringField(missing) = %q, want empty", got)
	}
	if got := stringField(nil, "title"); got != "" {
		t.Errorf("stringField(nil) = %q, want empty", got)
	}
}
