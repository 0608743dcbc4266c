package grpc

import (
	"math"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/0xsj/overwatch-blog/internal/domain/model"
)

// Post mappers

func toPostValue(post *model.Post) map[string]any {
	if post == nil {
		return nil
	}

	return map[string]any{
		"id":         post.ID(),
		"title":      post.Title(),
		"content":    post.Content(),
		"created_at": post.CreatedAt().Time().UTC().Format(time.RFC3339Nano),
	}
}

func toPostValues(posts []*model.Post) []any {
	result := make([]any, len(posts))
	for i, p := range posts {
		result[i] = toPostValue(p)
	}
	return result
}

// Session mappers

func toSessionValue(session *model.Session) map[string]any {
	if session == nil {
		return nil
	}

	return map[string]any{
		"subject_id": session.SubjectID(),
		"claims":     session.Claims(),
		"issued_at":  session.IssuedAt().Time().UTC().Format(time.RFC3339Nano),
	}
}

// Request field helpers

// stringField returns the string at name, or "" when absent or not a string.
func stringField(req *structpb.Struct, name string) string {
	v, ok := req.GetFields()[name]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

// int64Field reads an integer id sent either as a JSON number or as a
// decimal string. ok is false when the field is absent or not an integer.
func int64Field(req *structpb.Struct, name string) (int64, bool) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, false
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(strings.TrimSpace(kind.StringValue), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
