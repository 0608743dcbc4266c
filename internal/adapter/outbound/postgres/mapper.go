package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-blog/internal/domain/model"
)

// postRow mirrors a row of the posts table.
type postRow struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt pgtype.Timestamptz
}

func scanPostRow(row pgx.Row) (postRow, error) {
	var r postRow
	err := row.Scan(&r.ID, &r.Title, &r.Content, &r.CreatedAt)
	return r, err
}

func toPostModel(r postRow) *model.Post {
	return model.ReconstructPost(
		r.ID,
		r.Title,
		r.Content,
		timestamptzToTimestamp(r.CreatedAt),
	)
}

// pgtype helpers

func timestamptzToTimestamp(t pgtype.Timestamptz) types.Timestamp {
	if t.Valid {
		return types.FromTime(t.Time)
	}
	return types.Timestamp{}
}

func timestampToPgTimestamptz(t types.Timestamp) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t.Time(), Valid: true}
}
