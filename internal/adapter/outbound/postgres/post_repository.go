package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/0xsj/overwatch-blog/internal/domain/model"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/repository"
)

const (
	postColumns = `id, title, content, created_at`

	findAllPostsQuery = `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`

	findPostByIDQuery = `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	findPostsByIDsQuery = `SELECT ` + postColumns + ` FROM posts WHERE id = ANY($1) ORDER BY id`

	createPostQuery = `
INSERT INTO posts (title, content, created_at)
VALUES ($1, $2, COALESCE($3, NOW()))
RETURNING id`

	updatePostQuery = `UPDATE posts SET title = $2, content = $3 WHERE id = $1`

	deletePostQuery = `DELETE FROM posts WHERE id = $1`
)

// postRepository implements repository.PostRepository.
type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(pool *pgxpool.Pool) repository.PostRepository {
	return &postRepository{
		pool: pool,
	}
}

func (r *postRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	return r.query(ctx, findAllPostsQuery)
}

func (r *postRepository) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	row, err := scanPostRow(r.pool.QueryRow(ctx, findPostByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return toPostModel(row), nil
}

func (r *postRepository) FindByIDs(ctx context.Context, ids []int64) ([]*model.Post, error) {
	if len(ids) == 0 {
		return []*model.Post{}, nil
	}
	return r.query(ctx, findPostsByIDsQuery, ids)
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, createPostQuery,
		post.Title(),
		post.Content(),
		timestampToPgTimestamptz(post.CreatedAt()),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *postRepository) Update(ctx context.Context, id int64, update repository.PostUpdate) (bool, error) {
	tag, err := r.pool.Exec(ctx, updatePostQuery, id, update.Title, update.Content)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, deletePostQuery, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postRepository) query(ctx context.Context, sql string, args ...any) ([]*model.Post, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		row, err := scanPostRow(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, toPostModel(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}
