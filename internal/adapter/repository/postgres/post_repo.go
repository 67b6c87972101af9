package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
)

// PostRepository implements usecase.PostRepository.
type PostRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

// Create inserts a new post. The store assigns the ID.
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (upvotes, title, link, username)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query,
		post.Upvotes,
		post.Title,
		post.Link,
		post.Username,
	).Scan(&post.ID)
}

// GetByID retrieves a post by ID.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `
		SELECT id, upvotes, title, link, username
		FROM posts
		WHERE id = $1
	`

	var post domain.Post
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.Upvotes,
		&post.Title,
		&post.Link,
		&post.Username,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// List retrieves all posts, optionally ordered by upvotes. The default
// order is insertion order.
func (r *PostRepository) List(ctx context.Context, sort domain.PostSort) ([]*domain.Post, error) {
	query := `
		SELECT id, upvotes, title, link, username
		FROM posts
	`

	switch sort {
	case domain.PostSortIncreasing:
		query += ` ORDER BY upvotes ASC, id`
	case domain.PostSortDecreasing:
		query += ` ORDER BY upvotes DESC, id`
	default:
		query += ` ORDER BY id`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		var post domain.Post
		err := rows.Scan(
			&post.ID,
			&post.Upvotes,
			&post.Title,
			&post.Link,
			&post.Username,
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}

	return posts, rows.Err()
}

// AddUpvotes increments a post's upvotes and returns the updated post.
func (r *PostRepository) AddUpvotes(ctx context.Context, id, delta int64) (*domain.Post, error) {
	query := `
		UPDATE posts
		SET upvotes = upvotes + $2
		WHERE id = $1
		RETURNING id, upvotes, title, link, username
	`

	var post domain.Post
	err := r.pool.QueryRow(ctx, query, id, delta).Scan(
		&post.ID,
		&post.Upvotes,
		&post.Title,
		&post.Link,
		&post.Username,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// Delete deletes a post.
func (r *PostRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := tx.(*Tx).PgxTx().Exec(ctx, query, id)
	return err
}
