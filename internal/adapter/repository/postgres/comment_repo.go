package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
)

// CommentRepository implements usecase.CommentRepository.
type CommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create inserts a new comment. The store assigns the ID.
func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (post_id, upvotes, body, username)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query,
		comment.PostID,
		comment.Upvotes,
		comment.Text,
		comment.Username,
	).Scan(&comment.ID)
}

// GetByID retrieves a comment scoped to its post.
func (r *CommentRepository) GetByID(ctx context.Context, postID, commentID int64) (*domain.Comment, error) {
	query := `
		SELECT id, post_id, upvotes, body, username
		FROM comments
		WHERE id = $1 AND post_id = $2
	`

	var comment domain.Comment
	err := r.pool.QueryRow(ctx, query, commentID, postID).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.Upvotes,
		&comment.Text,
		&comment.Username,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListByPost retrieves a post's comments ordered by id.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	query := `
		SELECT id, post_id, upvotes, body, username
		FROM comments
		WHERE post_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		var comment domain.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.Upvotes,
			&comment.Text,
			&comment.Username,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}

	return comments, rows.Err()
}

// UpdateText replaces a comment's body and returns the updated comment.
func (r *CommentRepository) UpdateText(ctx context.Context, postID, commentID int64, text string) (*domain.Comment, error) {
	query := `
		UPDATE comments
		SET body = $3
		WHERE id = $1 AND post_id = $2
		RETURNING id, post_id, upvotes, body, username
	`

	var comment domain.Comment
	err := r.pool.QueryRow(ctx, query, commentID, postID, text).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.Upvotes,
		&comment.Text,
		&comment.Username,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// DeleteByPost deletes every comment of a post.
func (r *CommentRepository) DeleteByPost(ctx context.Context, tx usecase.Transaction, postID int64) error {
	query := `DELETE FROM comments WHERE post_id = $1`
	_, err := tx.(*Tx).PgxTx().Exec(ctx, query, postID)
	return err
}
