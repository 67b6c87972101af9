package usecase

import (
	"context"

	"github.com/iho/peerledger/internal/domain"
)

// BoardUseCase handles post and comment business logic.
type BoardUseCase struct {
	txManager   TransactionManager
	postRepo    PostRepository
	commentRepo CommentRepository
}

// NewBoardUseCase creates a new BoardUseCase.
func NewBoardUseCase(txManager TransactionManager, postRepo PostRepository, commentRepo CommentRepository) *BoardUseCase {
	return &BoardUseCase{
		txManager:   txManager,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// CreatePostInput represents input for creating a post.
type CreatePostInput struct {
	Title    string
	Link     string
	Username string
}

// CreatePost creates a post with one initial upvote.
func (uc *BoardUseCase) CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	post := &domain.Post{
		Upvotes:  1,
		Title:    input.Title,
		Link:     input.Link,
		Username: input.Username,
	}

	if err := uc.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// GetPost retrieves a post by ID.
func (uc *BoardUseCase) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	return uc.postRepo.GetByID(ctx, id)
}

// ListPosts lists posts, optionally ordered by upvotes.
func (uc *BoardUseCase) ListPosts(ctx context.Context, sort domain.PostSort) ([]*domain.Post, error) {
	return uc.postRepo.List(ctx, sort)
}

// DeletePost removes a post and cascades deletion of its comments.
func (uc *BoardUseCase) DeletePost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.commentRepo.DeleteByPost(txCtx, tx, id); err != nil {
		return nil, err
	}

	if err := uc.postRepo.Delete(txCtx, tx, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return post, nil
}

// UpvotePost increments a post's upvotes by delta.
func (uc *BoardUseCase) UpvotePost(ctx context.Context, id, delta int64) (*domain.Post, error) {
	return uc.postRepo.AddUpvotes(ctx, id, delta)
}

// ListComments lists the comments of an existing post.
func (uc *BoardUseCase) ListComments(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	if _, err := uc.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	return uc.commentRepo.ListByPost(ctx, postID)
}

// CreateCommentInput represents input for creating a comment.
type CreateCommentInput struct {
	Text     string
	Username string
}

// CreateComment adds a comment to an existing post.
func (uc *BoardUseCase) CreateComment(ctx context.Context, postID int64, input CreateCommentInput) (*domain.Comment, error) {
	if _, err := uc.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:   postID,
		Upvotes:  1,
		Text:     input.Text,
		Username: input.Username,
	}

	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// EditComment replaces the text of an existing comment.
func (uc *BoardUseCase) EditComment(ctx context.Context, postID, commentID int64, text string) (*domain.Comment, error) {
	if _, err := uc.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	return uc.commentRepo.UpdateText(ctx, postID, commentID, text)
}
