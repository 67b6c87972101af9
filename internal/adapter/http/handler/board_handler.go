package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/iho/peerledger/internal/adapter/http/dto"
	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
)

// BoardService defines the behavior needed by BoardHandler.
type BoardService interface {
	CreatePost(ctx context.Context, input usecase.CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	ListPosts(ctx context.Context, sort domain.PostSort) ([]*domain.Post, error)
	DeletePost(ctx context.Context, id int64) (*domain.Post, error)
	UpvotePost(ctx context.Context, id, delta int64) (*domain.Post, error)
	ListComments(ctx context.Context, postID int64) ([]*domain.Comment, error)
	CreateComment(ctx context.Context, postID int64, input usecase.CreateCommentInput) (*domain.Comment, error)
	EditComment(ctx context.Context, postID, commentID int64, text string) (*domain.Comment, error)
}

// BoardHandler handles post and comment HTTP requests.
type BoardHandler struct {
	boardUC BoardService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boardUC BoardService) *BoardHandler {
	return &BoardHandler{boardUC: boardUC}
}

// CreatePost creates a post.
func (h *BoardHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	post, err := h.boardUC.CreatePost(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PostFromDomain(post))
}

// ListPosts lists posts, optionally sorted by upvotes via ?sort=.
func (h *BoardHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	sort := domain.PostSort(r.URL.Query().Get("sort"))
	if !sort.Valid() {
		writeError(w, http.StatusBadRequest, "invalid sort order")
		return
	}

	posts, err := h.boardUC.ListPosts(r.Context(), sort)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPostsResponse{Posts: dto.PostsFromDomain(posts)})
}

// GetPost retrieves a post by ID.
func (h *BoardHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.boardUC.GetPost(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostFromDomain(post))
}

// DeletePost removes a post and its comments, returning the deleted view.
func (h *BoardHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.boardUC.DeletePost(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostFromDomain(post))
}

// UpvotePost increments a post's upvotes.
func (h *BoardHandler) UpvotePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	// An empty body means a single upvote.
	var req dto.UpvotePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.boardUC.UpvotePost(r.Context(), id, req.Delta())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostFromDomain(post))
}

// ListComments lists a post's comments.
func (h *BoardHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	comments, err := h.boardUC.ListComments(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCommentsResponse{Comments: dto.CommentsFromDomain(comments)})
}

// CreateComment adds a comment to a post.
func (h *BoardHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req dto.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	comment, err := h.boardUC.CreateComment(r.Context(), id, usecase.CreateCommentInput{
		Text:     *req.Text,
		Username: *req.Username,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CommentFromDomain(comment))
}

// EditComment replaces a comment's text.
func (h *BoardHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	commentID, err := parseID(r, "cid")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req dto.EditCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	comment, err := h.boardUC.EditComment(r.Context(), id, commentID, *req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CommentFromDomain(comment))
}
