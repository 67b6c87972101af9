package dto

import (
	"fmt"

	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
)

// Request bodies use pointer fields so a missing field is distinguishable
// from a zero value. Validate reports the first missing field.

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Balance  *int64  `json:"balance"`
	Password *string `json:"password"`
}

// Validate checks required fields.
func (r *CreateAccountRequest) Validate() error {
	if r.Name == nil {
		return fmt.Errorf("%w: name", domain.ErrMissingField)
	}
	if r.Username == nil {
		return fmt.Errorf("%w: username", domain.ErrMissingField)
	}
	if r.Password != nil && *r.Password == "" {
		return domain.ErrEmptyPassword
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	input := usecase.CreateAccountInput{
		Name:     *r.Name,
		Username: *r.Username,
	}
	if r.Balance != nil {
		input.Balance = *r.Balance
	}
	if r.Password != nil {
		input.Password = *r.Password
	}
	return input
}

// CreateTransactionRequest represents a request to create a transaction.
// A nil Accepted creates the transaction pending.
type CreateTransactionRequest struct {
	SenderID   *int64  `json:"sender_id"`
	ReceiverID *int64  `json:"receiver_id"`
	Amount     *int64  `json:"amount"`
	Message    *string `json:"message"`
	Accepted   *bool   `json:"accepted"`
}

// Validate checks required fields.
func (r *CreateTransactionRequest) Validate() error {
	if r.SenderID == nil {
		return fmt.Errorf("%w: sender_id", domain.ErrMissingField)
	}
	if r.ReceiverID == nil {
		return fmt.Errorf("%w: receiver_id", domain.ErrMissingField)
	}
	if r.Amount == nil {
		return fmt.Errorf("%w: amount", domain.ErrMissingField)
	}
	if r.Message == nil {
		return fmt.Errorf("%w: message", domain.ErrMissingField)
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		SenderID:   *r.SenderID,
		ReceiverID: *r.ReceiverID,
		Amount:     *r.Amount,
		Message:    *r.Message,
		Accepted:   r.Accepted,
	}
}

// ResolveTransactionRequest represents a request to resolve a pending
// transaction.
type ResolveTransactionRequest struct {
	Accepted *bool `json:"accepted"`
}

// Validate checks required fields.
func (r *ResolveTransactionRequest) Validate() error {
	if r.Accepted == nil {
		return fmt.Errorf("%w: accepted", domain.ErrMissingField)
	}
	return nil
}

// SendRequest represents a direct transfer request.
type SendRequest struct {
	SenderID   *int64  `json:"sender_id"`
	ReceiverID *int64  `json:"receiver_id"`
	Amount     *int64  `json:"amount"`
	Password   *string `json:"password"`
}

// Validate checks required fields.
func (r *SendRequest) Validate() error {
	if r.SenderID == nil {
		return fmt.Errorf("%w: sender_id", domain.ErrMissingField)
	}
	if r.ReceiverID == nil {
		return fmt.Errorf("%w: receiver_id", domain.ErrMissingField)
	}
	if r.Amount == nil {
		return fmt.Errorf("%w: amount", domain.ErrMissingField)
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *SendRequest) ToUseCaseInput() usecase.SendInput {
	return usecase.SendInput{
		SenderID:   *r.SenderID,
		ReceiverID: *r.ReceiverID,
		Amount:     *r.Amount,
		Password:   r.Password,
	}
}

// CreatePostRequest represents a request to create a post.
type CreatePostRequest struct {
	Title    *string `json:"title"`
	Link     *string `json:"link"`
	Username *string `json:"username"`
}

// Validate checks required fields.
func (r *CreatePostRequest) Validate() error {
	if r.Title == nil {
		return fmt.Errorf("%w: title", domain.ErrMissingField)
	}
	if r.Link == nil {
		return fmt.Errorf("%w: link", domain.ErrMissingField)
	}
	if r.Username == nil {
		return fmt.Errorf("%w: username", domain.ErrMissingField)
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *CreatePostRequest) ToUseCaseInput() usecase.CreatePostInput {
	return usecase.CreatePostInput{
		Title:    *r.Title,
		Link:     *r.Link,
		Username: *r.Username,
	}
}

// UpvotePostRequest represents an upvote increment. A missing amount
// increments by one.
type UpvotePostRequest struct {
	Amount *int64 `json:"amount"`
}

// Delta returns the increment to apply.
func (r *UpvotePostRequest) Delta() int64 {
	if r.Amount == nil {
		return 1
	}
	return *r.Amount
}

// CreateCommentRequest represents a request to comment on a post.
type CreateCommentRequest struct {
	Text     *string `json:"text"`
	Username *string `json:"username"`
}

// Validate checks required fields.
func (r *CreateCommentRequest) Validate() error {
	if r.Text == nil {
		return fmt.Errorf("%w: text", domain.ErrMissingField)
	}
	if r.Username == nil {
		return fmt.Errorf("%w: username", domain.ErrMissingField)
	}
	return nil
}

// EditCommentRequest represents a comment text replacement.
type EditCommentRequest struct {
	Text *string `json:"text"`
}

// Validate checks required fields.
func (r *EditCommentRequest) Validate() error {
	if r.Text == nil {
		return fmt.Errorf("%w: text", domain.ErrMissingField)
	}
	return nil
}

// CreateCourseRequest represents a request to create a course.
type CreateCourseRequest struct {
	Code *string `json:"code"`
	Name *string `json:"name"`
}

// Validate checks required fields.
func (r *CreateCourseRequest) Validate() error {
	if r.Code == nil {
		return fmt.Errorf("%w: code", domain.ErrMissingField)
	}
	if r.Name == nil {
		return fmt.Errorf("%w: name", domain.ErrMissingField)
	}
	return nil
}

// AddCourseUserRequest represents an enrollment request.
type AddCourseUserRequest struct {
	UserID *int64  `json:"user_id"`
	Type   *string `json:"type"`
}

// Validate checks required fields.
func (r *AddCourseUserRequest) Validate() error {
	if r.UserID == nil {
		return fmt.Errorf("%w: user_id", domain.ErrMissingField)
	}
	if r.Type == nil {
		return fmt.Errorf("%w: type", domain.ErrMissingField)
	}
	return nil
}

// CreateAssignmentRequest represents a request to create an assignment.
type CreateAssignmentRequest struct {
	Title   *string `json:"title"`
	DueDate *int64  `json:"due_date"`
}

// Validate checks required fields.
func (r *CreateAssignmentRequest) Validate() error {
	if r.Title == nil {
		return fmt.Errorf("%w: title", domain.ErrMissingField)
	}
	if r.DueDate == nil {
		return fmt.Errorf("%w: due_date", domain.ErrMissingField)
	}
	return nil
}

// CreateCourseUserRequest represents a request to create a
// course-management user.
type CreateCourseUserRequest struct {
	Name  *string `json:"name"`
	NetID *string `json:"netid"`
}

// Validate checks required fields.
func (r *CreateCourseUserRequest) Validate() error {
	if r.Name == nil {
		return fmt.Errorf("%w: name", domain.ErrMissingField)
	}
	if r.NetID == nil {
		return fmt.Errorf("%w: netid", domain.ErrMissingField)
	}
	return nil
}
