package usecase

import (
	"context"
	"time"

	"github.com/iho/peerledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []int64) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id int64, balance int64) error
	Delete(ctx context.Context, tx Transaction, id int64) error
	List(ctx context.Context) ([]*domain.Account, error)
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.Transaction, error)
	Resolve(ctx context.Context, tx Transaction, id int64, timestamp time.Time, accepted bool) error
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.Transaction, error)
	DeleteByAccount(ctx context.Context, tx Transaction, accountID int64) error
}

// PostRepository defines data access for board posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context, sort domain.PostSort) ([]*domain.Post, error)
	AddUpvotes(ctx context.Context, id, delta int64) (*domain.Post, error)
	Delete(ctx context.Context, tx Transaction, id int64) error
}

// CommentRepository defines data access for board comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, postID, commentID int64) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error)
	UpdateText(ctx context.Context, postID, commentID int64, text string) (*domain.Comment, error)
	DeleteByPost(ctx context.Context, tx Transaction, postID int64) error
}

// CourseRepository defines data access for courses and enrollments.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id int64) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Delete(ctx context.Context, tx Transaction, id int64) error
	AddEnrollment(ctx context.Context, courseID, userID int64, role domain.EnrollmentType) error
	ListUsers(ctx context.Context, courseID int64, role domain.EnrollmentType) ([]*domain.CourseUser, error)
	DeleteEnrollmentsByCourse(ctx context.Context, tx Transaction, courseID int64) error
}

// AssignmentRepository defines data access for course assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	ListByCourse(ctx context.Context, courseID int64) ([]*domain.Assignment, error)
	DeleteByCourse(ctx context.Context, tx Transaction, courseID int64) error
}

// CourseUserRepository defines data access for course-management users.
type CourseUserRepository interface {
	Create(ctx context.Context, user *domain.CourseUser) error
	GetByID(ctx context.Context, id int64) (*domain.CourseUser, error)
	ListCoursesByUser(ctx context.Context, userID int64) ([]*domain.Course, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	ListByResource(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retryer retries an operation that failed transiently.
type Retryer interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs for audit records.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
