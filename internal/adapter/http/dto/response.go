package dto

import (
	"time"

	"github.com/iho/peerledger/internal/domain"
)

// AccountResponse is the full account view. The password hash is never
// serialized.
type AccountResponse struct {
	ID           int64                  `json:"id"`
	Name         string                 `json:"name"`
	Username     string                 `json:"username"`
	Balance      int64                  `json:"balance"`
	Transactions []*TransactionResponse `json:"transactions"`
}

// AccountFromDomain converts a domain account.
func AccountFromDomain(account *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:           account.ID,
		Name:         account.Name,
		Username:     account.Username,
		Balance:      account.Balance,
		Transactions: TransactionsFromDomain(account.Transactions),
	}
}

// AccountSummary is the listing view: no balance, no transactions.
type AccountSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// ListAccountsResponse wraps the account listing.
type ListAccountsResponse struct {
	Users []*AccountSummary `json:"users"`
}

// AccountSummariesFromDomain converts domain accounts to summaries.
func AccountSummariesFromDomain(accounts []*domain.Account) []*AccountSummary {
	summaries := make([]*AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, &AccountSummary{
			ID:       account.ID,
			Name:     account.Name,
			Username: account.Username,
		})
	}
	return summaries
}

// TransactionResponse is the transaction view. Accepted serializes as
// null while the transaction is pending.
type TransactionResponse struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Amount     int64     `json:"amount"`
	Message    string    `json:"message"`
	Accepted   *bool     `json:"accepted"`
}

// TransactionFromDomain converts a domain transaction.
func TransactionFromDomain(txn *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:         txn.ID,
		Timestamp:  txn.Timestamp,
		SenderID:   txn.SenderID,
		ReceiverID: txn.ReceiverID,
		Amount:     txn.Amount,
		Message:    txn.Message,
		Accepted:   txn.Accepted,
	}
}

// TransactionsFromDomain converts a slice of domain transactions.
// A nil slice converts to an empty list.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	out := make([]*TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, TransactionFromDomain(txn))
	}
	return out
}

// AuditLogResponse is the audit trail entry view.
type AuditLogResponse struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuditTrailFromDomain converts domain audit log entries. A nil slice
// converts to an empty list.
func AuditTrailFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	out := make([]*AuditLogResponse, 0, len(logs))
	for _, log := range logs {
		out = append(out, &AuditLogResponse{
			ID:        log.ID,
			Action:    log.Action,
			Detail:    log.Detail,
			CreatedAt: log.CreatedAt,
		})
	}
	return out
}

// PostResponse is the post view.
type PostResponse struct {
	ID       int64  `json:"id"`
	Upvotes  int64  `json:"upvotes"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Username string `json:"username"`
}

// PostFromDomain converts a domain post.
func PostFromDomain(post *domain.Post) *PostResponse {
	return &PostResponse{
		ID:       post.ID,
		Upvotes:  post.Upvotes,
		Title:    post.Title,
		Link:     post.Link,
		Username: post.Username,
	}
}

// PostsFromDomain converts a slice of domain posts.
func PostsFromDomain(posts []*domain.Post) []*PostResponse {
	out := make([]*PostResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, PostFromDomain(post))
	}
	return out
}

// ListPostsResponse wraps the post listing.
type ListPostsResponse struct {
	Posts []*PostResponse `json:"posts"`
}

// CommentResponse is the comment view.
type CommentResponse struct {
	ID       int64  `json:"id"`
	PostID   int64  `json:"post_id"`
	Upvotes  int64  `json:"upvotes"`
	Text     string `json:"text"`
	Username string `json:"username"`
}

// CommentFromDomain converts a domain comment.
func CommentFromDomain(comment *domain.Comment) *CommentResponse {
	return &CommentResponse{
		ID:       comment.ID,
		PostID:   comment.PostID,
		Upvotes:  comment.Upvotes,
		Text:     comment.Text,
		Username: comment.Username,
	}
}

// ListCommentsResponse wraps a post's comment listing.
type ListCommentsResponse struct {
	Comments []*CommentResponse `json:"comments"`
}

// CommentsFromDomain converts a slice of domain comments.
func CommentsFromDomain(comments []*domain.Comment) []*CommentResponse {
	out := make([]*CommentResponse, 0, len(comments))
	for _, comment := range comments {
		out = append(out, CommentFromDomain(comment))
	}
	return out
}

// CourseResponse is the course view with assignments and enrollments.
// Nested objects omit back-references.
type CourseResponse struct {
	ID          int64                 `json:"id"`
	Code        string                `json:"code"`
	Name        string                `json:"name"`
	Assignments []*AssignmentResponse `json:"assignments"`
	Instructors []*CourseUserSummary  `json:"instructors"`
	Students    []*CourseUserSummary  `json:"students"`
}

// CourseFromDomain converts a domain course.
func CourseFromDomain(course *domain.Course) *CourseResponse {
	return &CourseResponse{
		ID:          course.ID,
		Code:        course.Code,
		Name:        course.Name,
		Assignments: AssignmentsFromDomain(course.Assignments),
		Instructors: CourseUserSummariesFromDomain(course.Instructors),
		Students:    CourseUserSummariesFromDomain(course.Students),
	}
}

// CoursesFromDomain converts a slice of domain courses.
func CoursesFromDomain(courses []*domain.Course) []*CourseResponse {
	out := make([]*CourseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, CourseFromDomain(course))
	}
	return out
}

// ListCoursesResponse wraps the course listing.
type ListCoursesResponse struct {
	Courses []*CourseResponse `json:"courses"`
}

// CourseSummary is the course view nested under a user.
type CourseSummary struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// AssignmentResponse is the assignment view.
type AssignmentResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	DueDate int64  `json:"due_date"`
}

// AssignmentsFromDomain converts a slice of domain assignments.
func AssignmentsFromDomain(assignments []*domain.Assignment) []*AssignmentResponse {
	out := make([]*AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		out = append(out, &AssignmentResponse{
			ID:      assignment.ID,
			Title:   assignment.Title,
			DueDate: assignment.DueDate,
		})
	}
	return out
}

// AssignmentDetailResponse is the standalone assignment view with its
// course attached as a summary.
type AssignmentDetailResponse struct {
	ID      int64          `json:"id"`
	Title   string         `json:"title"`
	DueDate int64          `json:"due_date"`
	Course  *CourseSummary `json:"course"`
}

// AssignmentDetailFromDomain converts an assignment and its course.
func AssignmentDetailFromDomain(assignment *domain.Assignment, course *domain.Course) *AssignmentDetailResponse {
	return &AssignmentDetailResponse{
		ID:      assignment.ID,
		Title:   assignment.Title,
		DueDate: assignment.DueDate,
		Course: &CourseSummary{
			ID:   course.ID,
			Code: course.Code,
			Name: course.Name,
		},
	}
}

// CourseUserSummary is the user view nested under a course.
type CourseUserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	NetID string `json:"netid"`
}

// CourseUserSummariesFromDomain converts nested course users.
func CourseUserSummariesFromDomain(users []*domain.CourseUser) []*CourseUserSummary {
	out := make([]*CourseUserSummary, 0, len(users))
	for _, user := range users {
		out = append(out, &CourseUserSummary{
			ID:    user.ID,
			Name:  user.Name,
			NetID: user.NetID,
		})
	}
	return out
}

// CourseUserResponse is the full user view with enrolled courses.
type CourseUserResponse struct {
	ID      int64            `json:"id"`
	Name    string           `json:"name"`
	NetID   string           `json:"netid"`
	Courses []*CourseSummary `json:"courses"`
}

// CourseUserFromDomain converts a domain course user.
func CourseUserFromDomain(user *domain.CourseUser) *CourseUserResponse {
	courses := make([]*CourseSummary, 0, len(user.Courses))
	for _, course := range user.Courses {
		courses = append(courses, &CourseSummary{
			ID:   course.ID,
			Code: course.Code,
			Name: course.Name,
		})
	}
	return &CourseUserResponse{
		ID:      user.ID,
		Name:    user.Name,
		NetID:   user.NetID,
		Courses: courses,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
