package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
)

// MockTx is a no-op usecase.Transaction that records its outcome.
type MockTx struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTx) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTx) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTxManager hands out MockTx transactions.
type MockTxManager struct {
	mu        sync.Mutex
	Started   []*MockTx
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTx{}
	m.Started = append(m.Started, tx)
	return tx, nil
}

// MockIDGenerator generates sequential test IDs.
type MockIDGenerator struct {
	mu           sync.Mutex
	next         int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("test-id-%d", m.next)
}

// MockAccountRepository is an in-memory mock of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id int64) (*domain.Account, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id int64, balance int64) error
	DeleteFunc            func(ctx context.Context, tx usecase.Transaction, id int64) error
	ListFunc              func(ctx context.Context) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[int64]*domain.Account),
	}
}

// Seed inserts an account directly, assigning an ID if missing.
func (m *MockAccountRepository) Seed(account *domain.Account) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account.ID == 0 {
		m.nextID++
		account.ID = m.nextID
	} else if account.ID > m.nextID {
		m.nextID = account.ID
	}
	m.accounts[account.ID] = account
	return account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.Seed(account)
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if a, ok := m.accounts[id]; ok {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id int64, balance int64) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Balance = balance
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// MockTransactionRepository is an in-memory mock of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	nextID       int64
	transactions map[int64]*domain.Transaction

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc          func(ctx context.Context, id int64) (*domain.Transaction, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Transaction, error)
	ResolveFunc          func(ctx context.Context, tx usecase.Transaction, id int64, timestamp time.Time, accepted bool) error
	ListByAccountFunc    func(ctx context.Context, accountID int64) ([]*domain.Transaction, error)
	DeleteByAccountFunc  func(ctx context.Context, tx usecase.Transaction, accountID int64) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[int64]*domain.Transaction),
	}
}

// Seed inserts a transaction directly, assigning an ID if missing.
func (m *MockTransactionRepository) Seed(txn *domain.Transaction) *domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if txn.ID == 0 {
		m.nextID++
		txn.ID = m.nextID
	} else if txn.ID > m.nextID {
		m.nextID = txn.ID
	}
	m.transactions[txn.ID] = txn
	return txn
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.Seed(txn)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) Resolve(ctx context.Context, tx usecase.Transaction, id int64, timestamp time.Time, accepted bool) error {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, tx, id, timestamp, accepted)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn.Timestamp = timestamp
	txn.Accepted = &accepted
	return nil
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.SenderID == accountID || txn.ReceiverID == accountID {
			txns = append(txns, txn)
		}
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].ID < txns[j].ID })
	return txns, nil
}

func (m *MockTransactionRepository) DeleteByAccount(ctx context.Context, tx usecase.Transaction, accountID int64) error {
	if m.DeleteByAccountFunc != nil {
		return m.DeleteByAccountFunc(ctx, tx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, txn := range m.transactions {
		if txn.SenderID == accountID || txn.ReceiverID == accountID {
			delete(m.transactions, id)
		}
	}
	return nil
}

// MockPostRepository is an in-memory mock of PostRepository.
type MockPostRepository struct {
	mu     sync.RWMutex
	nextID int64
	posts  map[int64]*domain.Post

	CreateFunc     func(ctx context.Context, post *domain.Post) error
	GetByIDFunc    func(ctx context.Context, id int64) (*domain.Post, error)
	ListFunc       func(ctx context.Context, sort domain.PostSort) ([]*domain.Post, error)
	AddUpvotesFunc func(ctx context.Context, id, delta int64) (*domain.Post, error)
	DeleteFunc     func(ctx context.Context, tx usecase.Transaction, id int64) error
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{posts: make(map[int64]*domain.Post)}
}

func (m *MockPostRepository) Seed(post *domain.Post) *domain.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	if post.ID == 0 {
		m.nextID++
		post.ID = m.nextID
	} else if post.ID > m.nextID {
		m.nextID = post.ID
	}
	m.posts[post.ID] = post
	return post
}

func (m *MockPostRepository) Create(ctx context.Context, post *domain.Post) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, post)
	}
	m.Seed(post)
	return nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.posts[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPostNotFound
}

func (m *MockPostRepository) List(ctx context.Context, sortOrder domain.PostSort) ([]*domain.Post, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, sortOrder)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	posts := make([]*domain.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		switch sortOrder {
		case domain.PostSortIncreasing:
			return posts[i].Upvotes < posts[j].Upvotes
		case domain.PostSortDecreasing:
			return posts[i].Upvotes > posts[j].Upvotes
		default:
			return posts[i].ID < posts[j].ID
		}
	})
	return posts, nil
}

func (m *MockPostRepository) AddUpvotes(ctx context.Context, id, delta int64) (*domain.Post, error) {
	if m.AddUpvotesFunc != nil {
		return m.AddUpvotesFunc(ctx, id, delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	p.Upvotes += delta
	return p, nil
}

func (m *MockPostRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

// MockCommentRepository is an in-memory mock of CommentRepository.
type MockCommentRepository struct {
	mu       sync.RWMutex
	nextID   int64
	comments map[int64]*domain.Comment

	CreateFunc       func(ctx context.Context, comment *domain.Comment) error
	GetByIDFunc      func(ctx context.Context, postID, commentID int64) (*domain.Comment, error)
	ListByPostFunc   func(ctx context.Context, postID int64) ([]*domain.Comment, error)
	UpdateTextFunc   func(ctx context.Context, postID, commentID int64, text string) (*domain.Comment, error)
	DeleteByPostFunc func(ctx context.Context, tx usecase.Transaction, postID int64) error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{comments: make(map[int64]*domain.Comment)}
}

func (m *MockCommentRepository) Seed(comment *domain.Comment) *domain.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if comment.ID == 0 {
		m.nextID++
		comment.ID = m.nextID
	} else if comment.ID > m.nextID {
		m.nextID = comment.ID
	}
	m.comments[comment.ID] = comment
	return comment
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	m.Seed(comment)
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, postID, commentID int64) (*domain.Comment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, postID, commentID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.comments[commentID]; ok && c.PostID == postID {
		return c, nil
	}
	return nil, domain.ErrCommentNotFound
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	if m.ListByPostFunc != nil {
		return m.ListByPostFunc(ctx, postID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var comments []*domain.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *MockCommentRepository) UpdateText(ctx context.Context, postID, commentID int64, text string) (*domain.Comment, error) {
	if m.UpdateTextFunc != nil {
		return m.UpdateTextFunc(ctx, postID, commentID, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[commentID]
	if !ok || c.PostID != postID {
		return nil, domain.ErrCommentNotFound
	}
	c.Text = text
	return c, nil
}

func (m *MockCommentRepository) DeleteByPost(ctx context.Context, tx usecase.Transaction, postID int64) error {
	if m.DeleteByPostFunc != nil {
		return m.DeleteByPostFunc(ctx, tx, postID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.comments {
		if c.PostID == postID {
			delete(m.comments, id)
		}
	}
	return nil
}

type enrollment struct {
	courseID int64
	userID   int64
	role     domain.EnrollmentType
}

// MockCourseRepository is an in-memory mock of CourseRepository.
type MockCourseRepository struct {
	mu          sync.RWMutex
	nextID      int64
	courses     map[int64]*domain.Course
	enrollments []enrollment

	// Users resolves enrollment user IDs for the default ListUsers.
	Users *MockCourseUserRepository

	CreateFunc func(ctx context.Context, course *domain.Course) error
}

func NewMockCourseRepository(users *MockCourseUserRepository) *MockCourseRepository {
	return &MockCourseRepository{
		courses: make(map[int64]*domain.Course),
		Users:   users,
	}
}

func (m *MockCourseRepository) Seed(course *domain.Course) *domain.Course {
	m.mu.Lock()
	defer m.mu.Unlock()
	if course.ID == 0 {
		m.nextID++
		course.ID = m.nextID
	} else if course.ID > m.nextID {
		m.nextID = course.ID
	}
	m.courses[course.ID] = course
	return course
}

func (m *MockCourseRepository) Create(ctx context.Context, course *domain.Course) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, course)
	}
	m.Seed(course)
	return nil
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCourseNotFound
}

func (m *MockCourseRepository) List(ctx context.Context) ([]*domain.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	courses := make([]*domain.Course, 0, len(m.courses))
	for _, c := range m.courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (m *MockCourseRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.courses, id)
	return nil
}

func (m *MockCourseRepository) AddEnrollment(ctx context.Context, courseID, userID int64, role domain.EnrollmentType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollments = append(m.enrollments, enrollment{courseID: courseID, userID: userID, role: role})
	return nil
}

func (m *MockCourseRepository) ListUsers(ctx context.Context, courseID int64, role domain.EnrollmentType) ([]*domain.CourseUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := []*domain.CourseUser{}
	for _, e := range m.enrollments {
		if e.courseID != courseID || e.role != role {
			continue
		}
		if u, err := m.Users.GetByID(ctx, e.userID); err == nil {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *MockCourseRepository) DeleteEnrollmentsByCourse(ctx context.Context, tx usecase.Transaction, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.enrollments[:0]
	for _, e := range m.enrollments {
		if e.courseID != courseID {
			kept = append(kept, e)
		}
	}
	m.enrollments = kept
	return nil
}

// MockAssignmentRepository is an in-memory mock of AssignmentRepository.
type MockAssignmentRepository struct {
	mu          sync.RWMutex
	nextID      int64
	assignments map[int64]*domain.Assignment
}

func NewMockAssignmentRepository() *MockAssignmentRepository {
	return &MockAssignmentRepository{assignments: make(map[int64]*domain.Assignment)}
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if assignment.ID == 0 {
		m.nextID++
		assignment.ID = m.nextID
	}
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *MockAssignmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*domain.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	assignments := []*domain.Assignment{}
	for _, a := range m.assignments {
		if a.CourseID == courseID {
			assignments = append(assignments, a)
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].ID < assignments[j].ID })
	return assignments, nil
}

func (m *MockAssignmentRepository) DeleteByCourse(ctx context.Context, tx usecase.Transaction, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.assignments {
		if a.CourseID == courseID {
			delete(m.assignments, id)
		}
	}
	return nil
}

// MockCourseUserRepository is an in-memory mock of CourseUserRepository.
type MockCourseUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*domain.CourseUser

	ListCoursesByUserFunc func(ctx context.Context, userID int64) ([]*domain.Course, error)
}

func NewMockCourseUserRepository() *MockCourseUserRepository {
	return &MockCourseUserRepository{users: make(map[int64]*domain.CourseUser)}
}

func (m *MockCourseUserRepository) Seed(user *domain.CourseUser) *domain.CourseUser {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
	} else if user.ID > m.nextID {
		m.nextID = user.ID
	}
	m.users[user.ID] = user
	return user
}

func (m *MockCourseUserRepository) Create(ctx context.Context, user *domain.CourseUser) error {
	m.Seed(user)
	return nil
}

func (m *MockCourseUserRepository) GetByID(ctx context.Context, id int64) (*domain.CourseUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrCourseUserNotFound
}

func (m *MockCourseUserRepository) ListCoursesByUser(ctx context.Context, userID int64) ([]*domain.Course, error) {
	if m.ListCoursesByUserFunc != nil {
		return m.ListCoursesByUserFunc(ctx, userID)
	}
	return []*domain.Course{}, nil
}

// MockAuditRepository records audit logs in memory.
type MockAuditRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) ListByResource(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var logs []*domain.AuditLog
	for _, log := range m.Logs {
		if log.ResourceType == resourceType && log.ResourceID == resourceID {
			logs = append(logs, log)
		}
	}
	return logs, nil
}
