package usecase

import (
	"context"

	"github.com/iho/peerledger/internal/domain"
)

// CourseUseCase handles course-management business logic.
type CourseUseCase struct {
	txManager      TransactionManager
	courseRepo     CourseRepository
	assignmentRepo AssignmentRepository
	userRepo       CourseUserRepository
}

// NewCourseUseCase creates a new CourseUseCase.
func NewCourseUseCase(
	txManager TransactionManager,
	courseRepo CourseRepository,
	assignmentRepo AssignmentRepository,
	userRepo CourseUserRepository,
) *CourseUseCase {
	return &CourseUseCase{
		txManager:      txManager,
		courseRepo:     courseRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
	}
}

// CreateCourseInput represents input for creating a course.
type CreateCourseInput struct {
	Code string
	Name string
}

// CreateCourse creates a course with no assignments or enrollments.
func (uc *CourseUseCase) CreateCourse(ctx context.Context, input CreateCourseInput) (*domain.Course, error) {
	course := &domain.Course{
		Code: input.Code,
		Name: input.Name,
	}

	if err := uc.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	course.Assignments = []*domain.Assignment{}
	course.Instructors = []*domain.CourseUser{}
	course.Students = []*domain.CourseUser{}

	return course, nil
}

// GetCourse retrieves a course with its assignments and enrolled users.
func (uc *CourseUseCase) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	course, err := uc.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return uc.attachDetail(ctx, course)
}

// ListCourses lists all courses with their assignments and enrollments.
func (uc *CourseUseCase) ListCourses(ctx context.Context) ([]*domain.Course, error) {
	courses, err := uc.courseRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, course := range courses {
		if _, err := uc.attachDetail(ctx, course); err != nil {
			return nil, err
		}
	}

	return courses, nil
}

// DeleteCourse removes a course and cascades deletion of its assignments
// and enrollment rows.
func (uc *CourseUseCase) DeleteCourse(ctx context.Context, id int64) (*domain.Course, error) {
	course, err := uc.GetCourse(ctx, id)
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

	if err := uc.assignmentRepo.DeleteByCourse(txCtx, tx, id); err != nil {
		return nil, err
	}

	if err := uc.courseRepo.DeleteEnrollmentsByCourse(txCtx, tx, id); err != nil {
		return nil, err
	}

	if err := uc.courseRepo.Delete(txCtx, tx, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return course, nil
}

// CreateUserInput represents input for creating a course-management user.
type CreateUserInput struct {
	Name  string
	NetID string
}

// CreateUser creates a course-management user.
func (uc *CourseUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.CourseUser, error) {
	user := &domain.CourseUser{
		Name:  input.Name,
		NetID: input.NetID,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.Courses = []*domain.Course{}

	return user, nil
}

// GetUser retrieves a user with the courses they are enrolled in.
func (uc *CourseUseCase) GetUser(ctx context.Context, id int64) (*domain.CourseUser, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	courses, err := uc.userRepo.ListCoursesByUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Courses = courses

	return user, nil
}

// AddUserInput represents input for enrolling a user in a course.
type AddUserInput struct {
	UserID int64
	Type   domain.EnrollmentType
}

// AddUserToCourse enrolls an existing user in an existing course as a
// student or instructor and returns the updated course.
func (uc *CourseUseCase) AddUserToCourse(ctx context.Context, courseID int64, input AddUserInput) (*domain.Course, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidEnrollment
	}

	if _, err := uc.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	if err := uc.courseRepo.AddEnrollment(ctx, courseID, input.UserID, input.Type); err != nil {
		return nil, err
	}

	return uc.GetCourse(ctx, courseID)
}

// CreateAssignmentInput represents input for creating an assignment.
type CreateAssignmentInput struct {
	Title   string
	DueDate int64
}

// CreateAssignment adds an assignment to an existing course.
func (uc *CourseUseCase) CreateAssignment(ctx context.Context, courseID int64, input CreateAssignmentInput) (*domain.Assignment, *domain.Course, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}

	assignment := &domain.Assignment{
		CourseID: courseID,
		Title:    input.Title,
		DueDate:  input.DueDate,
	}

	if err := uc.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, nil, err
	}

	return assignment, course, nil
}

func (uc *CourseUseCase) attachDetail(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	assignments, err := uc.assignmentRepo.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	instructors, err := uc.courseRepo.ListUsers(ctx, course.ID, domain.EnrollInstructor)
	if err != nil {
		return nil, err
	}

	students, err := uc.courseRepo.ListUsers(ctx, course.ID, domain.EnrollStudent)
	if err != nil {
		return nil, err
	}

	course.Assignments = assignments
	course.Instructors = instructors
	course.Students = students

	return course, nil
}
