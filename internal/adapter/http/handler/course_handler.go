package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/peerledger/internal/adapter/http/dto"
	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
)

// CourseService defines the behavior needed by CourseHandler.
type CourseService interface {
	CreateCourse(ctx context.Context, input usecase.CreateCourseInput) (*domain.Course, error)
	GetCourse(ctx context.Context, id int64) (*domain.Course, error)
	ListCourses(ctx context.Context) ([]*domain.Course, error)
	DeleteCourse(ctx context.Context, id int64) (*domain.Course, error)
	AddUserToCourse(ctx context.Context, courseID int64, input usecase.AddUserInput) (*domain.Course, error)
	CreateAssignment(ctx context.Context, courseID int64, input usecase.CreateAssignmentInput) (*domain.Assignment, *domain.Course, error)
	CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.CourseUser, error)
	GetUser(ctx context.Context, id int64) (*domain.CourseUser, error)
}

// CourseHandler handles course-management HTTP requests.
type CourseHandler struct {
	courseUC CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseUC CourseService) *CourseHandler {
	return &CourseHandler{courseUC: courseUC}
}

// CreateCourse creates a course.
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	course, err := h.courseUC.CreateCourse(r.Context(), usecase.CreateCourseInput{
		Code: *req.Code,
		Name: *req.Name,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CourseFromDomain(course))
}

// ListCourses lists courses with their assignments and enrollments.
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseUC.ListCourses(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCoursesResponse{Courses: dto.CoursesFromDomain(courses)})
}

// GetCourse retrieves a course by ID.
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	course, err := h.courseUC.GetCourse(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CourseFromDomain(course))
}

// DeleteCourse removes a course, its assignments and its enrollments.
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	course, err := h.courseUC.DeleteCourse(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CourseFromDomain(course))
}

// AddUser enrolls a user in a course as student or instructor.
func (h *CourseHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	var req dto.AddCourseUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	course, err := h.courseUC.AddUserToCourse(r.Context(), id, usecase.AddUserInput{
		UserID: *req.UserID,
		Type:   domain.EnrollmentType(*req.Type),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CourseFromDomain(course))
}

// CreateAssignment adds an assignment to a course.
func (h *CourseHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	var req dto.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	assignment, course, err := h.courseUC.CreateAssignment(r.Context(), id, usecase.CreateAssignmentInput{
		Title:   *req.Title,
		DueDate: *req.DueDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AssignmentDetailFromDomain(assignment, course))
}

// CreateUser creates a course-management user.
func (h *CourseHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCourseUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	user, err := h.courseUC.CreateUser(r.Context(), usecase.CreateUserInput{
		Name:  *req.Name,
		NetID: *req.NetID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CourseUserFromDomain(user))
}

// GetUser retrieves a user with their enrolled courses.
func (h *CourseHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.courseUC.GetUser(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CourseUserFromDomain(user))
}
