package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/peerledger/internal/domain"
)

// CourseUserRepository implements usecase.CourseUserRepository.
type CourseUserRepository struct {
	pool *pgxpool.Pool
}

// NewCourseUserRepository creates a new CourseUserRepository.
func NewCourseUserRepository(pool *pgxpool.Pool) *CourseUserRepository {
	return &CourseUserRepository{pool: pool}
}

// Create inserts a new course-management user. The store assigns the ID.
func (r *CourseUserRepository) Create(ctx context.Context, user *domain.CourseUser) error {
	query := `
		INSERT INTO course_users (name, netid)
		VALUES ($1, $2)
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query, user.Name, user.NetID).Scan(&user.ID)
}

// GetByID retrieves a user by ID.
func (r *CourseUserRepository) GetByID(ctx context.Context, id int64) (*domain.CourseUser, error) {
	query := `SELECT id, name, netid FROM course_users WHERE id = $1`

	var user domain.CourseUser
	err := r.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Name, &user.NetID)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCourseUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// ListCoursesByUser retrieves the courses a user is enrolled in under any
// role, ordered by course id.
func (r *CourseUserRepository) ListCoursesByUser(ctx context.Context, userID int64) ([]*domain.Course, error) {
	query := `
		SELECT DISTINCT c.id, c.code, c.name
		FROM courses c
		JOIN course_enrollments e ON e.course_id = c.id
		WHERE e.user_id = $1
		ORDER BY c.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []*domain.Course{}
	for rows.Next() {
		var course domain.Course
		if err := rows.Scan(&course.ID, &course.Code, &course.Name); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	return courses, rows.Err()
}
