package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
)

// CourseRepository implements usecase.CourseRepository.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// Create inserts a new course. The store assigns the ID.
func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	query := `
		INSERT INTO courses (code, name)
		VALUES ($1, $2)
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query, course.Code, course.Name).Scan(&course.ID)
}

// GetByID retrieves a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	query := `SELECT id, code, name FROM courses WHERE id = $1`

	var course domain.Course
	err := r.pool.QueryRow(ctx, query, id).Scan(&course.ID, &course.Code, &course.Name)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	return &course, nil
}

// List retrieves all courses ordered by id.
func (r *CourseRepository) List(ctx context.Context) ([]*domain.Course, error) {
	query := `SELECT id, code, name FROM courses ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*domain.Course
	for rows.Next() {
		var course domain.Course
		if err := rows.Scan(&course.ID, &course.Code, &course.Name); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	return courses, rows.Err()
}

// Delete deletes a course.
func (r *CourseRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	query := `DELETE FROM courses WHERE id = $1`
	_, err := tx.(*Tx).PgxTx().Exec(ctx, query, id)
	return err
}

// AddEnrollment records a user's role in a course. Repeating an existing
// enrollment is a no-op.
func (r *CourseRepository) AddEnrollment(ctx context.Context, courseID, userID int64, role domain.EnrollmentType) error {
	query := `
		INSERT INTO course_enrollments (course_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, courseID, userID, string(role))
	return err
}

// ListUsers retrieves the users enrolled in a course under one role,
// ordered by user id.
func (r *CourseRepository) ListUsers(ctx context.Context, courseID int64, role domain.EnrollmentType) ([]*domain.CourseUser, error) {
	query := `
		SELECT u.id, u.name, u.netid
		FROM course_users u
		JOIN course_enrollments e ON e.user_id = u.id
		WHERE e.course_id = $1 AND e.role = $2
		ORDER BY u.id
	`

	rows, err := r.pool.Query(ctx, query, courseID, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.CourseUser{}
	for rows.Next() {
		var user domain.CourseUser
		if err := rows.Scan(&user.ID, &user.Name, &user.NetID); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

// DeleteEnrollmentsByCourse deletes every enrollment row of a course.
func (r *CourseRepository) DeleteEnrollmentsByCourse(ctx context.Context, tx usecase.Transaction, courseID int64) error {
	query := `DELETE FROM course_enrollments WHERE course_id = $1`
	_, err := tx.(*Tx).PgxTx().Exec(ctx, query, courseID)
	return err
}
