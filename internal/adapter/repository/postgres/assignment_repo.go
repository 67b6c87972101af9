package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
)

// AssignmentRepository implements usecase.AssignmentRepository.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Create inserts a new assignment. The store assigns the ID.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	query := `
		INSERT INTO assignments (course_id, title, due_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query,
		assignment.CourseID,
		assignment.Title,
		assignment.DueDate,
	).Scan(&assignment.ID)
}

// ListByCourse retrieves a course's assignments ordered by id.
func (r *AssignmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*domain.Assignment, error) {
	query := `
		SELECT id, course_id, title, due_date
		FROM assignments
		WHERE course_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []*domain.Assignment{}
	for rows.Next() {
		var assignment domain.Assignment
		err := rows.Scan(
			&assignment.ID,
			&assignment.CourseID,
			&assignment.Title,
			&assignment.DueDate,
		)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, &assignment)
	}

	return assignments, rows.Err()
}

// DeleteByCourse deletes every assignment of a course.
func (r *AssignmentRepository) DeleteByCourse(ctx context.Context, tx usecase.Transaction, courseID int64) error {
	query := `DELETE FROM assignments WHERE course_id = $1`
	_, err := tx.(*Tx).PgxTx().Exec(ctx, query, courseID)
	return err
}
