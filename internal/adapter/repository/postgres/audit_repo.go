package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
)

// AuditRepository implements append-only audit log persistence.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

const auditInsert = `
	INSERT INTO audit_logs (id, action, resource_type, resource_id, detail, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
`

// Create inserts a new audit log entry.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	detail, err := marshalAuditDetail(log.Detail)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, auditInsert,
		log.ID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		detail,
		log.CreatedAt,
	)

	return err
}

// CreateTx inserts a new audit log entry inside tx so the record commits
// or rolls back with the mutation it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	detail, err := marshalAuditDetail(log.Detail)
	if err != nil {
		return err
	}

	_, err = tx.(*Tx).PgxTx().Exec(ctx, auditInsert,
		log.ID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		detail,
		log.CreatedAt,
	)

	return err
}

// ListByResource retrieves the audit trail of a resource, newest first.
func (r *AuditRepository) ListByResource(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, action, resource_type, resource_id, detail, created_at
		FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, resourceType, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		var detail []byte

		err := rows.Scan(
			&log.ID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&detail,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if detail != nil {
			_ = json.Unmarshal(detail, &log.Detail)
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

func marshalAuditDetail(detail map[string]any) ([]byte, error) {
	if detail == nil {
		return nil, nil
	}
	return json.Marshal(detail)
}
