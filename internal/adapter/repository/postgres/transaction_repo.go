package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a new transaction inside tx. The store assigns the ID.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (ts, sender_id, receiver_id, amount, message, accepted)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	return tx.(*Tx).PgxTx().QueryRow(ctx, query,
		txn.Timestamp,
		txn.SenderID,
		txn.ReceiverID,
		txn.Amount,
		txn.Message,
		txn.Accepted,
	).Scan(&txn.ID)
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := `
		SELECT id, ts, sender_id, receiver_id, amount, message, accepted
		FROM transactions
		WHERE id = $1
	`

	var txn domain.Transaction
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&txn.ID,
		&txn.Timestamp,
		&txn.SenderID,
		&txn.ReceiverID,
		&txn.Amount,
		&txn.Message,
		&txn.Accepted,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

// GetByIDForUpdate retrieves a transaction by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Transaction, error) {
	query := `
		SELECT id, ts, sender_id, receiver_id, amount, message, accepted
		FROM transactions
		WHERE id = $1
		FOR UPDATE
	`

	var txn domain.Transaction
	err := tx.(*Tx).PgxTx().QueryRow(ctx, query, id).Scan(
		&txn.ID,
		&txn.Timestamp,
		&txn.SenderID,
		&txn.ReceiverID,
		&txn.Amount,
		&txn.Message,
		&txn.Accepted,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

// Resolve writes the terminal state and the resolution timestamp.
func (r *TransactionRepository) Resolve(ctx context.Context, tx usecase.Transaction, id int64, timestamp time.Time, accepted bool) error {
	query := `UPDATE transactions SET ts = $2, accepted = $3 WHERE id = $1`
	_, err := tx.(*Tx).PgxTx().Exec(ctx, query, id, timestamp, accepted)
	return err
}

// ListByAccount retrieves every transaction in which the account is
// sender or receiver, ordered by id.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Transaction, error) {
	query := `
		SELECT id, ts, sender_id, receiver_id, amount, message, accepted
		FROM transactions
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.Timestamp,
			&txn.SenderID,
			&txn.ReceiverID,
			&txn.Amount,
			&txn.Message,
			&txn.Accepted,
		)
		if err != nil {
			return nil, err
		}
		txns = append(txns, &txn)
	}

	return txns, rows.Err()
}

// DeleteByAccount deletes every transaction touching the account.
func (r *TransactionRepository) DeleteByAccount(ctx context.Context, tx usecase.Transaction, accountID int64) error {
	query := `DELETE FROM transactions WHERE sender_id = $1 OR receiver_id = $1`
	_, err := tx.(*Tx).PgxTx().Exec(ctx, query, accountID)
	return err
}
