package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account. The store assigns the ID.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (name, username, balance, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query,
		account.Name,
		account.Username,
		account.Balance,
		account.PasswordHash,
	).Scan(&account.ID)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `
		SELECT id, name, username, balance, password_hash
		FROM accounts
		WHERE id = $1
	`

	var account domain.Account
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Name,
		&account.Username,
		&account.Balance,
		&account.PasswordHash,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	query := `
		SELECT id, name, username, balance, password_hash
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`

	var account domain.Account
	err := tx.(*Tx).PgxTx().QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Name,
		&account.Username,
		&account.Balance,
		&account.PasswordHash,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// GetByIDsForUpdate retrieves multiple accounts with FOR UPDATE locks.
// Rows come back in id order, which is also the lock acquisition order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.Account, error) {
	query := `
		SELECT id, name, username, balance, password_hash
		FROM accounts
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tx.(*Tx).PgxTx().Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var account domain.Account
		err := rows.Scan(
			&account.ID,
			&account.Name,
			&account.Username,
			&account.Balance,
			&account.PasswordHash,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, &account)
	}

	return accounts, rows.Err()
}

// UpdateBalance updates the balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id int64, balance int64) error {
	query := `UPDATE accounts SET balance = $2 WHERE id = $1`
	_, err := tx.(*Tx).PgxTx().Exec(ctx, query, id, balance)
	return err
}

// Delete deletes an account.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	query := `DELETE FROM accounts WHERE id = $1`
	_, err := tx.(*Tx).PgxTx().Exec(ctx, query, id)
	return err
}

// List retrieves all accounts ordered by id.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	query := `
		SELECT id, name, username, balance, password_hash
		FROM accounts
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var account domain.Account
		err := rows.Scan(
			&account.ID,
			&account.Name,
			&account.Username,
			&account.Balance,
			&account.PasswordHash,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, &account)
	}

	return accounts, rows.Err()
}
