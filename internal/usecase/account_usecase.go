package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	auditRepo       AuditRepository
	idGen           IDGenerator
	metrics         *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		auditRepo:       auditRepo,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name     string
	Username string
	Balance  int64
	Password string
}

// CreateAccount creates a new account. The store assigns the ID.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	account := &domain.Account{
		Name:     input.Name,
		Username: input.Username,
		Balance:  input.Balance,
	}

	if input.Password != "" {
		hash, err := domain.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = hash
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionAccountCreate, account.ID, map[string]any{
		"username": account.Username,
		"balance":  account.Balance,
	})

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	account.Transactions = []*domain.Transaction{}

	return account, nil
}

// GetAccount retrieves an account with every transaction in which it is
// sender or receiver, ordered by transaction id ascending.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	transactions, err := uc.transactionRepo.ListByAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	account.Transactions = transactions

	return account, nil
}

// DeleteAccount removes an account and cascades deletion of all
// transactions referencing it as sender or receiver. The cascade is
// application-enforced inside a single database transaction.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := uc.GetAccount(ctx, id)
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

	if err := uc.transactionRepo.DeleteByAccount(txCtx, tx, id); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Delete(txCtx, tx, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionAccountDelete, id, map[string]any{
		"username": account.Username,
	})

	if uc.metrics != nil {
		uc.metrics.AccountsDeleted.Inc()
	}

	return account, nil
}

// ListAccounts lists all accounts. Balances and transactions are omitted
// from the listing view by the handler layer.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx)
}

func (uc *AccountUseCase) audit(ctx context.Context, action string, accountID int64, detail map[string]any) {
	if uc.auditRepo == nil {
		return
	}

	// Best-effort: audit failures never fail the operation.
	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Action:       action,
		ResourceType: "account",
		ResourceID:   strconv.FormatInt(accountID, 10),
		Detail:       detail,
		CreatedAt:    time.Now().UTC(),
	})
}
