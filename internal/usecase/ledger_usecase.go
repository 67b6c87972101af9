package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/infrastructure/metrics"
)

// LedgerUseCase handles transaction creation, resolution and direct sends.
//
// Every read-check-write sequence (overdraft check plus the two balance
// writes, pending-check plus resolve) runs inside a single database
// transaction with row locks, accounts locked in sorted-id order.
type LedgerUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	auditRepo       AuditRepository
	idGen           IDGenerator
	metrics         *metrics.Metrics
	retryer         Retryer
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		auditRepo:       auditRepo,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// WithRetrier retries the transactional operations on deadlock or
// serialization failure.
func (uc *LedgerUseCase) WithRetrier(retryer Retryer) *LedgerUseCase {
	uc.retryer = retryer
	return uc
}

func (uc *LedgerUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retryer == nil {
		return operation()
	}
	return uc.retryer.Retry(ctx, operation)
}

// CreateTransactionInput represents input for creating a transaction.
// A nil Accepted creates the transaction pending; true applies the
// transfer immediately; false records a denied transaction.
type CreateTransactionInput struct {
	SenderID   int64
	ReceiverID int64
	Amount     int64
	Message    string
	Accepted   *bool
}

// CreateTransaction creates a transaction. If it is created pre-accepted
// the balance transfer is applied synchronously; on overdraft nothing is
// persisted.
func (uc *LedgerUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	var txn *domain.Transaction
	err := uc.retry(ctx, func() error {
		var err error
		txn, err = uc.createTransaction(ctx, input)
		return err
	})
	return txn, err
}

func (uc *LedgerUseCase) createTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	sender, receiver, err := uc.lockPair(txCtx, tx, input.SenderID, input.ReceiverID)
	if err != nil {
		return nil, err
	}

	if input.Accepted != nil && *input.Accepted {
		if err := uc.applyTransfer(txCtx, tx, sender, receiver, input.Amount); err != nil {
			return nil, err
		}
	}

	txn := &domain.Transaction{
		Timestamp:  time.Now().UTC(),
		SenderID:   input.SenderID,
		ReceiverID: input.ReceiverID,
		Amount:     input.Amount,
		Message:    input.Message,
		Accepted:   input.Accepted,
	}

	if err := uc.transactionRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		log := uc.auditLog(domain.AuditActionTransactionCreate, txn.ID, map[string]any{
			"sender_id":   txn.SenderID,
			"receiver_id": txn.ReceiverID,
			"amount":      txn.Amount,
			"pending":     txn.Pending(),
		})
		if err := uc.auditRepo.CreateTx(txCtx, tx, log); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.Inc()
	}

	return txn, nil
}

// ResolveTransaction moves a pending transaction to a terminal state.
// Accepting runs the transfer; an overdraft rejects the resolution and the
// transaction stays pending. Resolving an already-terminal transaction
// fails without mutation.
func (uc *LedgerUseCase) ResolveTransaction(ctx context.Context, id int64, accepted bool) (*domain.Transaction, error) {
	var txn *domain.Transaction
	err := uc.retry(ctx, func() error {
		var err error
		txn, err = uc.resolveTransaction(ctx, id, accepted)
		return err
	})
	return txn, err
}

func (uc *LedgerUseCase) resolveTransaction(ctx context.Context, id int64, accepted bool) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.transactionRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := txn.CanResolve(); err != nil {
		return nil, err
	}

	if accepted {
		sender, receiver, err := uc.lockPair(txCtx, tx, txn.SenderID, txn.ReceiverID)
		if err != nil {
			return nil, err
		}

		if err := uc.applyTransfer(txCtx, tx, sender, receiver, txn.Amount); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	if err := uc.transactionRepo.Resolve(txCtx, tx, id, now, accepted); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		log := uc.auditLog(domain.AuditActionTransactionDecide, id, map[string]any{
			"accepted": accepted,
		})
		if err := uc.auditRepo.CreateTx(txCtx, tx, log); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	txn.Timestamp = now
	txn.Accepted = &accepted

	if uc.metrics != nil {
		outcome := "denied"
		if accepted {
			outcome = "accepted"
		}
		uc.metrics.TransactionsResolved.WithLabelValues(outcome).Inc()
	}

	return txn, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByID(ctx, id)
}

// TransactionAudit returns the audit trail of a transaction, newest first.
func (uc *LedgerUseCase) TransactionAudit(ctx context.Context, id int64) ([]*domain.AuditLog, error) {
	if _, err := uc.transactionRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if uc.auditRepo == nil {
		return nil, nil
	}

	return uc.auditRepo.ListByResource(ctx, "transaction", strconv.FormatInt(id, 10))
}

// SendInput represents input for a direct transfer.
type SendInput struct {
	SenderID   int64
	ReceiverID int64
	Amount     int64
	Password   *string
}

// Send applies an immediate transfer between two accounts without
// recording a transaction. When the sender account carries a password,
// the matching plaintext password must accompany the request.
func (uc *LedgerUseCase) Send(ctx context.Context, input SendInput) error {
	return uc.retry(ctx, func() error {
		return uc.send(ctx, input)
	})
}

func (uc *LedgerUseCase) send(ctx context.Context, input SendInput) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	sender, receiver, err := uc.lockPair(txCtx, tx, input.SenderID, input.ReceiverID)
	if err != nil {
		return err
	}

	if sender.HasPassword() {
		if input.Password == nil {
			return domain.ErrPasswordRequired
		}
		if err := sender.CheckPassword(*input.Password); err != nil {
			return err
		}
	}

	if err := uc.applyTransfer(txCtx, tx, sender, receiver, input.Amount); err != nil {
		return err
	}

	if uc.auditRepo != nil {
		log := uc.auditLog(domain.AuditActionTransferSend, sender.ID, map[string]any{
			"receiver_id": receiver.ID,
			"amount":      input.Amount,
		})
		if err := uc.auditRepo.CreateTx(txCtx, tx, log); err != nil {
			return err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersSent.Inc()
	}

	return nil
}

// applyTransfer validates the overdraft rules and writes both balances.
// Rejection leaves both balances untouched.
func (uc *LedgerUseCase) applyTransfer(ctx context.Context, tx Transaction, sender, receiver *domain.Account, amount int64) error {
	err := sender.ValidateDebit(amount)
	if err == nil {
		err = receiver.ValidateCredit(amount)
	}
	if err != nil {
		if uc.metrics != nil && (errors.Is(err, domain.ErrSenderOverdraft) || errors.Is(err, domain.ErrReceiverOverdraft)) {
			uc.metrics.OverdraftRejections.Inc()
		}
		return err
	}

	// Self-transfers net to zero; nothing to write.
	if sender.ID == receiver.ID {
		return nil
	}

	senderBalance := sender.Balance - amount
	if err := uc.accountRepo.UpdateBalance(ctx, tx, sender.ID, senderBalance); err != nil {
		return err
	}
	sender.Balance = senderBalance

	receiverBalance := receiver.Balance + amount
	if err := uc.accountRepo.UpdateBalance(ctx, tx, receiver.ID, receiverBalance); err != nil {
		return err
	}
	receiver.Balance = receiverBalance

	return nil
}

// lockPair locks the two accounts in sorted-id order (deadlock
// prevention) and fails if either does not exist.
func (uc *LedgerUseCase) lockPair(ctx context.Context, tx Transaction, senderID, receiverID int64) (*domain.Account, *domain.Account, error) {
	if senderID == receiverID {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, senderID)
		if err != nil {
			return nil, nil, err
		}
		return account, account, nil
	}

	ids := []int64{senderID, receiverID}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, nil, err
	}

	if len(accounts) != len(ids) {
		return nil, nil, domain.ErrAccountNotFound
	}

	byID := make(map[int64]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	sender, receiver := byID[senderID], byID[receiverID]
	if sender == nil || receiver == nil {
		return nil, nil, domain.ErrAccountNotFound
	}

	return sender, receiver, nil
}

func (uc *LedgerUseCase) auditLog(action string, transactionID int64, detail map[string]any) *domain.AuditLog {
	resourceType := "transaction"
	if action == domain.AuditActionTransferSend {
		resourceType = "account"
	}

	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   strconv.FormatInt(transactionID, 10),
		Detail:       detail,
		CreatedAt:    time.Now().UTC(),
	}
}
