package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
	"github.com/iho/peerledger/internal/usecase/mocks"
)

func boolPtr(b bool) *bool { return &b }

func newLedgerFixture() (*usecase.LedgerUseCase, *mocks.MockAccountRepository, *mocks.MockTransactionRepository, *mocks.MockAuditRepository) {
	accountRepo := mocks.NewMockAccountRepository()
	transactionRepo := mocks.NewMockTransactionRepository()
	auditRepo := mocks.NewMockAuditRepository()
	uc := usecase.NewLedgerUseCase(
		mocks.NewMockTxManager(),
		accountRepo,
		transactionRepo,
		auditRepo,
		mocks.NewMockIDGenerator(),
		nil,
	)
	return uc, accountRepo, transactionRepo, auditRepo
}

func TestLedgerUseCase_CreateTransaction_Pending(t *testing.T) {
	uc, accountRepo, transactionRepo, _ := newLedgerFixture()
	sender := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 10})
	receiver := accountRepo.Seed(&domain.Account{Name: "Bob", Username: "bob", Balance: 10})

	txn, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     6,
		Message:    "lunch",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !txn.Pending() {
		t.Error("expected transaction to be pending")
	}
	if sender.Balance != 10 || receiver.Balance != 10 {
		t.Errorf("pending transaction must not move balances, got %d/%d", sender.Balance, receiver.Balance)
	}
	if _, err := transactionRepo.GetByID(context.Background(), txn.ID); err != nil {
		t.Errorf("transaction not persisted: %v", err)
	}
}

func TestLedgerUseCase_CreateTransaction_PreAccepted(t *testing.T) {
	uc, accountRepo, _, auditRepo := newLedgerFixture()
	sender := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 10})
	receiver := accountRepo.Seed(&domain.Account{Name: "Bob", Username: "bob", Balance: 10})

	txn, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     6,
		Accepted:   boolPtr(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.Pending() {
		t.Error("expected transaction to be accepted")
	}
	if sender.Balance != 4 {
		t.Errorf("expected sender balance 4, got %d", sender.Balance)
	}
	if receiver.Balance != 16 {
		t.Errorf("expected receiver balance 16, got %d", receiver.Balance)
	}
	if len(auditRepo.Logs) != 1 {
		t.Errorf("expected 1 audit log, got %d", len(auditRepo.Logs))
	}

	// An identical follow-up now overdrafts the sender.
	_, err = uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     6,
		Accepted:   boolPtr(true),
	})
	if !errors.Is(err, domain.ErrSenderOverdraft) {
		t.Fatalf("expected ErrSenderOverdraft, got %v", err)
	}
	if sender.Balance != 4 || receiver.Balance != 16 {
		t.Errorf("rejected transfer must not move balances, got %d/%d", sender.Balance, receiver.Balance)
	}
}

func TestLedgerUseCase_CreateTransaction_OverdraftPersistsNothing(t *testing.T) {
	uc, accountRepo, transactionRepo, auditRepo := newLedgerFixture()
	sender := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 5})
	receiver := accountRepo.Seed(&domain.Account{Name: "Bob", Username: "bob", Balance: 0})

	_, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     6,
		Accepted:   boolPtr(true),
	})
	if !errors.Is(err, domain.ErrSenderOverdraft) {
		t.Fatalf("expected ErrSenderOverdraft, got %v", err)
	}
	if sender.Balance != 5 || receiver.Balance != 0 {
		t.Errorf("balances moved on rejected transfer: %d/%d", sender.Balance, receiver.Balance)
	}
	if txns, _ := transactionRepo.ListByAccount(context.Background(), sender.ID); len(txns) != 0 {
		t.Errorf("expected no persisted transaction, got %d", len(txns))
	}
	if len(auditRepo.Logs) != 0 {
		t.Errorf("expected no audit logs, got %d", len(auditRepo.Logs))
	}
}

func TestLedgerUseCase_CreateTransaction_NegativeAmount(t *testing.T) {
	// A negative amount pulls funds from the receiver; the guard is
	// the receiver's balance.
	uc, accountRepo, _, _ := newLedgerFixture()
	sender := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 10})
	receiver := accountRepo.Seed(&domain.Account{Name: "Bob", Username: "bob", Balance: 5})

	_, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     -3,
		Accepted:   boolPtr(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.Balance != 13 || receiver.Balance != 2 {
		t.Errorf("expected balances 13/2, got %d/%d", sender.Balance, receiver.Balance)
	}

	_, err = uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     -3,
		Accepted:   boolPtr(true),
	})
	if !errors.Is(err, domain.ErrReceiverOverdraft) {
		t.Fatalf("expected ErrReceiverOverdraft, got %v", err)
	}
}

func TestLedgerUseCase_CreateTransaction_AccountNotFound(t *testing.T) {
	uc, accountRepo, _, _ := newLedgerFixture()
	sender := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 10})

	_, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		SenderID:   sender.ID,
		ReceiverID: 999,
		Amount:     1,
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestLedgerUseCase_CreateTransaction_SelfTransfer(t *testing.T) {
	uc, accountRepo, transactionRepo, _ := newLedgerFixture()
	account := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 10})

	txn, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		SenderID:   account.ID,
		ReceiverID: account.ID,
		Amount:     4,
		Accepted:   boolPtr(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Balance != 10 {
		t.Errorf("self-transfer must net to zero, got balance %d", account.Balance)
	}
	if _, err := transactionRepo.GetByID(context.Background(), txn.ID); err != nil {
		t.Errorf("self-transfer transaction not persisted: %v", err)
	}
}

// A self-transfer takes a single row lock instead of a pair lock.
func TestLedgerUseCase_CreateTransaction_SelfTransferSingleLock(t *testing.T) {
	uc, accountRepo, _, _ := newLedgerFixture()
	account := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 10})

	var singleLocks int
	accountRepo.GetByIDForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
		singleLocks++
		return accountRepo.GetByID(ctx, id)
	}
	accountRepo.GetByIDsForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.Account, error) {
		t.Fatal("self-transfer must not lock an account pair")
		return nil, nil
	}

	_, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		SenderID:   account.ID,
		ReceiverID: account.ID,
		Amount:     4,
		Accepted:   boolPtr(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if singleLocks != 1 {
		t.Errorf("expected 1 single-row lock, got %d", singleLocks)
	}

	_, err = uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		SenderID:   999,
		ReceiverID: 999,
		Amount:     4,
		Accepted:   boolPtr(true),
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestLedgerUseCase_ResolveTransaction_Accept(t *testing.T) {
	uc, accountRepo, transactionRepo, _ := newLedgerFixture()
	sender := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 10})
	receiver := accountRepo.Seed(&domain.Account{Name: "Bob", Username: "bob", Balance: 10})
	created := time.Now().UTC().Add(-time.Hour)
	pending := transactionRepo.Seed(&domain.Transaction{
		Timestamp:  created,
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     6,
	})

	txn, err := uc.ResolveTransaction(context.Background(), pending.ID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.Accepted == nil || !*txn.Accepted {
		t.Error("expected transaction accepted")
	}
	if !txn.Timestamp.After(created) {
		t.Error("expected resolution to refresh the timestamp")
	}
	if sender.Balance != 4 || receiver.Balance != 16 {
		t.Errorf("expected balances 4/16, got %d/%d", sender.Balance, receiver.Balance)
	}
}

func TestLedgerUseCase_ResolveTransaction_Deny(t *testing.T) {
	uc, accountRepo, transactionRepo, _ := newLedgerFixture()
	sender := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 10})
	receiver := accountRepo.Seed(&domain.Account{Name: "Bob", Username: "bob", Balance: 10})
	pending := transactionRepo.Seed(&domain.Transaction{
		Timestamp:  time.Now().UTC(),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     6,
	})

	txn, err := uc.ResolveTransaction(context.Background(), pending.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.Accepted == nil || *txn.Accepted {
		t.Error("expected transaction denied")
	}
	if sender.Balance != 10 || receiver.Balance != 10 {
		t.Errorf("denied transaction must not move balances, got %d/%d", sender.Balance, receiver.Balance)
	}
}

func TestLedgerUseCase_ResolveTransaction_Terminal(t *testing.T) {
	tests := []struct {
		name     string
		accepted bool
	}{
		{name: "already accepted", accepted: true},
		{name: "already denied", accepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, accountRepo, transactionRepo, _ := newLedgerFixture()
			sender := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 10})
			receiver := accountRepo.Seed(&domain.Account{Name: "Bob", Username: "bob", Balance: 10})
			terminal := transactionRepo.Seed(&domain.Transaction{
				Timestamp:  time.Now().UTC(),
				SenderID:   sender.ID,
				ReceiverID: receiver.ID,
				Amount:     6,
				Accepted:   boolPtr(tt.accepted),
			})

			for _, resolve := range []bool{true, false} {
				if _, err := uc.ResolveTransaction(context.Background(), terminal.ID, resolve); !errors.Is(err, domain.ErrAlreadyResolved) {
					t.Fatalf("resolve(%v): expected ErrAlreadyResolved, got %v", resolve, err)
				}
			}
			if sender.Balance != 10 || receiver.Balance != 10 {
				t.Errorf("terminal resolution must not move balances, got %d/%d", sender.Balance, receiver.Balance)
			}
		})
	}
}

func TestLedgerUseCase_ResolveTransaction_NotFound(t *testing.T) {
	uc, _, _, _ := newLedgerFixture()

	_, err := uc.ResolveTransaction(context.Background(), 42, true)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestLedgerUseCase_TransactionAudit(t *testing.T) {
	uc, accountRepo, _, _ := newLedgerFixture()
	sender := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 10})
	receiver := accountRepo.Seed(&domain.Account{Name: "Bob", Username: "bob", Balance: 10})

	txn, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     6,
		Message:    "lunch",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.ResolveTransaction(context.Background(), txn.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logs, err := uc.TransactionAudit(context.Background(), txn.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(logs))
	}
	actions := map[string]bool{}
	for _, log := range logs {
		actions[log.Action] = true
	}
	if !actions[domain.AuditActionTransactionCreate] || !actions[domain.AuditActionTransactionDecide] {
		t.Errorf("unexpected actions %v", actions)
	}

	if _, err := uc.TransactionAudit(context.Background(), 999); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

// A pending transaction whose acceptance would overdraft the sender is
// rejected but stays pending. It can still be denied afterwards, and once
// denied it is terminal.
func TestLedgerUseCase_ResolveTransaction_OverdraftStaysPending(t *testing.T) {
	uc, accountRepo, transactionRepo, _ := newLedgerFixture()
	sender := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 5})
	receiver := accountRepo.Seed(&domain.Account{Name: "Bob", Username: "bob", Balance: 0})
	pending := transactionRepo.Seed(&domain.Transaction{
		Timestamp:  time.Now().UTC(),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     7,
	})

	_, err := uc.ResolveTransaction(context.Background(), pending.ID, true)
	if !errors.Is(err, domain.ErrSenderOverdraft) {
		t.Fatalf("expected ErrSenderOverdraft, got %v", err)
	}

	stored, err := transactionRepo.GetByID(context.Background(), pending.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stored.Pending() {
		t.Fatal("transaction must stay pending after rejected acceptance")
	}
	if sender.Balance != 5 || receiver.Balance != 0 {
		t.Errorf("balances moved on rejected acceptance: %d/%d", sender.Balance, receiver.Balance)
	}

	if _, err := uc.ResolveTransaction(context.Background(), pending.ID, false); err != nil {
		t.Fatalf("denying after rejected acceptance: %v", err)
	}

	if _, err := uc.ResolveTransaction(context.Background(), pending.ID, true); !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
}

func TestLedgerUseCase_Send(t *testing.T) {
	password := "hunter2"
	hash, err := domain.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	tests := []struct {
		name            string
		senderBalance   int64
		senderHash      []byte
		receiverBalance int64
		amount          int64
		password        *string
		wantErr         error
		wantSender      int64
		wantReceiver    int64
	}{
		{
			name:            "open sender",
			senderBalance:   10,
			receiverBalance: 0,
			amount:          4,
			wantSender:      6,
			wantReceiver:    4,
		},
		{
			name:            "password accepted",
			senderBalance:   10,
			senderHash:      hash,
			receiverBalance: 0,
			amount:          4,
			password:        &password,
			wantSender:      6,
			wantReceiver:    4,
		},
		{
			name:            "password missing",
			senderBalance:   10,
			senderHash:      hash,
			receiverBalance: 0,
			amount:          4,
			wantErr:         domain.ErrPasswordRequired,
			wantSender:      10,
			wantReceiver:    0,
		},
		{
			name:            "password wrong",
			senderBalance:   10,
			senderHash:      hash,
			receiverBalance: 0,
			amount:          4,
			password:        strPtr("wrong"),
			wantErr:         domain.ErrWrongPassword,
			wantSender:      10,
			wantReceiver:    0,
		},
		{
			name:            "sender overdraft",
			senderBalance:   3,
			receiverBalance: 0,
			amount:          4,
			wantErr:         domain.ErrSenderOverdraft,
			wantSender:      3,
			wantReceiver:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, accountRepo, _, _ := newLedgerFixture()
			sender := accountRepo.Seed(&domain.Account{
				Name:         "Alice",
				Username:     "alice",
				Balance:      tt.senderBalance,
				PasswordHash: tt.senderHash,
			})
			receiver := accountRepo.Seed(&domain.Account{
				Name:     "Bob",
				Username: "bob",
				Balance:  tt.receiverBalance,
			})

			err := uc.Send(context.Background(), usecase.SendInput{
				SenderID:   sender.ID,
				ReceiverID: receiver.ID,
				Amount:     tt.amount,
				Password:   tt.password,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sender.Balance != tt.wantSender || receiver.Balance != tt.wantReceiver {
				t.Errorf("expected balances %d/%d, got %d/%d",
					tt.wantSender, tt.wantReceiver, sender.Balance, receiver.Balance)
			}
		})
	}
}

// The sum of all balances never changes, whatever mix of operations runs.
func TestLedgerUseCase_BalanceSumInvariant(t *testing.T) {
	uc, accountRepo, transactionRepo, _ := newLedgerFixture()
	ctx := context.Background()

	a := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 100})
	b := accountRepo.Seed(&domain.Account{Name: "Bob", Username: "bob", Balance: 50})
	c := accountRepo.Seed(&domain.Account{Name: "Carol", Username: "carol", Balance: 0})

	sum := func() int64 {
		accounts, err := accountRepo.List(ctx)
		if err != nil {
			t.Fatalf("listing accounts: %v", err)
		}
		var total int64
		for _, acc := range accounts {
			total += acc.Balance
		}
		return total
	}
	want := sum()

	if _, err := uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
		SenderID: a.ID, ReceiverID: b.ID, Amount: 30, Accepted: boolPtr(true),
	}); err != nil {
		t.Fatalf("pre-accepted transfer: %v", err)
	}

	pending, err := uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
		SenderID: b.ID, ReceiverID: c.ID, Amount: 80,
	})
	if err != nil {
		t.Fatalf("pending transfer: %v", err)
	}
	if _, err := uc.ResolveTransaction(ctx, pending.ID, true); err != nil {
		t.Fatalf("accepting transfer: %v", err)
	}

	if err := uc.Send(ctx, usecase.SendInput{SenderID: c.ID, ReceiverID: a.ID, Amount: 25}); err != nil {
		t.Fatalf("direct send: %v", err)
	}

	// Rejected operations included.
	if _, err := uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
		SenderID: b.ID, ReceiverID: a.ID, Amount: 1000, Accepted: boolPtr(true),
	}); !errors.Is(err, domain.ErrSenderOverdraft) {
		t.Fatalf("expected ErrSenderOverdraft, got %v", err)
	}

	if got := sum(); got != want {
		t.Errorf("balance sum changed: want %d, got %d", want, got)
	}

	if txns, _ := transactionRepo.ListByAccount(ctx, a.ID); len(txns) != 1 {
		t.Errorf("expected 1 transaction touching alice, got %d", len(txns))
	}
}

func strPtr(s string) *string { return &s }

type countingRetryer struct {
	calls int
}

func (r *countingRetryer) Retry(ctx context.Context, operation func() error) error {
	r.calls++
	return operation()
}

func TestLedgerUseCase_WithRetrier(t *testing.T) {
	uc, accountRepo, _, _ := newLedgerFixture()
	retryer := &countingRetryer{}
	uc = uc.WithRetrier(retryer)

	sender := accountRepo.Seed(&domain.Account{Name: "Alice", Username: "alice", Balance: 10})
	receiver := accountRepo.Seed(&domain.Account{Name: "Bob", Username: "bob", Balance: 10})

	if _, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     3,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := uc.Send(context.Background(), usecase.SendInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     2,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if retryer.calls != 2 {
		t.Fatalf("expected both operations to go through the retryer, got %d", retryer.calls)
	}
}
