package domain

import "golang.org/x/crypto/bcrypt"

// Account represents a ledger participant that holds a balance.
type Account struct {
	ID           int64
	Name         string
	Username     string
	Balance      int64
	PasswordHash []byte
	Transactions []*Transaction
}

// ValidateDebit checks if the account can be debited by amount.
// Amounts larger than the current balance would overdraw the sender.
func (a *Account) ValidateDebit(amount int64) error {
	if amount > a.Balance {
		return ErrSenderOverdraft
	}
	return nil
}

// ValidateCredit checks if the account can be credited by amount.
// A negative amount models a reversed-direction transfer, so crediting
// below zero overdraws the receiver.
func (a *Account) ValidateCredit(amount int64) error {
	if amount < -a.Balance {
		return ErrReceiverOverdraft
	}
	return nil
}

// HasPassword reports whether the account was created with a password.
func (a *Account) HasPassword() bool {
	return len(a.PasswordHash) > 0
}

// CheckPassword compares a plaintext password against the stored hash.
func (a *Account) CheckPassword(password string) error {
	if !a.HasPassword() {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
