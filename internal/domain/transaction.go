package domain

import "time"

// Transaction records a proposed or realized transfer between two accounts.
// Accepted is tri-state: nil means pending, true accepted, false denied.
type Transaction struct {
	ID         int64
	Timestamp  time.Time
	SenderID   int64
	ReceiverID int64
	Amount     int64
	Message    string
	Accepted   *bool
}

// Pending reports whether the transaction has not been resolved yet.
func (t *Transaction) Pending() bool {
	return t.Accepted == nil
}

// CanResolve rejects resolution of a transaction that already reached a
// terminal state. Resolved transactions stay resolved.
func (t *Transaction) CanResolve() error {
	if !t.Pending() {
		return ErrAlreadyResolved
	}
	return nil
}
