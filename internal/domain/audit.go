package domain

import (
	"encoding/json"
	"time"
)

// Audit actions recorded by the ledger use case.
const (
	AuditActionAccountCreate     = "account.create"
	AuditActionAccountDelete     = "account.delete"
	AuditActionTransactionCreate = "transaction.create"
	AuditActionTransactionDecide = "transaction.resolve"
	AuditActionTransferSend      = "transfer.send"
)

// AuditLog is an append-only record of a mutation.
type AuditLog struct {
	ID           string
	Action       string
	ResourceType string
	ResourceID   string
	Detail       map[string]any
	CreatedAt    time.Time
}

// MarshalDetail serializes a value into an audit detail map.
// Unserializable values produce a nil detail rather than an error.
func MarshalDetail(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}

	return m
}
