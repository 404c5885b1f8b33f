package types

import "time"

type TransactionKind string

const (
	TransactionKindMonetary TransactionKind = "monetary"
	TransactionKindGoods    TransactionKind = "goods"
	TransactionKindServices TransactionKind = "services"
)

func (k TransactionKind) Valid() bool {
	switch k {
	case TransactionKindMonetary, TransactionKindGoods, TransactionKindServices:
		return true
	}
	return false
}

// AidTransaction records value transferred within a connection.
// AmountCents is nil for goods and services.
type AidTransaction struct {
	ID           string          `db:"id" json:"id"`
	ConnectionID string          `db:"connection_id" json:"connection_id"`
	AmountCents  *int64          `db:"amount_cents" json:"amount_cents,omitempty"`
	Kind         TransactionKind `db:"kind" json:"kind"`
	Description  string          `db:"description" json:"description"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
