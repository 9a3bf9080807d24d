package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of ledger transaction
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeBuy        TransactionType = "buy"
	TransactionTypeSell       TransactionType = "sell"
)

// TransactionStatus represents the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is the append-only audit record of a ledger mutation.
// Rows are never updated after creation.
type Transaction struct {
	ID              uint              `gorm:"column:transaction_id;primaryKey" json:"transaction_id"`
	UserID          uint              `gorm:"not null;index" json:"user_id"`
	Type            TransactionType   `gorm:"size:20;not null" json:"type"`
	Amount          decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	TransactionDate time.Time         `gorm:"column:transaction_date;not null;autoCreateTime" json:"transaction_date"`
	Status          TransactionStatus `gorm:"size:20;not null;default:completed" json:"status"`
	Description     string            `gorm:"size:255" json:"description"`
}

// TableName overrides the default table name.
func (Transaction) TableName() string { return "transactions" }
