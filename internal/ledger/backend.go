// Package ledger implements the transactional core of the application: every
// balance or holding mutation goes through a Backend operation that performs
// the mutation and its audit record as a single unit.
package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "quantia/internal/errors"
)

// CashParams describes a deposit or withdrawal.
type CashParams struct {
	UserID      uint
	Amount      decimal.Decimal
	Description string
}

// TradeParams describes a buy or sell of a traded symbol.
type TradeParams struct {
	UserID      uint
	PortfolioID uint
	Symbol      string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
}

// Backend executes ledger operations. Each call mutates the balance and/or
// holding together with its audit record atomically, enforcing the
// non-negative balance and quantity invariants. A business-rule rejection
// comes back as ErrInsufficientFunds or ErrInsufficientQuantity; anything
// else is an infrastructure fault.
type Backend interface {
	Deposit(ctx context.Context, p CashParams) error
	Withdraw(ctx context.Context, p CashParams) error
	Buy(ctx context.Context, p TradeParams) error
	Sell(ctx context.Context, p TradeParams) error
}

// classify translates a failed operation into the application taxonomy.
// The storage layer signals business-rule rejections with an error message
// containing "insufficient"; that convention is the contract with the
// stored procedures, so the match happens on text, not error codes.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "insufficient") {
		if strings.Contains(msg, "quantity") {
			return apperrors.Wrap(apperrors.ErrInsufficientQuantity, err)
		}
		return apperrors.Wrap(apperrors.ErrInsufficientFunds, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
