package ledger

import (
	"context"
	"database/sql"

	apperrors "quantia/internal/errors"
	"quantia/internal/logger"
)

// ProcedureBackend drives the MySQL stored procedures that own the ledger
// invariants. Each operation checks a connection out of the pool, opens a
// transaction, invokes exactly one procedure, and commits or rolls back.
// The connection is released on every exit path.
type ProcedureBackend struct {
	db *sql.DB
}

// NewProcedureBackend creates a Backend over the given connection pool.
func NewProcedureBackend(db *sql.DB) *ProcedureBackend {
	return &ProcedureBackend{db: db}
}

// Deposit credits the user's balance via make_deposit.
func (b *ProcedureBackend) Deposit(ctx context.Context, p CashParams) error {
	return b.call(ctx, "CALL make_deposit(?, ?, ?)", p.UserID, p.Amount, p.Description)
}

// Withdraw debits the user's balance via make_withdrawal.
func (b *ProcedureBackend) Withdraw(ctx context.Context, p CashParams) error {
	return b.call(ctx, "CALL make_withdrawal(?, ?, ?)", p.UserID, p.Amount, p.Description)
}

// Buy purchases quantity of a symbol via execute_buy_trading.
func (b *ProcedureBackend) Buy(ctx context.Context, p TradeParams) error {
	return b.call(ctx, "CALL execute_buy_trading(?, ?, ?, ?, ?)",
		p.UserID, p.PortfolioID, p.Symbol, p.Quantity, p.Price)
}

// Sell disposes of quantity of a symbol via execute_sell_trading.
func (b *ProcedureBackend) Sell(ctx context.Context, p TradeParams) error {
	return b.call(ctx, "CALL execute_sell_trading(?, ?, ?, ?, ?)",
		p.UserID, p.PortfolioID, p.Symbol, p.Quantity, p.Price)
}

// call runs one procedure inside an explicit transaction on a dedicated
// connection. A failed acquire surfaces as a connection error; a failed
// procedure rolls back and is classified by its message text.
func (b *ProcedureBackend) call(ctx context.Context, query string, args ...interface{}) error {
	conn, err := b.db.Conn(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseUnavailable, err)
	}
	defer func() { _ = conn.Close() }()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseUnavailable, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			logger.Get().Errorw("ledger rollback failed", "error", rbErr.Error())
		}
		return classify(err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
