package ledger

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "quantia/internal/errors"
)

// fakeProcDB scripts the driver side of a procedure call so the
// begin/exec/commit-or-rollback/release pairing can be observed without a
// MySQL server.
type fakeProcDB struct {
	mu sync.Mutex

	beginErr error
	execErr  error

	queries    []string
	argCounts  []int
	begun      int
	committed  int
	rolledBack int
}

func (f *fakeProcDB) Connect(ctx context.Context) (driver.Conn, error) {
	return &fakeProcConn{db: f}, nil
}

func (f *fakeProcDB) Driver() driver.Driver { return f }

func (f *fakeProcDB) Open(name string) (driver.Conn, error) {
	return f.Connect(context.Background())
}

type fakeProcConn struct{ db *fakeProcDB }

func (c *fakeProcConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *fakeProcConn) Close() error { return nil }

func (c *fakeProcConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *fakeProcConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	if c.db.beginErr != nil {
		return nil, c.db.beginErr
	}
	c.db.begun++
	return &fakeProcTx{db: c.db}, nil
}

func (c *fakeProcConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	c.db.queries = append(c.db.queries, query)
	c.db.argCounts = append(c.db.argCounts, len(args))
	if c.db.execErr != nil {
		return nil, c.db.execErr
	}
	return driver.RowsAffected(1), nil
}

type fakeProcTx struct{ db *fakeProcDB }

func (t *fakeProcTx) Commit() error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.committed++
	return nil
}

func (t *fakeProcTx) Rollback() error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.rolledBack++
	return nil
}

func newProcedureHarness(t *testing.T, fake *fakeProcDB) *ProcedureBackend {
	t.Helper()
	db := sql.OpenDB(fake)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return NewProcedureBackend(db)
}

func TestProcedureCallShapes(t *testing.T) {
	cash := CashParams{UserID: 1, Amount: decimal.RequireFromString("100.00"), Description: "test"}
	trade := TradeParams{
		UserID:      1,
		PortfolioID: 2,
		Symbol:      "AAPL",
		Quantity:    decimal.RequireFromString("10"),
		Price:       decimal.RequireFromString("150.00"),
	}

	tests := []struct {
		name      string
		call      func(b *ProcedureBackend) error
		wantQuery string
		wantArgs  int
	}{
		{"deposit", func(b *ProcedureBackend) error { return b.Deposit(context.Background(), cash) }, "CALL make_deposit(?, ?, ?)", 3},
		{"withdraw", func(b *ProcedureBackend) error { return b.Withdraw(context.Background(), cash) }, "CALL make_withdrawal(?, ?, ?)", 3},
		{"buy", func(b *ProcedureBackend) error { return b.Buy(context.Background(), trade) }, "CALL execute_buy_trading(?, ?, ?, ?, ?)", 5},
		{"sell", func(b *ProcedureBackend) error { return b.Sell(context.Background(), trade) }, "CALL execute_sell_trading(?, ?, ?, ?, ?)", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProcDB{}
			backend := newProcedureHarness(t, fake)

			if err := tt.call(backend); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(fake.queries) != 1 || fake.queries[0] != tt.wantQuery {
				t.Errorf("expected query %q, got %v", tt.wantQuery, fake.queries)
			}
			if fake.argCounts[0] != tt.wantArgs {
				t.Errorf("expected %d args, got %d", tt.wantArgs, fake.argCounts[0])
			}
			if fake.begun != 1 || fake.committed != 1 || fake.rolledBack != 0 {
				t.Errorf("expected one committed transaction, got begun=%d committed=%d rolledBack=%d",
					fake.begun, fake.committed, fake.rolledBack)
			}
		})
	}
}

func TestProcedureBusinessErrorRollsBack(t *testing.T) {
	fake := &fakeProcDB{execErr: errors.New("Error 1644 (45000): Insufficient funds")}
	backend := newProcedureHarness(t, fake)

	err := backend.Withdraw(context.Background(), CashParams{
		UserID: 1, Amount: decimal.RequireFromString("500.00"),
	})

	if !errors.Is(err, apperrors.ErrInsufficientFunds) {
		t.Fatalf("expected INSUFFICIENT_FUNDS, got %v", err)
	}
	if fake.committed != 0 || fake.rolledBack != 1 {
		t.Errorf("expected rollback without commit, got committed=%d rolledBack=%d",
			fake.committed, fake.rolledBack)
	}
}

func TestProcedureBeginFailure(t *testing.T) {
	fake := &fakeProcDB{beginErr: errors.New("connection reset by peer")}
	backend := newProcedureHarness(t, fake)

	err := backend.Deposit(context.Background(), CashParams{
		UserID: 1, Amount: decimal.RequireFromString("10.00"),
	})

	if !errors.Is(err, apperrors.ErrDatabaseUnavailable) {
		t.Fatalf("expected DATABASE_UNAVAILABLE, got %v", err)
	}
	if len(fake.queries) != 0 {
		t.Errorf("no procedure should run after a failed begin, got %v", fake.queries)
	}
}

// Every exit path must return the checked-out connection to the pool. With a
// ceiling of one, a leaked connection makes the next call block until the
// context deadline.
func TestProcedureReleasesConnection(t *testing.T) {
	fake := &fakeProcDB{}
	backend := newProcedureHarness(t, fake)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cash := CashParams{UserID: 1, Amount: decimal.RequireFromString("10.00")}
	for i := 0; i < 3; i++ {
		if err := backend.Deposit(ctx, cash); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}

	// A failed call releases too.
	fake.mu.Lock()
	fake.execErr = errors.New("Error 1644 (45000): Insufficient funds")
	fake.mu.Unlock()
	if err := backend.Withdraw(ctx, cash); !errors.Is(err, apperrors.ErrInsufficientFunds) {
		t.Fatalf("expected INSUFFICIENT_FUNDS, got %v", err)
	}
	fake.mu.Lock()
	fake.execErr = nil
	fake.mu.Unlock()

	if err := backend.Deposit(ctx, cash); err != nil {
		t.Fatalf("call after failure: unexpected error: %v", err)
	}
}
