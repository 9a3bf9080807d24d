package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"quantia/internal/ledger"
	"quantia/internal/models"
	"quantia/internal/testutil"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeposit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	user := testutil.CreateTestUserWithBalance(t, db, "100.00")

	err := backend.Deposit(context.Background(), ledger.CashParams{
		UserID:      user.ID,
		Amount:      dec("250.50"),
		Description: "payday",
	})
	testutil.AssertNoError(t, err)

	var updated models.User
	testutil.AssertNoError(t, db.First(&updated, user.ID).Error)
	if !updated.Balance.Equal(dec("350.50")) {
		t.Errorf("expected balance 350.50, got %s", updated.Balance)
	}

	var audit models.Transaction
	testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&audit).Error)
	if audit.Type != models.TransactionTypeDeposit {
		t.Errorf("expected deposit audit row, got %s", audit.Type)
	}
	if !audit.Amount.Equal(dec("250.50")) {
		t.Errorf("expected audit amount 250.50, got %s", audit.Amount)
	}
	if audit.Description != "payday" {
		t.Errorf("expected description 'payday', got %q", audit.Description)
	}
}

func TestDepositUnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	err := backend.Deposit(context.Background(), ledger.CashParams{
		UserID: 9999,
		Amount: dec("10.00"),
	})
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestWithdraw(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	user := testutil.CreateTestUserWithBalance(t, db, "100.00")

	err := backend.Withdraw(context.Background(), ledger.CashParams{
		UserID:      user.ID,
		Amount:      dec("40.00"),
		Description: "rent",
	})
	testutil.AssertNoError(t, err)

	var updated models.User
	testutil.AssertNoError(t, db.First(&updated, user.ID).Error)
	if !updated.Balance.Equal(dec("60.00")) {
		t.Errorf("expected balance 60.00, got %s", updated.Balance)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	user := testutil.CreateTestUserWithBalance(t, db, "50.00")

	err := backend.Withdraw(context.Background(), ledger.CashParams{
		UserID: user.ID,
		Amount: dec("50.01"),
	})
	testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")

	// The rejection must leave no trace: balance unchanged, no audit row.
	var updated models.User
	testutil.AssertNoError(t, db.First(&updated, user.ID).Error)
	if !updated.Balance.Equal(dec("50.00")) {
		t.Errorf("balance should be unchanged, got %s", updated.Balance)
	}

	var count int64
	testutil.AssertNoError(t, db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	if count != 0 {
		t.Errorf("expected no audit rows after rejection, got %d", count)
	}
}

func TestWithdrawExactBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	user := testutil.CreateTestUserWithBalance(t, db, "75.25")

	err := backend.Withdraw(context.Background(), ledger.CashParams{
		UserID: user.ID,
		Amount: dec("75.25"),
	})
	testutil.AssertNoError(t, err)

	var updated models.User
	testutil.AssertNoError(t, db.First(&updated, user.ID).Error)
	if !updated.Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", updated.Balance)
	}
}

func TestBuyNewHolding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	user := testutil.CreateTestUserWithBalance(t, db, "2000.00")
	portfolio := testutil.CreateTestPortfolio(t, db, user.ID)

	err := backend.Buy(context.Background(), ledger.TradeParams{
		UserID:      user.ID,
		PortfolioID: portfolio.ID,
		Symbol:      "AAPL",
		Quantity:    dec("10"),
		Price:       dec("150.00"),
	})
	testutil.AssertNoError(t, err)

	var updated models.User
	testutil.AssertNoError(t, db.First(&updated, user.ID).Error)
	if !updated.Balance.Equal(dec("500.00")) {
		t.Errorf("expected balance 500.00, got %s", updated.Balance)
	}

	var holding models.PortfolioAsset
	testutil.AssertNoError(t, db.Where("portfolio_id = ? AND asset_symbol = ?", portfolio.ID, "AAPL").First(&holding).Error)
	if !holding.Quantity.Equal(dec("10")) {
		t.Errorf("expected quantity 10, got %s", holding.Quantity)
	}
	if !holding.AcquisitionPrice.Equal(dec("150.00")) {
		t.Errorf("expected acquisition price 150.00, got %s", holding.AcquisitionPrice)
	}
	if !holding.TotalInvested.Equal(dec("1500.00")) {
		t.Errorf("expected total invested 1500.00, got %s", holding.TotalInvested)
	}

	var audit models.Transaction
	testutil.AssertNoError(t, db.Where("user_id = ? AND type = ?", user.ID, models.TransactionTypeBuy).First(&audit).Error)
	if !audit.Amount.Equal(dec("1500.00")) {
		t.Errorf("expected audit amount 1500.00, got %s", audit.Amount)
	}
}

func TestBuyAveragesAcquisitionPrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	user := testutil.CreateTestUserWithBalance(t, db, "10000.00")
	portfolio := testutil.CreateTestPortfolio(t, db, user.ID)

	// 10 @ 100, then 10 @ 200: average must land on 150.
	for _, price := range []string{"100.00", "200.00"} {
		err := backend.Buy(context.Background(), ledger.TradeParams{
			UserID:      user.ID,
			PortfolioID: portfolio.ID,
			Symbol:      "MSFT",
			Quantity:    dec("10"),
			Price:       dec(price),
		})
		testutil.AssertNoError(t, err)
	}

	var holding models.PortfolioAsset
	testutil.AssertNoError(t, db.Where("portfolio_id = ? AND asset_symbol = ?", portfolio.ID, "MSFT").First(&holding).Error)
	if !holding.Quantity.Equal(dec("20")) {
		t.Errorf("expected quantity 20, got %s", holding.Quantity)
	}
	if !holding.AcquisitionPrice.Equal(dec("150.00")) {
		t.Errorf("expected averaged price 150.00, got %s", holding.AcquisitionPrice)
	}
	if !holding.TotalInvested.Equal(dec("3000.00")) {
		t.Errorf("expected total invested 3000.00, got %s", holding.TotalInvested)
	}
}

func TestBuyInsufficientFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	user := testutil.CreateTestUserWithBalance(t, db, "100.00")
	portfolio := testutil.CreateTestPortfolio(t, db, user.ID)

	err := backend.Buy(context.Background(), ledger.TradeParams{
		UserID:      user.ID,
		PortfolioID: portfolio.ID,
		Symbol:      "AAPL",
		Quantity:    dec("1"),
		Price:       dec("100.01"),
	})
	testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")

	var count int64
	testutil.AssertNoError(t, db.Model(&models.PortfolioAsset{}).Where("portfolio_id = ?", portfolio.ID).Count(&count).Error)
	if count != 0 {
		t.Errorf("expected no holding after rejection, got %d", count)
	}
}

func TestBuyUnknownPortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	user := testutil.CreateTestUserWithBalance(t, db, "1000.00")

	err := backend.Buy(context.Background(), ledger.TradeParams{
		UserID:      user.ID,
		PortfolioID: 424242,
		Symbol:      "AAPL",
		Quantity:    dec("1"),
		Price:       dec("100.00"),
	})
	testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
}

func TestBuyForeignPortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	owner := testutil.CreateTestUserWithBalance(t, db, "1000.00")
	portfolio := testutil.CreateTestPortfolio(t, db, owner.ID)
	intruder := testutil.CreateTestUserWithBalance(t, db, "1000.00")

	err := backend.Buy(context.Background(), ledger.TradeParams{
		UserID:      intruder.ID,
		PortfolioID: portfolio.ID,
		Symbol:      "AAPL",
		Quantity:    dec("1"),
		Price:       dec("100.00"),
	})
	testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
}

func TestSell(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	user := testutil.CreateTestUserWithBalance(t, db, "0")
	portfolio := testutil.CreateTestPortfolio(t, db, user.ID)
	testutil.CreateTestHolding(t, db, portfolio.ID, "AAPL", "10", "150.00", "1500.00")

	err := backend.Sell(context.Background(), ledger.TradeParams{
		UserID:      user.ID,
		PortfolioID: portfolio.ID,
		Symbol:      "AAPL",
		Quantity:    dec("4"),
		Price:       dec("200.00"),
	})
	testutil.AssertNoError(t, err)

	// Proceeds at sale price; invested total shrinks at acquisition cost.
	var updated models.User
	testutil.AssertNoError(t, db.First(&updated, user.ID).Error)
	if !updated.Balance.Equal(dec("800.00")) {
		t.Errorf("expected balance 800.00, got %s", updated.Balance)
	}

	var holding models.PortfolioAsset
	testutil.AssertNoError(t, db.Where("portfolio_id = ? AND asset_symbol = ?", portfolio.ID, "AAPL").First(&holding).Error)
	if !holding.Quantity.Equal(dec("6")) {
		t.Errorf("expected quantity 6, got %s", holding.Quantity)
	}
	if !holding.TotalInvested.Equal(dec("900.00")) {
		t.Errorf("expected total invested 900.00, got %s", holding.TotalInvested)
	}
	if !holding.AcquisitionPrice.Equal(dec("150.00")) {
		t.Errorf("acquisition price should be unchanged on partial sale, got %s", holding.AcquisitionPrice)
	}
}

func TestSellEntireHolding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	user := testutil.CreateTestUserWithBalance(t, db, "0")
	portfolio := testutil.CreateTestPortfolio(t, db, user.ID)
	testutil.CreateTestHolding(t, db, portfolio.ID, "AAPL", "10", "150.00", "1500.00")

	err := backend.Sell(context.Background(), ledger.TradeParams{
		UserID:      user.ID,
		PortfolioID: portfolio.ID,
		Symbol:      "AAPL",
		Quantity:    dec("10"),
		Price:       dec("160.00"),
	})
	testutil.AssertNoError(t, err)

	var holding models.PortfolioAsset
	testutil.AssertNoError(t, db.Where("portfolio_id = ? AND asset_symbol = ?", portfolio.ID, "AAPL").First(&holding).Error)
	if !holding.Quantity.IsZero() {
		t.Errorf("expected zero quantity, got %s", holding.Quantity)
	}
	if !holding.TotalInvested.IsZero() {
		t.Errorf("expected zero invested, got %s", holding.TotalInvested)
	}
	if !holding.AcquisitionPrice.IsZero() {
		t.Errorf("expected zero acquisition price, got %s", holding.AcquisitionPrice)
	}
}

func TestSellInsufficientQuantity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	user := testutil.CreateTestUserWithBalance(t, db, "0")
	portfolio := testutil.CreateTestPortfolio(t, db, user.ID)
	testutil.CreateTestHolding(t, db, portfolio.ID, "AAPL", "5", "150.00", "750.00")

	err := backend.Sell(context.Background(), ledger.TradeParams{
		UserID:      user.ID,
		PortfolioID: portfolio.ID,
		Symbol:      "AAPL",
		Quantity:    dec("6"),
		Price:       dec("200.00"),
	})
	testutil.AssertAppError(t, err, "INSUFFICIENT_QUANTITY")

	// No partial mutation on rejection.
	var updated models.User
	testutil.AssertNoError(t, db.First(&updated, user.ID).Error)
	if !updated.Balance.IsZero() {
		t.Errorf("balance should be unchanged, got %s", updated.Balance)
	}

	var holding models.PortfolioAsset
	testutil.AssertNoError(t, db.Where("portfolio_id = ? AND asset_symbol = ?", portfolio.ID, "AAPL").First(&holding).Error)
	if !holding.Quantity.Equal(dec("5")) {
		t.Errorf("quantity should be unchanged, got %s", holding.Quantity)
	}
}

func TestSellUnheldSymbol(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)

	user := testutil.CreateTestUserWithBalance(t, db, "0")
	portfolio := testutil.CreateTestPortfolio(t, db, user.ID)

	err := backend.Sell(context.Background(), ledger.TradeParams{
		UserID:      user.ID,
		PortfolioID: portfolio.ID,
		Symbol:      "TSLA",
		Quantity:    dec("1"),
		Price:       dec("100.00"),
	})
	testutil.AssertAppError(t, err, "INSUFFICIENT_QUANTITY")
}

// TestLedgerRoundTrip exercises the full cycle: deposit, buy, partial sell,
// oversell rejection, withdrawal. Every step checks the running balance.
func TestLedgerRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	backend := ledger.NewStateBackend(db)
	ctx := context.Background()

	user := testutil.CreateTestUserWithBalance(t, db, "0")
	portfolio := testutil.CreateTestPortfolio(t, db, user.ID)

	testutil.AssertNoError(t, backend.Deposit(ctx, ledger.CashParams{UserID: user.ID, Amount: dec("5000.00")}))
	testutil.AssertNoError(t, backend.Buy(ctx, ledger.TradeParams{
		UserID: user.ID, PortfolioID: portfolio.ID, Symbol: "AAPL", Quantity: dec("20"), Price: dec("100.00"),
	}))
	testutil.AssertNoError(t, backend.Sell(ctx, ledger.TradeParams{
		UserID: user.ID, PortfolioID: portfolio.ID, Symbol: "AAPL", Quantity: dec("5"), Price: dec("120.00"),
	}))

	err := backend.Sell(ctx, ledger.TradeParams{
		UserID: user.ID, PortfolioID: portfolio.ID, Symbol: "AAPL", Quantity: dec("16"), Price: dec("120.00"),
	})
	testutil.AssertAppError(t, err, "INSUFFICIENT_QUANTITY")

	testutil.AssertNoError(t, backend.Withdraw(ctx, ledger.CashParams{UserID: user.ID, Amount: dec("3000.00")}))

	// 5000 - 2000 + 600 - 3000 = 600
	var updated models.User
	testutil.AssertNoError(t, db.First(&updated, user.ID).Error)
	if !updated.Balance.Equal(dec("600.00")) {
		t.Errorf("expected final balance 600.00, got %s", updated.Balance)
	}

	var auditCount int64
	testutil.AssertNoError(t, db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&auditCount).Error)
	if auditCount != 4 {
		t.Errorf("expected 4 audit rows (rejected sale leaves none), got %d", auditCount)
	}
}
