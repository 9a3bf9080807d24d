package testutil_test

import (
	"testing"

	"quantia/internal/models"
	"quantia/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "portfolios", "portfolio_assets", "transactions"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUserWithBalance(t, db, "500.00")
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}
	if user.Balance.String() != "500" {
		t.Errorf("expected balance 500, got %s", user.Balance)
	}

	portfolio := testutil.CreateTestPortfolio(t, db, user.ID)
	if portfolio.UserID != user.ID {
		t.Errorf("expected portfolio owner %d, got %d", user.ID, portfolio.UserID)
	}

	holding := testutil.CreateTestHolding(t, db, portfolio.ID, "AAPL", "10", "150.00", "1500.00")
	if holding.AssetSymbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", holding.AssetSymbol)
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeDeposit, "100.00")
	if tx.Status != models.TransactionStatusCompleted {
		t.Errorf("expected completed status, got %s", tx.Status)
	}
}
