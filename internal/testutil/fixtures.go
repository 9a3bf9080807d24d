package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"quantia/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, unique username and
// email, and a zero balance.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithBalance(t, db, "0")
}

// CreateTestUserWithBalance creates a user with the given starting balance.
func CreateTestUserWithBalance(t *testing.T, db *gorm.DB, balance string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		Username:  fmt.Sprintf("user%d", n),
		Password:  string(hash),
		Email:     fmt.Sprintf("user%d@test.com", n),
		RiskLevel: models.RiskModerate,
		Balance:   decimal.RequireFromString(balance),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPortfolio creates a portfolio for the user.
func CreateTestPortfolio(t *testing.T, db *gorm.DB, userID uint) *models.Portfolio {
	t.Helper()

	portfolio := &models.Portfolio{
		UserID:      userID,
		Name:        fmt.Sprintf("Portfolio %d", nextID()),
		Description: "test portfolio",
	}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio
}

// CreateTestHolding creates a holding with the given quantity, acquisition
// price and invested total.
func CreateTestHolding(t *testing.T, db *gorm.DB, portfolioID uint, symbol, quantity, price, invested string) *models.PortfolioAsset {
	t.Helper()

	holding := &models.PortfolioAsset{
		PortfolioID:      portfolioID,
		AssetSymbol:      symbol,
		Quantity:         decimal.RequireFromString(quantity),
		AcquisitionPrice: decimal.RequireFromString(price),
		TotalInvested:    decimal.RequireFromString(invested),
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestTransaction creates a completed transaction of the given type.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, amount string) *models.Transaction {
	t.Helper()

	record := &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      decimal.RequireFromString(amount),
		Status:      models.TransactionStatusCompleted,
		Description: "test transaction",
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return record
}
