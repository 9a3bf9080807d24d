package services

import (
	"context"

	"quantia/internal/models"
	"quantia/internal/pagination"
)

// AuthServicer defines the contract for registration and credential checks.
type AuthServicer interface {
	Register(username, password, email string) (*models.User, error)
	Login(username, password string) (*models.User, error)
}

// AccountServicer defines the read side: directory queries over users,
// portfolios, holdings and transactions, with numeric normalization applied.
type AccountServicer interface {
	CheckConnection(ctx context.Context) error
	GetUserByID(id uint) (*UserRecord, error)
	GetUserByEmail(email string) (*UserRecord, error)
	ListTransactions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[TransactionRecord], error)
	ListPortfolios(userID uint) ([]PortfolioRecord, error)
	GetPortfolioAssets(portfolioID uint) (*PortfolioAssetsRecord, error)
}

// LedgerServicer defines the write side: validated, transactional mutations
// of balances and holdings.
type LedgerServicer interface {
	Deposit(ctx context.Context, userID uint, amount float64, description string) (*CashReceipt, error)
	Withdraw(ctx context.Context, userID uint, amount float64, description string) (*CashReceipt, error)
	Buy(ctx context.Context, userID, portfolioID uint, symbol string, quantity, price float64) (*TradeReceipt, error)
	Sell(ctx context.Context, userID, portfolioID uint, symbol string, quantity, price float64) (*TradeReceipt, error)
	ChangeRisk(userID uint, risk models.RiskLevel) error
}
