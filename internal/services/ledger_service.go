package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "quantia/internal/errors"
	"quantia/internal/ledger"
	"quantia/internal/models"
)

// Default audit descriptions when the caller provides none.
const (
	defaultDepositDescription    = "Deposit completed"
	defaultWithdrawalDescription = "Withdrawal completed"
)

// ledgerService validates requests and orchestrates the ledger backend.
// Validation is local and fails before any connection is acquired.
type ledgerService struct {
	db      *gorm.DB
	backend ledger.Backend
}

// NewLedgerService creates a new LedgerServicer over the given backend.
func NewLedgerService(db *gorm.DB, backend ledger.Backend) LedgerServicer {
	return &ledgerService{db: db, backend: backend}
}

// Deposit credits the user's balance.
func (s *ledgerService) Deposit(ctx context.Context, userID uint, amount float64, description string) (*CashReceipt, error) {
	p, err := cashParams(userID, amount, description, defaultDepositDescription)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Deposit(ctx, *p); err != nil {
		return nil, err
	}
	return &CashReceipt{Amount: amount}, nil
}

// Withdraw debits the user's balance.
func (s *ledgerService) Withdraw(ctx context.Context, userID uint, amount float64, description string) (*CashReceipt, error) {
	p, err := cashParams(userID, amount, description, defaultWithdrawalDescription)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Withdraw(ctx, *p); err != nil {
		return nil, err
	}
	return &CashReceipt{Amount: amount}, nil
}

// Buy purchases quantity of a symbol into the portfolio.
func (s *ledgerService) Buy(ctx context.Context, userID, portfolioID uint, symbol string, quantity, price float64) (*TradeReceipt, error) {
	p, err := tradeParams(userID, portfolioID, symbol, quantity, price)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Buy(ctx, *p); err != nil {
		return nil, err
	}
	return &TradeReceipt{Asset: symbol, Quantity: quantity, Total: quantity * price}, nil
}

// Sell disposes of quantity of a symbol from the portfolio.
func (s *ledgerService) Sell(ctx context.Context, userID, portfolioID uint, symbol string, quantity, price float64) (*TradeReceipt, error) {
	p, err := tradeParams(userID, portfolioID, symbol, quantity, price)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Sell(ctx, *p); err != nil {
		return nil, err
	}
	return &TradeReceipt{Asset: symbol, Quantity: quantity, Total: quantity * price}, nil
}

// ChangeRisk updates the user's risk classification. A single-statement
// update; no transaction semantics beyond that.
func (s *ledgerService) ChangeRisk(userID uint, risk models.RiskLevel) error {
	if userID == 0 || risk == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "risk and userId are required")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&user).Update("risk_level", risk).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func cashParams(userID uint, amount float64, description, fallback string) (*ledger.CashParams, error) {
	if userID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "userId is required")
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if description == "" {
		description = fallback
	}
	return &ledger.CashParams{
		UserID:      userID,
		Amount:      decimal.NewFromFloat(amount),
		Description: description,
	}, nil
}

func tradeParams(userID, portfolioID uint, symbol string, quantity, price float64) (*ledger.TradeParams, error) {
	if userID == 0 || portfolioID == 0 || symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "userId, portfolioId and assetSymbol are required")
	}
	if quantity <= 0 || price <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity and price must be greater than zero")
	}
	return &ledger.TradeParams{
		UserID:      userID,
		PortfolioID: portfolioID,
		Symbol:      symbol,
		Quantity:    decimal.NewFromFloat(quantity),
		Price:       decimal.NewFromFloat(price),
	}, nil
}
